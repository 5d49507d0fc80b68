package report

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	djerrors "djlens/internal/errors"
	"djlens/internal/inventory"
)

// WriteDirectoryAnalysis writes a structure-plus-contents dump of a single
// directory to the output dir and returns the artifact path. A missing
// directory is a user-visible error with no side effects.
func (w *Writer) WriteDirectoryAnalysis(dir string, rules inventory.MatchRules, now time.Time) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", djerrors.Wrap(djerrors.RootNotFound, "directory not found: "+dir, err)
	}

	content, err := renderDirectoryAnalysis(dir, rules, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", djerrors.Wrap(djerrors.WriteFailed, "could not create output directory", err)
	}

	parent := filepath.Base(filepath.Dir(dir))
	name := fmt.Sprintf("directory_analysis_%s_%s.txt", parent, filepath.Base(dir))
	outPath := filepath.Join(w.outputDir, name)

	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return "", djerrors.Wrap(djerrors.WriteFailed, "could not write directory analysis", err)
	}

	w.logger.Info("Directory analysis written", map[string]interface{}{
		"dir":  dir,
		"path": outPath,
	})

	return outPath, nil
}

func renderDirectoryAnalysis(dir string, rules inventory.MatchRules, now time.Time) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\nDirectory analysis: %s\n", dir))
	b.WriteString(now.Format("20060102_150405") + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("\nDIRECTORY STRUCTURE:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	walk := func(fn func(path string, d fs.DirEntry) error) error {
		return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() && p != dir && rules.IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return fn(p, d)
		})
	}

	// Structure pass: indented tree with sizes and modification times.
	err := walk(func(p string, d fs.DirEntry) error {
		rel, _ := filepath.Rel(dir, p)
		depth := 0
		if rel != "." {
			depth = strings.Count(filepath.ToSlash(rel), "/") + 1
		}
		indent := strings.Repeat("  ", depth)

		if d.IsDir() {
			b.WriteString(fmt.Sprintf("%s%s/\n", indent, d.Name()))
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		b.WriteString(fmt.Sprintf("%s%s (%s) - Modified: %s\n",
			indent, d.Name(), formatBytes(fi.Size()), fi.ModTime().Format("2006-01-02 15:04:05")))
		return nil
	})
	if err != nil {
		return "", djerrors.Wrap(djerrors.InternalError, "directory walk failed", err)
	}

	b.WriteString("\nFILE CONTENTS:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	// Content pass: unreadable files are noted inline, never fatal.
	err = walk(func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(dir, p)
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			b.WriteString(fmt.Sprintf("\nError reading %s: %v\n", rel, readErr))
			return nil
		}
		b.WriteString(fmt.Sprintf("\n--- %s ---\n", filepath.ToSlash(rel)))
		b.WriteString("```\n")
		b.Write(data)
		b.WriteString("\n```\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		return nil
	})
	if err != nil {
		return "", djerrors.Wrap(djerrors.InternalError, "directory walk failed", err)
	}

	return b.String(), nil
}

// formatBytes formats byte size in human-readable form.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
