// Package report renders and persists the codebase analysis artifacts.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	djerrors "djlens/internal/errors"
	"djlens/internal/inventory"
	"djlens/internal/logging"
	"djlens/internal/selection"
)

// ReportFileName is the base name of the full codebase report.
const ReportFileName = "codebase_report.txt"

// Meta carries provenance recorded in the report header.
type Meta struct {
	RunID       string
	StateID     string
	GeneratedAt time.Time
}

// Writer persists reports under the output directory.
type Writer struct {
	projectRoot string
	outputDir   string
	compress    bool
	logger      *logging.Logger
}

// NewWriter creates a report writer. When compress is set the report is
// gzip-compressed and written with a .gz suffix.
func NewWriter(projectRoot, outputDir string, compress bool, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Writer{
		projectRoot: projectRoot,
		outputDir:   outputDir,
		compress:    compress,
		logger:      logger,
	}
}

// structureDoc is the JSON project-structure block embedded in the report.
type structureDoc struct {
	Timestamp   string              `json:"timestamp"`
	ProjectRoot string              `json:"project_root"`
	RunID       string              `json:"run_id,omitempty"`
	StateID     string              `json:"state_id,omitempty"`
	FilesByType map[string][]string `json:"files_by_type"`
}

// Render builds the full report text: header and statistics, the project
// structure as JSON, the content of every selected file, and the excluded
// file list.
func Render(files []inventory.FileRecord, result selection.Result, projectRoot string, meta Meta) string {
	var b strings.Builder

	timestamp := meta.GeneratedAt.Format("20060102_150405")

	b.WriteString("=== DJANGO PROJECT ANALYSIS ===\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", timestamp))
	if meta.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", meta.RunID))
	}
	if meta.StateID != "" {
		b.WriteString(fmt.Sprintf("State: %s\n", meta.StateID))
	}
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	b.WriteString("GENERAL STATISTICS:\n")
	b.WriteString(fmt.Sprintf("- Files included: %d\n", len(result.Selected)))
	b.WriteString(fmt.Sprintf("- Total tokens: %d / %d\n", result.TotalTokens, result.BudgetTokens))
	b.WriteString(fmt.Sprintf("- Budget used: %.1f%%\n\n", result.BudgetUsedPercent()))

	b.WriteString("=== PROJECT STRUCTURE ===\n")
	b.WriteString("```json\n")
	b.WriteString(renderStructure(files, projectRoot, meta, timestamp))
	b.WriteString("\n```\n\n")

	b.WriteString("=== FILE CONTENTS ===\n")
	for _, f := range result.Selected {
		b.WriteString(fmt.Sprintf("\n--- %s ---\n", f.Path))
		b.WriteString(fmt.Sprintf("Last modified: %s\n", f.LastModified.Format("2006-01-02 15:04:05")))
		b.WriteString("```\n")
		b.WriteString(f.Content)
		b.WriteString("\n```\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}

	if len(result.Excluded) > 0 {
		b.WriteString("\n=== EXCLUDED FILES ===\n")
		for _, f := range result.Excluded {
			b.WriteString(fmt.Sprintf("- %s (%d estimated tokens)\n", f.Path, f.TokenEstimate))
		}
	}

	return b.String()
}

func renderStructure(files []inventory.FileRecord, projectRoot string, meta Meta, timestamp string) string {
	byRole := inventory.Categorize(files)
	filesByType := make(map[string][]string, len(byRole))
	for role, paths := range byRole {
		filesByType[string(role)] = paths
	}

	doc := structureDoc{
		Timestamp:   timestamp,
		ProjectRoot: projectRoot,
		RunID:       meta.RunID,
		StateID:     meta.StateID,
		FilesByType: filesByType,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// WriteCodebaseReport renders and writes the report, returning its path.
func (w *Writer) WriteCodebaseReport(files []inventory.FileRecord, result selection.Result, meta Meta) (string, error) {
	content := Render(files, result, w.projectRoot, meta)

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", djerrors.Wrap(djerrors.WriteFailed, "could not create output directory", err)
	}

	outPath := filepath.Join(w.outputDir, ReportFileName)
	if w.compress {
		outPath += ".gz"
		if err := writeGzip(outPath, content); err != nil {
			return "", djerrors.Wrap(djerrors.WriteFailed, "could not write compressed report", err)
		}
	} else {
		if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
			return "", djerrors.Wrap(djerrors.WriteFailed, "could not write report", err)
		}
	}

	w.logger.Info("Report written", map[string]interface{}{
		"path":     outPath,
		"files":    len(result.Selected),
		"tokens":   result.TotalTokens,
		"compress": w.compress,
	})

	return outPath, nil
}

func writeGzip(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
