package inventory

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	djerrors "djlens/internal/errors"
	"djlens/internal/logging"
)

// Scanner walks a project root and builds the file inventory.
type Scanner struct {
	root    string
	rules   MatchRules
	filters []string // optional project-relative dir filters, pre-exclusion
	logger  *logging.Logger
}

// NewScanner creates a scanner for the given project root.
// filters, when non-empty, restrict the scan to the listed subtrees before
// exclusion rules apply.
func NewScanner(root string, rules MatchRules, filters []string, logger *logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scanner{
		root:    root,
		rules:   rules,
		filters: normalizeFilters(filters),
		logger:  logger,
	}
}

func normalizeFilters(filters []string) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		f = strings.Trim(filepath.ToSlash(filepath.Clean(f)), "/")
		if f != "" && f != "." {
			out = append(out, f)
		}
	}
	return out
}

// Scan walks the project root and returns the inventory sorted by
// modification time, most recent first. A file that cannot be read is
// skipped with a warning; the scan never aborts over one bad file.
func (s *Scanner) Scan() ([]FileRecord, error) {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return nil, djerrors.Wrap(djerrors.RootNotFound, "project root not found: "+s.root, err)
	}

	var files []FileRecord

	walkErr := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("Skipping unreadable path", map[string]interface{}{
				"path":  p,
				"error": err.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			// Directory filters are a pre-filter: subtrees outside every
			// filter are never entered.
			if !s.dirWithinFilters(rel) {
				return filepath.SkipDir
			}
			if s.rules.IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.pathWithinFilters(rel) {
			return nil
		}

		name := d.Name()
		relDir := filepath.ToSlash(filepath.Dir(rel))
		isTemplate := strings.HasSuffix(name, ".html") && isTemplateUnder(relDir)
		if !s.rules.Matches(name) && !isTemplate {
			return nil
		}

		record, readErr := s.readRecord(p, rel, d)
		if readErr != nil {
			s.logger.Warn("Failed to read file, skipping", map[string]interface{}{
				"path":  rel,
				"error": readErr.Error(),
			})
			return nil
		}
		files = append(files, record)
		return nil
	})
	if walkErr != nil {
		return nil, djerrors.Wrap(djerrors.InternalError, "inventory walk failed", walkErr)
	}

	// Most recently modified first. Stable, so equal timestamps keep
	// lexical walk order.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].LastModified.After(files[j].LastModified)
	})

	s.logger.Debug("Inventory scan complete", map[string]interface{}{
		"root":  s.root,
		"files": len(files),
	})

	return files, nil
}

// dirWithinFilters reports whether a directory may contain filtered files:
// it is an ancestor of a filter, equal to one, or inside one.
func (s *Scanner) dirWithinFilters(relDir string) bool {
	if len(s.filters) == 0 {
		return true
	}
	for _, f := range s.filters {
		if relDir == f || strings.HasPrefix(relDir, f+"/") || strings.HasPrefix(f, relDir+"/") {
			return true
		}
	}
	return false
}

// pathWithinFilters reports whether a file path is inside one of the filters.
func (s *Scanner) pathWithinFilters(rel string) bool {
	if len(s.filters) == 0 {
		return true
	}
	for _, f := range s.filters {
		if rel == f || strings.HasPrefix(rel, f+"/") {
			return true
		}
	}
	return false
}

func (s *Scanner) readRecord(abs, rel string, d fs.DirEntry) (FileRecord, error) {
	fi, err := d.Info()
	if err != nil {
		return FileRecord{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return FileRecord{}, err
	}
	content := string(data)
	return FileRecord{
		Path:          rel,
		LastModified:  fi.ModTime(),
		SizeBytes:     len(content),
		TokenEstimate: EstimateTokens(content),
		Content:       content,
	}, nil
}
