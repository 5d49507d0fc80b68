package inventory

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// PatternsFile is the optional per-project pattern declaration file.
const PatternsFile = "PATTERNS.toml"

// MatchRules holds the category → filename-suffix table that decides which
// files enter the inventory. A file qualifies when its name ends with one of
// the listed patterns, or when it is an .html file under a templates
// directory.
type MatchRules struct {
	// Patterns maps a category name to filename suffixes or exact names.
	Patterns map[string][]string `toml:"patterns"`

	// ExcludeDirs are directory names pruned from traversal entirely.
	ExcludeDirs []string `toml:"exclude_dirs"`
}

// DefaultRules returns the built-in Django matching table.
func DefaultRules() MatchRules {
	return MatchRules{
		Patterns: map[string][]string{
			"models":      {"models.py"},
			"views":       {"views.py", "viewsets.py", "apis.py"},
			"urls":        {"urls.py"},
			"forms":       {"forms.py"},
			"serializers": {"serializers.py"},
			"templates":   {".html"},
			"static":      {".js", ".css"},
		},
		ExcludeDirs: []string{
			".idea", ".git", "venv", ".venv", "env",
			"__pycache__", "node_modules", "media",
			"static", "migrations",
		},
	}
}

// patternsDeclaration mirrors the PATTERNS.toml schema.
type patternsDeclaration struct {
	Patterns    map[string][]string `toml:"patterns"`
	ExcludeDirs []string            `toml:"exclude_dirs"`
}

// LoadRules returns the default rules merged with any PATTERNS.toml
// declaration found at the project root. Declared categories extend the
// defaults; declared exclude dirs are appended.
func LoadRules(projectRoot string) (MatchRules, error) {
	rules := DefaultRules()

	declPath := filepath.Join(projectRoot, PatternsFile)
	data, err := os.ReadFile(declPath)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, err
	}

	var decl patternsDeclaration
	if err := toml.Unmarshal(data, &decl); err != nil {
		return rules, err
	}

	for category, patterns := range decl.Patterns {
		rules.Patterns[category] = append(rules.Patterns[category], patterns...)
	}
	rules.ExcludeDirs = append(rules.ExcludeDirs, decl.ExcludeDirs...)

	return rules, nil
}

// Matches reports whether a filename qualifies under the pattern table.
func (m MatchRules) Matches(name string) bool {
	for _, patterns := range m.Patterns {
		for _, pat := range patterns {
			if strings.HasSuffix(name, pat) {
				return true
			}
		}
	}
	return false
}

// IsExcludedDir reports whether a directory name is pruned from traversal.
func (m MatchRules) IsExcludedDir(name string) bool {
	for _, d := range m.ExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}

// isTemplateUnder reports whether an .html file sits under a templates
// path segment.
func isTemplateUnder(relDir string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(relDir), "/") {
		if seg == "templates" {
			return true
		}
	}
	return false
}
