// Package correlate determines which inventory files are contextually
// related to a given file. Correlation is heuristic: naming convention plus
// textual substring containment, not a verified import graph.
package correlate

import (
	"context"
	"path"
	"strings"

	"djlens/internal/inventory"
	"djlens/internal/symbols"
)

// moduleMarkers are the directory names that anchor a Django app module.
var moduleMarkers = []string{"views", "models", "forms", "urls"}

// Resolver computes correlation sets. It holds only the Python name
// extractor; Correlate itself is a pure function of its inputs.
type Resolver struct {
	extractor *symbols.Extractor
}

// NewResolver creates a correlation resolver.
func NewResolver() *Resolver {
	return &Resolver{extractor: symbols.NewExtractor()}
}

// OwningModuleDir walks a project-relative path upward to the nearest
// ancestor segment named views/models/forms/urls and returns the path above
// it. Falls back to the file's parent directory.
func OwningModuleDir(p string) string {
	parts := strings.Split(toSlash(p), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		for _, marker := range moduleMarkers {
			if parts[i] == marker {
				return strings.Join(parts[:i], "/")
			}
		}
	}
	return path.Dir(p)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Correlate returns the set of inventory paths contextually related to
// file. The policy depends on the file's role; files with no recognized
// role correlate with nothing.
func (r *Resolver) Correlate(file inventory.FileRecord, all []inventory.FileRecord) map[string]struct{} {
	correlated := make(map[string]struct{})
	appDir := OwningModuleDir(file.Path)

	switch {
	case file.IsView():
		r.correlateView(file, all, appDir, correlated)
	case file.IsModel():
		r.correlateModel(file, all, appDir, correlated)
	case file.IsTemplate():
		r.correlateTemplate(file, all, correlated)
	}

	return correlated
}

// correlateView relates a view to its module's models/forms/urls and to any
// template whose path mentions one of the view's definition names.
// Name matching against template paths is case-insensitive; both sides are
// lowercased.
func (r *Resolver) correlateView(file inventory.FileRecord, all []inventory.FileRecord, appDir string, out map[string]struct{}) {
	names := r.extractor.DefinitionNames(context.Background(), []byte(file.Content))

	for _, other := range all {
		if strings.Contains(other.Path, appDir) {
			if containsAny(other.Path, "models.py", "forms.py", "urls.py") {
				out[other.Path] = struct{}{}
			}
		}

		if strings.HasSuffix(other.Path, ".html") {
			lowerPath := strings.ToLower(other.Path)
			for name := range names {
				if strings.Contains(lowerPath, name) {
					out[other.Path] = struct{}{}
					break
				}
			}
		}
	}
}

// correlateModel relates a model to same-module views/forms whose content
// contains the bare module name. The containment check is case-sensitive.
func (r *Resolver) correlateModel(file inventory.FileRecord, all []inventory.FileRecord, appDir string, out map[string]struct{}) {
	modelName := file.BareName()

	for _, other := range all {
		if !strings.Contains(other.Path, appDir) {
			continue
		}
		if !containsAny(other.Path, "views.py", "forms.py") {
			continue
		}
		if strings.Contains(other.Content, modelName) {
			out[other.Path] = struct{}{}
		}
	}
}

// correlateTemplate relates a template to every view whose content contains
// the bare template name (case-sensitive), plus each such view's own
// module's model and form files.
func (r *Resolver) correlateTemplate(file inventory.FileRecord, all []inventory.FileRecord, out map[string]struct{}) {
	templateName := file.BareName()

	for _, other := range all {
		if !strings.Contains(other.Path, "views.py") {
			continue
		}
		if !strings.Contains(other.Content, templateName) {
			continue
		}
		out[other.Path] = struct{}{}

		viewDir := OwningModuleDir(other.Path)
		for _, appFile := range all {
			if !strings.Contains(appFile.Path, viewDir) {
				continue
			}
			if containsAny(appFile.Path, "models.py", "forms.py") {
				out[appFile.Path] = struct{}{}
			}
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
