// Package score computes relevance scores for inventory files.
package score

import (
	"path"
	"strings"
	"time"

	"djlens/internal/correlate"
	"djlens/internal/inventory"
)

// RecentWindow is the rolling window within which a file counts as
// recently modified.
const RecentWindow = 24 * time.Hour

// SelfCorrelationBonus is added when a recent file appears in its own
// correlation set. This stacks with the selector's recency bonuses on
// purpose; see the design notes before changing it.
const SelfCorrelationBonus = 150

// filePriorities is the base score table for exact Django filenames.
var filePriorities = map[string]float64{
	"settings.py":    100,
	"urls.py":        90,
	"models.py":      80,
	"views.py":       70,
	"forms.py":       60,
	"serializers.py": 50,
	"tests.py":       30,
}

// defaultPythonScore applies to .py files not in the priority table.
const defaultPythonScore = 40

// Scorer computes priority scores. Deterministic given an explicit now.
type Scorer struct {
	resolver *correlate.Resolver
}

// NewScorer creates a scorer backed by the given correlation resolver.
func NewScorer(resolver *correlate.Resolver) *Scorer {
	return &Scorer{resolver: resolver}
}

// IsRecent reports whether a file was modified within the recent window.
func IsRecent(f inventory.FileRecord, now time.Time) bool {
	return now.Sub(f.LastModified) < RecentWindow
}

// Score computes the priority score of file against the full inventory.
// The result is unclamped and may be negative.
func (s *Scorer) Score(file inventory.FileRecord, all []inventory.FileRecord, now time.Time) float64 {
	score := 0.0
	hoursSince := now.Sub(file.LastModified).Hours()

	// A recently touched file whose own path shows up in its correlation
	// set gets a flat boost.
	if hoursSince < RecentWindow.Hours() {
		correlated := s.resolver.Correlate(file, all)
		if _, ok := correlated[file.Path]; ok {
			score += SelfCorrelationBonus
		}
	}

	score += baseTypeScore(file)

	// Recency bonus decays linearly to zero after 240 hours.
	score += max(0, 100-(hoursSince/24)*10)

	// Larger files are penalized past 1000 estimated tokens.
	score -= max(0, float64(file.TokenEstimate)/1000*5)

	return score
}

// baseTypeScore is the fixed per-type priority component.
func baseTypeScore(file inventory.FileRecord) float64 {
	filename := path.Base(file.Path)

	switch {
	case strings.HasSuffix(filename, ".html"):
		if strings.Contains(filename, "base.html") {
			return 85
		}
		if strings.Contains(file.Path, "/templates/") {
			return 65
		}
		return 0
	case strings.HasSuffix(filename, ".py"):
		if p, ok := filePriorities[filename]; ok {
			return p
		}
		return defaultPythonScore
	case strings.HasSuffix(filename, ".js"), strings.HasSuffix(filename, ".css"):
		return 35
	default:
		return 0
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
