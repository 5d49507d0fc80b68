// Package selection sorts scored files and greedily admits them under a
// token budget.
package selection

import (
	"sort"
	"time"

	"djlens/internal/correlate"
	"djlens/internal/inventory"
	"djlens/internal/score"
)

// DefaultBudgetTokens is the default report budget (~200k characters).
const DefaultBudgetTokens = 50_000

// Bonuses applied on top of the base score during selection. The recent
// bonus intentionally stacks with the scorer's self-correlation boost.
const (
	RecentBonus     = 200
	CorrelatedBonus = 150
)

// ScoredFile pairs a record with its total selection score. Valid only
// within one selection pass.
type ScoredFile struct {
	File  inventory.FileRecord
	Score float64
}

// Result partitions one inventory snapshot into the files admitted under
// the budget and the rest. Selected and Excluded are disjoint and together
// cover the whole inventory, both ordered by descending score.
type Result struct {
	Selected     []inventory.FileRecord
	Excluded     []inventory.FileRecord
	TotalTokens  int
	BudgetTokens int
}

// BudgetUsedPercent returns how much of the budget the selection consumed.
func (r Result) BudgetUsedPercent() float64 {
	if r.BudgetTokens == 0 {
		return 0
	}
	return float64(r.TotalTokens) / float64(r.BudgetTokens) * 100
}

// Selector runs the scoring and budgeted-selection pass.
type Selector struct {
	resolver *correlate.Resolver
	scorer   *score.Scorer
}

// NewSelector creates a selector with a fresh resolver and scorer.
func NewSelector() *Selector {
	resolver := correlate.NewResolver()
	return &Selector{
		resolver: resolver,
		scorer:   score.NewScorer(resolver),
	}
}

// Select scores every file and greedily walks the sorted order, admitting a
// file only while the running token total stays within budget. Skipped
// files stay skipped; there is no backtracking.
func Select(files []inventory.FileRecord, budgetTokens int, now time.Time) Result {
	return NewSelector().Select(files, budgetTokens, now)
}

// Select implements the selection pass against one inventory snapshot.
func (s *Selector) Select(files []inventory.FileRecord, budgetTokens int, now time.Time) Result {
	// First pass: recent files and everything they correlate with.
	recent := make(map[string]struct{})
	correlatedToRecent := make(map[string]struct{})
	for _, f := range files {
		if !score.IsRecent(f, now) {
			continue
		}
		recent[f.Path] = struct{}{}
		for p := range s.resolver.Correlate(f, files) {
			correlatedToRecent[p] = struct{}{}
		}
	}

	scored := make([]ScoredFile, 0, len(files))
	for _, f := range files {
		total := s.scorer.Score(f, files, now)
		if _, ok := recent[f.Path]; ok {
			total += RecentBonus
		} else if _, ok := correlatedToRecent[f.Path]; ok {
			total += CorrelatedBonus
		}
		scored = append(scored, ScoredFile{File: f, Score: total})
	}

	// Stable sort: ties keep inventory order, which is mtime-descending,
	// so ties favor the more recently modified file.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	result := Result{BudgetTokens: budgetTokens}
	for _, sf := range scored {
		if budgetTokens > 0 && result.TotalTokens+sf.File.TokenEstimate <= budgetTokens {
			result.Selected = append(result.Selected, sf.File)
			result.TotalTokens += sf.File.TokenEstimate
		} else {
			result.Excluded = append(result.Excluded, sf.File)
		}
	}

	return result
}
