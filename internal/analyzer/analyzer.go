// Package analyzer ties the scan → score → select → report pipeline
// together. Every run is a self-contained pass over a fresh inventory
// snapshot; nothing carries over between runs.
package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"djlens/internal/config"
	"djlens/internal/history"
	"djlens/internal/inventory"
	"djlens/internal/logging"
	"djlens/internal/report"
	"djlens/internal/selection"
)

// RunResult is the outcome of one pipeline run. It is returned to the
// caller even when the report sink fails; sink health never hides the
// selection itself.
type RunResult struct {
	RunID      string
	StateID    string
	Inventory  []inventory.FileRecord
	Selection  selection.Result
	ReportPath string
}

// Analyzer owns the pipeline collaborators for one project.
type Analyzer struct {
	root     string
	cfg      *config.Config
	rules    inventory.MatchRules
	scanner  *inventory.Scanner
	selector *selection.Selector
	writer   *report.Writer
	store    *history.Store // nil when history is disabled
	logger   *logging.Logger
	now      func() time.Time
}

// New builds an analyzer for the project root using the given config.
func New(root string, cfg *config.Config, logger *logging.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	rules, err := inventory.LoadRules(root)
	if err != nil {
		logger.Warn("Ignoring invalid PATTERNS.toml", map[string]interface{}{
			"error": err.Error(),
		})
		rules = inventory.DefaultRules()
	}
	rules.ExcludeDirs = append(rules.ExcludeDirs, cfg.Scan.ExcludeDirs...)

	a := &Analyzer{
		root:     root,
		cfg:      cfg,
		rules:    rules,
		scanner:  inventory.NewScanner(root, rules, cfg.Scan.IncludeOnly, logger),
		selector: selection.NewSelector(),
		writer:   report.NewWriter(root, cfg.OutputDir, cfg.Report.Compress, logger),
		logger:   logger,
		now:      time.Now,
	}

	if cfg.History.Enabled {
		store, err := history.Open(root, logger)
		if err != nil {
			// History is best-effort bookkeeping; a broken database must
			// not block report generation.
			logger.Warn("History store unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			a.store = store
		}
	}

	return a, nil
}

// Rules exposes the effective match rules (defaults plus declarations).
func (a *Analyzer) Rules() inventory.MatchRules {
	return a.rules
}

// Config exposes the configuration the analyzer was built with.
func (a *Analyzer) Config() *config.Config {
	return a.cfg
}

// Close releases the history store, if any.
func (a *Analyzer) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Scan runs only the inventory stage.
func (a *Analyzer) Scan() ([]inventory.FileRecord, error) {
	return a.scanner.Scan()
}

// Run executes the full pipeline and writes the codebase report. The
// returned RunResult is valid whenever scanning succeeded, even if err is
// a report-write failure.
func (a *Analyzer) Run(ctx context.Context) (*RunResult, error) {
	start := a.now()

	files, err := a.scanner.Scan()
	if err != nil {
		return nil, err
	}

	result := a.selector.Select(files, a.cfg.Budget.MaxTokens, start)

	run := &RunResult{
		RunID:     uuid.New().String(),
		StateID:   report.StateDigest(files),
		Inventory: files,
		Selection: result,
	}

	a.logger.Info("Selection complete", map[string]interface{}{
		"runId":     run.RunID,
		"files":     len(files),
		"selected":  len(result.Selected),
		"tokens":    result.TotalTokens,
		"budgetPct": result.BudgetUsedPercent(),
	})

	a.recordHistory(ctx, run, start)

	reportPath, writeErr := a.writer.WriteCodebaseReport(files, result, report.Meta{
		RunID:       run.RunID,
		StateID:     run.StateID,
		GeneratedAt: start,
	})
	run.ReportPath = reportPath

	return run, writeErr
}

// AnalyzeDirectory writes the single-directory analysis artifact.
func (a *Analyzer) AnalyzeDirectory(dir string) (string, error) {
	return a.writer.WriteDirectoryAnalysis(dir, a.rules, a.now())
}

func (a *Analyzer) recordHistory(ctx context.Context, run *RunResult, start time.Time) {
	if a.store == nil {
		return
	}
	err := a.store.Record(ctx, history.Run{
		ID:             run.RunID,
		CreatedAt:      start,
		Root:           a.root,
		StateID:        run.StateID,
		FilesTotal:     len(run.Inventory),
		FilesIncluded:  len(run.Selection.Selected),
		TokensIncluded: run.Selection.TotalTokens,
		BudgetTokens:   run.Selection.BudgetTokens,
		BudgetUsedPct:  run.Selection.BudgetUsedPercent(),
	})
	if err != nil {
		a.logger.Warn("Could not record scan run", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// RecentRuns returns recorded run history, newest first.
func (a *Analyzer) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.Recent(ctx, limit)
}
