// Package history records scan-run statistics in a per-project SQLite
// database. Only aggregate run stats are stored; selection state never
// persists across runs and scoring never reads this database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"djlens/internal/logging"
)

// DBFileName is the history database file under .djlens/.
const DBFileName = "djlens.db"

// Run is one recorded scan-and-report invocation.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Root           string
	StateID        string
	FilesTotal     int
	FilesIncluded  int
	TokensIncluded int
	BudgetTokens   int
	BudgetUsedPct  float64
}

// Store wraps the history database connection.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
}

// Open opens or creates the history database under projectRoot/.djlens.
func Open(projectRoot string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	stateDir := filepath.Join(projectRoot, ".djlens")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, DBFileName)
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, logger: logger}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS scan_runs (
			id              TEXT PRIMARY KEY,
			created_at      TEXT NOT NULL,
			root            TEXT NOT NULL,
			state_id        TEXT NOT NULL,
			files_total     INTEGER NOT NULL,
			files_included  INTEGER NOT NULL,
			tokens_included INTEGER NOT NULL,
			budget_tokens   INTEGER NOT NULL,
			budget_used_pct REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scan_runs_created_at
			ON scan_runs(created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Record inserts one run row.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO scan_runs
			(id, created_at, root, state_id, files_total, files_included,
			 tokens_included, budget_tokens, budget_used_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.Root, run.StateID,
		run.FilesTotal, run.FilesIncluded, run.TokensIncluded,
		run.BudgetTokens, run.BudgetUsedPct)
	if err != nil {
		return fmt.Errorf("failed to record scan run: %w", err)
	}

	s.logger.Debug("Scan run recorded", map[string]interface{}{
		"runId": run.ID,
	})
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, created_at, root, state_id, files_total, files_included,
		       tokens_included, budget_tokens, budget_used_pct
		FROM scan_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.Root, &run.StateID,
			&run.FilesTotal, &run.FilesIncluded, &run.TokensIncluded,
			&run.BudgetTokens, &run.BudgetUsedPct); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			run.CreatedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
