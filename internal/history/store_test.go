package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"djlens/internal/logging"
)

func TestOpenCreatesStateDir(t *testing.T) {
	root := t.TempDir()

	store, err := Open(root, logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(root, ".djlens", DBFileName)); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	runs := []Run{
		{
			ID: "run-1", CreatedAt: base, Root: "/proj", StateID: "aaaa",
			FilesTotal: 10, FilesIncluded: 8, TokensIncluded: 4000,
			BudgetTokens: 50_000, BudgetUsedPct: 8,
		},
		{
			ID: "run-2", CreatedAt: base.Add(time.Hour), Root: "/proj", StateID: "bbbb",
			FilesTotal: 11, FilesIncluded: 9, TokensIncluded: 4500,
			BudgetTokens: 50_000, BudgetUsedPct: 9,
		},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record(%s): %v", run.ID, err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d runs, want 2", len(got))
	}

	// Newest first.
	if got[0].ID != "run-2" || got[1].ID != "run-1" {
		t.Errorf("order = [%s %s], want [run-2 run-1]", got[0].ID, got[1].ID)
	}

	first := got[0]
	if first.StateID != "bbbb" || first.FilesTotal != 11 || first.TokensIncluded != 4500 {
		t.Errorf("round-tripped run mismatch: %+v", first)
	}
	if !first.CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("CreatedAt = %v, want %v", first.CreatedAt, base.Add(time.Hour))
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := Run{
			ID:        "run-" + string(rune('a'+i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Root:      "/proj", StateID: "s", BudgetTokens: 1,
		}
		if err := store.Record(ctx, run); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d runs", len(got))
	}
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no runs, got %d", len(got))
	}
}
