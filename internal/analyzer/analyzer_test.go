package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"djlens/internal/config"
	djerrors "djlens/internal/errors"
	"djlens/internal/logging"
)

// newTestProject lays out a small Django-shaped tree and returns its root
// plus a config pointing output and state inside it.
func newTestProject(t *testing.T) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"shop/models.py":                      "class Order: pass\n",
		"shop/views.py":                       "def order_list(request): pass\n",
		"shop/forms.py":                       "class OrderForm: pass\n",
		"shop/templates/shop/order_list.html": "<html>order_list</html>\n",
		"config/urls.py":                      "urlpatterns = []\n",
		"venv/lib/models.py":                  "ignored\n",
	}
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(root, "out")
	return root, cfg
}

func TestRunPipeline(t *testing.T) {
	root, cfg := newTestProject(t)

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	run, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.RunID == "" {
		t.Error("missing RunID")
	}
	if len(run.StateID) != 16 {
		t.Errorf("StateID = %q, want 16 hex chars", run.StateID)
	}
	if len(run.Inventory) != 5 {
		t.Errorf("inventory size = %d, want 5 (venv pruned)", len(run.Inventory))
	}
	if got := len(run.Selection.Selected) + len(run.Selection.Excluded); got != len(run.Inventory) {
		t.Errorf("selection does not partition inventory: %d vs %d", got, len(run.Inventory))
	}

	data, err := os.ReadFile(run.ReportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "=== DJANGO PROJECT ANALYSIS ===") {
		t.Error("report missing header")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	root, cfg := newTestProject(t)

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	run, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := a.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded runs = %d, want 1", len(runs))
	}
	if runs[0].ID != run.RunID {
		t.Errorf("recorded ID = %s, want %s", runs[0].ID, run.RunID)
	}
	if runs[0].StateID != run.StateID {
		t.Errorf("recorded StateID = %s, want %s", runs[0].StateID, run.StateID)
	}
}

func TestRunHistoryDisabled(t *testing.T) {
	root, cfg := newTestProject(t)
	cfg.History.Enabled = false

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := a.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if runs != nil {
		t.Errorf("expected no history, got %v", runs)
	}
	if _, statErr := os.Stat(filepath.Join(root, ".djlens", "djlens.db")); !os.IsNotExist(statErr) {
		t.Error("history database created despite being disabled")
	}
}

func TestStateDigestStableAcrossRuns(t *testing.T) {
	root, cfg := newTestProject(t)

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	first, err := a.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if first.StateID != second.StateID {
		t.Errorf("unchanged tree produced different state ids: %s vs %s",
			first.StateID, second.StateID)
	}
	if first.RunID == second.RunID {
		t.Error("each run must get a fresh run id")
	}
}

func TestAnalyzeDirectory(t *testing.T) {
	root, cfg := newTestProject(t)

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	path, err := a.AnalyzeDirectory(filepath.Join(root, "shop"))
	if err != nil {
		t.Fatalf("AnalyzeDirectory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("analysis artifact missing: %v", err)
	}

	_, err = a.AnalyzeDirectory(filepath.Join(root, "missing"))
	if !djerrors.HasCode(err, djerrors.RootNotFound) {
		t.Errorf("error code = %s, want %s", djerrors.CodeOf(err), djerrors.RootNotFound)
	}
}

func TestScanRespectsConfigExcludes(t *testing.T) {
	root, cfg := newTestProject(t)
	cfg.Scan.ExcludeDirs = []string{"config"}

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	files, err := a.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, f := range files {
		if strings.HasPrefix(f.Path, "config/") {
			t.Errorf("config/ should be excluded, found %s", f.Path)
		}
	}
}

func TestSelectionIsDeterministicForFixedClock(t *testing.T) {
	root, cfg := newTestProject(t)

	a, err := New(root, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	fixed := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	first, err := a.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Selection.Selected) != len(second.Selection.Selected) {
		t.Fatal("selection size differs between identical runs")
	}
	for i := range first.Selection.Selected {
		if first.Selection.Selected[i].Path != second.Selection.Selected[i].Path {
			t.Errorf("selection order differs at %d", i)
		}
	}
}
