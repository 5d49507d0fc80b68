package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"djlens/internal/inventory"
	"djlens/internal/logging"
)

func TestRelevantExtension(t *testing.T) {
	w := &Watcher{config: DefaultConfig()}

	tests := []struct {
		path string
		want bool
	}{
		{"shop/models.py", true},
		{"shop/templates/detail.html", true},
		{"assets/app.js", true},
		{"assets/site.css", true},
		{"shop/models.PY", true}, // extension check is case-insensitive
		{"notes.txt", false},
		{"data.json", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := w.relevantExtension(tt.path); got != tt.want {
				t.Errorf("relevantExtension(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPassCooldown(t *testing.T) {
	w := &Watcher{config: Config{Cooldown: time.Hour}}

	if !w.passCooldown() {
		t.Fatal("first trigger must pass")
	}
	// Inside the window: dropped, not deferred.
	if w.passCooldown() {
		t.Error("second trigger inside the window must be dropped")
	}

	// Window elapsed.
	w.mu.Lock()
	w.lastRun = time.Now().Add(-2 * time.Hour)
	w.mu.Unlock()
	if !w.passCooldown() {
		t.Error("trigger after the window must pass")
	}
}

func TestWatcherTriggersOnRelevantWrite(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "shop"), 0755); err != nil {
		t.Fatal(err)
	}

	triggered := make(chan string, 8)
	cfg := Config{Cooldown: time.Millisecond, Extensions: []string{".py"}}

	w, err := New(root, cfg, inventory.DefaultRules(), func(path string, isDir bool) {
		triggered <- path
	}, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, "shop", "models.py"), []byte("class Order: pass"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-triggered:
		if filepath.Base(path) != "models.py" {
			t.Errorf("triggered on %s", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no trigger for relevant write")
	}
}

func TestWatcherIgnoresIrrelevantExtension(t *testing.T) {
	root := t.TempDir()

	triggered := make(chan string, 8)
	cfg := Config{Cooldown: time.Millisecond, Extensions: []string{".py"}}

	w, err := New(root, cfg, inventory.DefaultRules(), func(path string, isDir bool) {
		triggered <- path
	}, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-triggered:
		t.Errorf("unexpected trigger for %s", path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherDropsInsideCooldown(t *testing.T) {
	root := t.TempDir()

	triggered := make(chan string, 8)
	cfg := Config{Cooldown: time.Hour, Extensions: []string{".py"}}

	w, err := New(root, cfg, inventory.DefaultRules(), func(path string, isDir bool) {
		triggered <- path
	}, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		name := filepath.Join(root, "models.py")
		if err := os.WriteFile(name, []byte("pass"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case <-triggered:
	case <-time.After(3 * time.Second):
		t.Fatal("expected one trigger")
	}

	// Everything after the first trigger lands inside the hour-long window.
	select {
	case path := <-triggered:
		t.Errorf("trigger inside cooldown window for %s", path)
	case <-time.After(500 * time.Millisecond):
	}
}
