// Package watcher turns filesystem change notifications into debounced
// full-rescan triggers.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"djlens/internal/inventory"
	"djlens/internal/logging"
)

// ChangeHandler is invoked for each change that survives filtering and the
// cooldown gate. The handler runs the full scan pipeline as an opaque unit.
type ChangeHandler func(path string, isDir bool)

// Config contains watcher configuration.
type Config struct {
	// Cooldown is the minimum interval between two triggered handlers.
	// Events arriving inside the window are dropped, not deferred.
	Cooldown time.Duration
	// Extensions restricts triggering to relevant file types.
	Extensions []string
}

// DefaultConfig returns the default watcher configuration.
func DefaultConfig() Config {
	return Config{
		Cooldown:   5 * time.Second,
		Extensions: []string{".py", ".html", ".js", ".css"},
	}
}

// Watcher watches a project tree recursively and gates triggers through a
// cooldown window.
type Watcher struct {
	root    string
	config  Config
	rules   inventory.MatchRules
	handler ChangeHandler
	logger  *logging.Logger

	fsw     *fsnotify.Watcher
	mu      sync.Mutex
	lastRun time.Time
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher over root. rules supply the directory exclusion
// set so pruned subtrees are never registered.
func New(root string, config Config, rules inventory.MatchRules, handler ChangeHandler, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:    root,
		config:  config,
		rules:   rules,
		handler: handler,
		logger:  logger,
		fsw:     fsw,
		done:    make(chan struct{}),
	}, nil
}

// Start registers the project tree and begins dispatching events. It is
// non-blocking; the event loop runs in a goroutine until Stop or ctx end.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.logger.Info("Watching project tree", map[string]interface{}{
		"root":     w.root,
		"cooldown": w.config.Cooldown.String(),
	})

	w.wg.Add(1)
	go w.run(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// addRecursive registers every non-excluded directory under dir.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.rules.IsExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(p); addErr != nil {
			w.logger.Warn("Could not watch directory", map[string]interface{}{
				"path":  p,
				"error": addErr.Error(),
			})
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", map[string]interface{}{
				"error": err.Error(),
			})
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories join the watch set; directory events never trigger
	// a rescan themselves.
	if event.Op.Has(fsnotify.Create) {
		if isDir(event.Name) && !w.rules.IsExcludedDir(filepath.Base(event.Name)) {
			_ = w.addRecursive(event.Name)
			return
		}
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}

	if !w.relevantExtension(event.Name) {
		return
	}

	if !w.passCooldown() {
		w.logger.Debug("Change dropped inside cooldown window", map[string]interface{}{
			"path": event.Name,
		})
		return
	}

	w.logger.Info("Change detected", map[string]interface{}{
		"path": event.Name,
	})

	if w.handler != nil {
		w.handler(event.Name, false)
	}
}

// passCooldown admits at most one trigger per cooldown window.
func (w *Watcher) passCooldown() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.Sub(w.lastRun) < w.config.Cooldown {
		return false
	}
	w.lastRun = now
	return true
}

func (w *Watcher) relevantExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.config.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
