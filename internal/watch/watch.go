// Package watch triggers rebuilds while the operator edits content: a
// filesystem watcher with debouncing, optionally combined with a periodic
// schedule for sites whose content arrives from a remote source. Rebuilds run
// serially; triggers arriving mid-build coalesce into one follow-up run.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// BuildFunc runs one generation pass. Errors are logged and the watcher keeps
// going; a broken edit should not stop the feedback loop.
type BuildFunc func(ctx context.Context) error

// Watcher rebuilds on content changes.
type Watcher struct {
	path     string
	debounce time.Duration
	interval time.Duration
	build    BuildFunc
	logger   *slog.Logger

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler
	trigger   chan struct{}
}

// New creates a watcher over path. A zero interval disables the periodic
// schedule; debounce must be positive.
func New(path string, debounce, interval time.Duration, build BuildFunc, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		return nil, fmt.Errorf("watch debounce must be positive, got %v", debounce)
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		path:     path,
		debounce: debounce,
		interval: interval,
		build:    build,
		logger:   logger,
		watcher:  fsw,
		trigger:  make(chan struct{}, 1),
	}

	if interval > 0 {
		sched, err := gocron.NewScheduler()
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := sched.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(w.fire),
			gocron.WithName("periodic-rebuild"),
		); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("schedule periodic rebuild: %w", err)
		}
		w.scheduler = sched
	}

	return w, nil
}

// Run builds once, then blocks rebuilding on every trigger until ctx is
// canceled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.addRecursive(w.path); err != nil {
		return err
	}
	if w.scheduler != nil {
		w.scheduler.Start()
		defer func() {
			_ = w.scheduler.Shutdown()
		}()
	}
	defer func() {
		_ = w.watcher.Close()
	}()

	go w.eventLoop(ctx)

	w.logger.Info("watching for changes", logfields.Path(w.path))
	w.runBuild(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil
		case <-w.trigger:
			w.runBuild(ctx)
		}
	}
}

// eventLoop debounces raw filesystem events into triggers.
func (w *Watcher) eventLoop(ctx context.Context) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("content change detected", logfields.Path(event.Name))
			if event.Op.Has(fsnotify.Create) {
				// New subdirectories must be watched too.
				_ = w.addRecursive(event.Name)
			}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, w.fire)
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logfields.Error(err))
		}
	}
}

// fire coalesces triggers so at most one rebuild is pending.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *Watcher) runBuild(ctx context.Context) {
	started := time.Now()
	if err := w.build(ctx); err != nil {
		w.logger.Error("rebuild failed", logfields.Error(err))
		return
	}
	w.logger.Info("rebuild complete",
		logfields.DurationMS(float64(time.Since(started))/float64(time.Millisecond)))
}

// addRecursive watches path and every directory below it. Files are covered
// by watching their parent directory.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if addErr := w.watcher.Add(p); addErr != nil {
			return fmt.Errorf("watch %s: %w", p, addErr)
		}
		return nil
	})
}

// relevant filters events down to content edits.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".")
}
