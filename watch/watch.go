// Package watch reruns an export whenever the source corpus changes.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/modelexport/errors"
	"github.com/teranos/modelexport/logger"
)

// RunFunc performs one regeneration
type RunFunc func(ctx context.Context) error

// Watcher debounces file system events below a root directory and calls a
// RunFunc at most once per minimum interval. Events and runs are handled on
// the goroutine that calls Run, so runs never overlap.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	ignore   map[string]bool
	log      *zap.SugaredLogger
}

// New creates a Watcher over every directory below root. Events for the
// paths in ignore (typically the generated file) never trigger a run.
func New(root string, debounce, minInterval time.Duration, ignore ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		root:     root,
		watcher:  fw,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		ignore:   make(map[string]bool, len(ignore)),
		log:      logger.ComponentLogger("watch"),
	}
	for _, path := range ignore {
		if abs, err := filepath.Abs(path); err == nil {
			w.ignore[abs] = true
		}
	}

	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and all directories below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// Run calls fn once, then again after every settled burst of changes,
// until ctx is done. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	defer w.watcher.Close()

	w.run(ctx, fn)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				// new directories need their own watch
				_ = w.addTree(event.Name)
			}
			w.log.Debugw("Change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case <-timer.C:
			pending = false
			if err := w.limiter.Wait(ctx); err != nil {
				return nil
			}
			w.run(ctx, fn)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) run(ctx context.Context, fn RunFunc) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		w.log.Errorw("Regeneration failed", logger.FieldError, err)
		return
	}
	w.log.Infow("Regenerated", logger.FieldDurationMS, time.Since(start).Milliseconds())
}

// relevant reports whether event should schedule a run
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && w.ignore[abs] {
		return false
	}
	return true
}

// Close stops watching without waiting for Run to return
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
