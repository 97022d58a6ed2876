// Package watch re-runs a callback whenever the source template changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce coalesces bursts of editor writes into one run
const DefaultDebounce = 500 * time.Millisecond

// Handler is invoked once per settled change
type Handler func(ctx context.Context) error

// Watcher watches a single file for changes
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	logger   *zap.Logger
}

// New creates a Watcher for path. A non-positive debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, handler Handler, logger *zap.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch handler is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		handler:  handler,
		logger:   logger,
	}, nil
}

// Run watches until ctx is cancelled. Handler errors are logged and do not
// stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	// Watch the directory: editors often replace the file by rename, which
	// drops a watch placed on the file itself.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.logger.Info("watching source", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	triggers := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.pump(gctx, fsw, triggers)
	})
	g.Go(func() error {
		return w.rebuild(gctx, triggers)
	})

	return g.Wait()
}

// pump forwards relevant fsnotify events as triggers
func (w *Watcher) pump(ctx context.Context, fsw *fsnotify.Watcher, triggers chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("source changed", zap.String("op", event.Op.String()))
			select {
			case triggers <- struct{}{}:
			default:
				// A trigger is already pending
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// rebuild runs the handler once the debounce window is quiet
func (w *Watcher) rebuild(ctx context.Context, triggers <-chan struct{}) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-triggers:
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.handler(ctx); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
