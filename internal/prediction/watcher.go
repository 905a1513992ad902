package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/cortexmemory/cortex/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches rapid saves (editors often write a file two or
// three times in quick succession) into a single invalidation.
const DefaultDebounce = 500 * time.Millisecond

// Watcher invalidates an Engine's prediction cache as the files an agent
// is working on change on disk, so a stale prediction never survives past
// the edit that invalidated it.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	engine      *Engine
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a Watcher that calls engine.OnFileChanged for every
// settled write under any directory later added via Add.
func NewWatcher(engine *Engine) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		engine:      engine,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Add registers dir for watching. Call before or after Start.
func (w *Watcher) Add(dir string) error {
	return w.watcher.Add(dir)
}

// Start begins watching in a goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		logging.PredictionError("watcher close failed: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.PredictionWarn("watcher error: %v", err)
		case <-debounceTicker.C:
			w.flushDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushDebounced() {
	now := time.Now()
	w.mu.Lock()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		logging.PredictionDebug("file changed, invalidating prediction cache: %s", path)
		w.engine.OnFileChanged(path)
	}
}
