// Package watcher reports, debounced, when snapshot files in a directory are
// rewritten by another process.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the create, write and rename events of one atomic
// save into a single callback.
const debounceDelay = 100 * time.Millisecond

type Watcher struct {
	fsw      *fsnotify.Watcher
	names    map[string]struct{}
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New watches dir and invokes callback when one of the named files changes.
// With no names every file in dir counts.
func New(dir string, names []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[filepath.Base(n)] = struct{}{}
	}
	return &Watcher{
		fsw:      fsw,
		names:    set,
		delay:    debounceDelay,
		callback: callback,
	}, nil
}

// Run blocks until ctx is canceled. Errors from the underlying watcher go to
// the optional errFn.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(path string) bool {
	if len(w.names) == 0 {
		return true
	}
	_, ok := w.names[filepath.Base(path)]
	return ok
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
