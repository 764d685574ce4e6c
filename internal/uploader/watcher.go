// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploader validates documents for upload and watches a drop
// folder for automatic ingestion.
package uploader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// UploadFunc performs the actual upload of a validated file.
type UploadFunc func(ctx context.Context, path string) error

// NotifyFunc receives watcher outcomes for display. err is nil on
// success.
type NotifyFunc func(path string, err error)

// debounceDelay is how long a file must be quiet before upload.
// Copies and editor saves fire several Write events per file.
const debounceDelay = 500 * time.Millisecond

// =============================================================================
// DROP FOLDER WATCHER
// =============================================================================

// Watcher uploads supported files dropped into a folder.
type Watcher struct {
	dir      string
	upload   UploadFunc
	notify   NotifyFunc
	limiter  *rate.Limiter
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	fsw     *fsnotify.Watcher
}

// NewWatcher creates a watcher for dir. maxPerMinute rate-limits
// uploads; notify may be nil.
func NewWatcher(dir string, maxPerMinute int, upload UploadFunc, notify NotifyFunc) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}
	if maxPerMinute < 1 {
		maxPerMinute = 1
	}
	if notify == nil {
		notify = func(string, error) {}
	}

	return &Watcher{
		dir:      dir,
		upload:   upload,
		notify:   notify,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), maxPerMinute),
		debounce: debounceDelay,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Run watches the folder until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !SupportedFile(ev.Name) {
				continue
			}
			w.schedule(ctx, ev.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.notify("", err)
		}
	}
}

// schedule (re)arms the debounce timer for a path. Each new event on
// the same file pushes the upload back until writes stop.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(ctx, path)
	})
}

// process validates, rate-limits and uploads one quiet file.
func (w *Watcher) process(ctx context.Context, path string) {
	if err := Validate(path); err != nil {
		w.notify(path, err)
		return
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	w.notify(path, w.upload(ctx, path))
}

// cancelPending stops all armed debounce timers.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}
