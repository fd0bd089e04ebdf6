// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package watch flags catalog directories as dirty when their files
// change.
//
// The watcher goroutine never touches GPU state. It only raises a flag
// that the rendering thread collects with TakeDirty and acts on between
// frames.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watch: watcher closed")

// relevant is the set of operations that can change the catalog.
const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher observes directories non-recursively.
type Watcher struct {
	fw     *fsnotify.Watcher
	filter glob.Glob

	dirty  atomic.Bool
	events atomic.Uint64

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	notify func(name string)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter ignores files whose base name does not match g.
func WithFilter(g glob.Glob) Option {
	return func(w *Watcher) { w.filter = g }
}

// WithNotify calls fn from the watcher goroutine for every relevant
// event, after the dirty flag is set. fn must not block.
func WithNotify(fn func(name string)) Option {
	return func(w *Watcher) { w.notify = fn }
}

// New starts a watcher over dirs.
func New(dirs []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{fw: fw, done: make(chan struct{})}
	for _, opt := range opts {
		opt(w)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	go w.loop()
	return w, nil
}

// Add watches another directory.
func (w *Watcher) Add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch: %s: %w", dir, err)
	}
	slogger().Debug("watch: added", "dir", dir)
	return nil
}

// Dirty reports whether a relevant change happened since the last
// TakeDirty.
func (w *Watcher) Dirty() bool { return w.dirty.Load() }

// TakeDirty reports and clears the dirty flag.
func (w *Watcher) TakeDirty() bool { return w.dirty.Swap(false) }

// Events returns the number of relevant events seen.
func (w *Watcher) Events() uint64 { return w.events.Load() }

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slogger().Warn("watch: error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&relevant == 0 {
		return
	}
	if w.filter != nil && !w.filter.Match(filepath.Base(ev.Name)) {
		return
	}
	w.events.Add(1)
	w.dirty.Store(true)
	slogger().Debug("watch: changed", "file", ev.Name, "op", ev.Op.String())
	if w.notify != nil {
		w.notify(ev.Name)
	}
}
