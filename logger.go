// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package progsel

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/catalog"
	"github.com/gogpu/progsel/selector"
	"github.com/gogpu/progsel/watch"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// renderers holds the open renderers so SetLogger can reach their
// devices. Devices are reached through the renderer rather than used as
// keys themselves, since a device value need not be comparable.
var (
	renderersMu sync.Mutex
	renderers   = make(map[*Renderer]struct{})
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for progsel and all its sub-packages.
// By default, progsel produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by progsel:
//   - [slog.LevelDebug]: per-draw selection, skipped hints, file events
//   - [slog.LevelInfo]: catalog loads and reloads
//   - [slog.LevelWarn]: descriptors or shaders that failed to load, bind failures
//
// Example:
//
//	progsel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	catalog.SetLogger(l)
	selector.SetLogger(l)
	watch.SetLogger(l)

	renderersMu.Lock()
	defer renderersMu.Unlock()
	for r := range renderers {
		propagateLogger(r.device, l)
	}
}

// Logger returns the current logger used by progsel.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// slogger is the internal shorthand for Logger.
func slogger() *slog.Logger { return loggerPtr.Load() }

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a device if it implements the
// loggerSetter interface.
func propagateLogger(d backend.Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

func trackRenderer(r *Renderer) {
	renderersMu.Lock()
	renderers[r] = struct{}{}
	renderersMu.Unlock()
	propagateLogger(r.device, Logger())
}

func untrackRenderer(r *Renderer) {
	renderersMu.Lock()
	delete(renderers, r)
	renderersMu.Unlock()
}
