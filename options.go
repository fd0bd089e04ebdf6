// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package progsel

import (
	"io/fs"

	"github.com/gogpu/progsel/condition"
)

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Directories from the settings, read from disk
//	r := progsel.New(dev, settings)
//
//	// Embedded shaders
//	r := progsel.New(dev, settings, progsel.WithFS(shadersFS))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	fsys    fs.FS
	schema  condition.Schema
	watcher Watcher
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		fsys:    nil, // Settings directories resolved on disk
		watcher: nil, // Created from Settings.Watch
	}
}

// WithFS reads shaders and descriptors from fsys instead of the disk.
// The settings directories are then fs.FS paths. Settings.Watch has no
// effect unless a watcher is supplied with WithWatcher.
//
// Example:
//
//	//go:embed shaders
//	var shadersFS embed.FS
//
//	r := progsel.New(dev, settings, progsel.WithFS(shadersFS))
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithSchema declares attribute kinds so that invalid comparisons in
// descriptors are rejected when they are loaded.
func WithSchema(s condition.Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithWatcher replaces the file watcher created for Settings.Watch. The
// renderer closes it on Close.
func WithWatcher(w Watcher) Option {
	return func(o *options) {
		o.watcher = w
	}
}
