// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package progsel

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/gobwas/glob"

	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/catalog"
	"github.com/gogpu/progsel/config"
	"github.com/gogpu/progsel/selector"
	"github.com/gogpu/progsel/watch"
)

// ErrClosed is returned by Renderer methods after Close.
var ErrClosed = errors.New("progsel: renderer closed")

// Watcher reports that the catalog directories changed. *watch.Watcher
// implements it.
type Watcher interface {
	TakeDirty() bool
	Close() error
}

// Renderer selects and binds a shader program per shape.
//
// Renderer is not safe for concurrent use. All methods must be called on
// the goroutine that owns the GPU context; only the file watcher runs
// elsewhere, and it merely flags a reload that BeginFrame performs.
type Renderer struct {
	device   backend.Device
	settings config.Settings
	opts     options

	catalog  *catalog.Catalog
	selector *selector.Selector
	watcher  Watcher

	ownsWatcher bool
	initialized bool
	closed      bool
	active      string
	frames      uint64
}

// New creates a renderer drawing through device, which must already be
// initialized. Nothing is loaded until Initialize.
func New(device backend.Device, settings config.Settings, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{device: device, settings: settings, opts: o}
	r.reset()
	trackRenderer(r)
	return r
}

// reset builds an empty catalog and selector from the current settings.
func (r *Renderer) reset() {
	var copts []catalog.Option
	if r.opts.schema != nil {
		copts = append(copts, catalog.WithSchema(r.opts.schema))
	}
	if g, err := r.settings.ProgramFilter(); err == nil && g != nil {
		copts = append(copts, catalog.WithProgramFilter(g))
	}
	if g, err := r.settings.ShaderFilter(); err == nil && g != nil {
		copts = append(copts, catalog.WithShaderFilter(g))
	}
	if r.settings.ParseWorkers > 1 {
		copts = append(copts, catalog.WithParseWorkers(r.settings.ParseWorkers))
	}
	r.catalog = catalog.New(r.device, copts...)
	r.selector = selector.New(r.catalog, selector.WithCache(r.settings.SelectionCache))
}

// Initialize loads the catalog and reports whether any program is usable.
// It returns false when shaders are disabled or unsupported, in which case
// the host renders through its fallback path. Calling it again reloads.
func (r *Renderer) Initialize() bool {
	if r.closed {
		return false
	}
	if !r.initialized && r.opts.schema == nil {
		slogger().Info("progsel: no attribute schema, literals typed by spelling",
			"hint", "use WithSchema so float and string attributes reject bitwise operators")
	}
	r.initialized = true
	if !r.HasShaderSupport() {
		slogger().Info("progsel: shaders disabled",
			"use_shaders", r.settings.UseShaders, "device", r.device.Name())
		return false
	}
	if err := r.load(); err != nil {
		slogger().Warn("progsel: load failed", "err", err)
	}
	r.startWatcher()
	return r.catalog.HasValid()
}

func (r *Renderer) load() error {
	r.StopProgram()
	fsys, shaderDir, programDirs, err := r.dirs()
	if err != nil {
		return err
	}
	err = r.catalog.LoadDirs(fsys, shaderDir, programDirs...)
	for _, e := range r.catalog.Errors() {
		slogger().Warn("progsel: skipped", "err", e)
	}
	return err
}

func (r *Renderer) dirs() (fs.FS, string, []string, error) {
	if r.opts.fsys != nil {
		return r.opts.fsys, r.settings.ShaderDir, r.settings.Programs(), nil
	}
	return r.settings.Root()
}

func (r *Renderer) startWatcher() {
	if r.watcher != nil || !r.settings.Watch {
		return
	}
	if r.opts.watcher != nil {
		r.watcher = r.opts.watcher
		r.ownsWatcher = false
		return
	}
	if r.opts.fsys != nil {
		return
	}
	var wopts []watch.Option
	pg, _ := r.settings.ProgramFilter()
	sg, _ := r.settings.ShaderFilter()
	if pg != nil && sg != nil {
		// Only filter when both patterns are set, so that shader edits
		// still trigger a reload.
		wopts = append(wopts, watch.WithFilter(anyGlob{pg, sg}))
	}
	w, err := watch.New(r.settings.Dirs(), wopts...)
	if err != nil {
		slogger().Warn("progsel: watch disabled", "err", err)
		return
	}
	r.watcher = w
	r.ownsWatcher = true
}

// anyGlob matches when any of its patterns does.
type anyGlob []glob.Glob

func (a anyGlob) Match(name string) bool {
	for _, g := range a {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// HasShaderSupport reports whether shaders are enabled and the device can
// compile them.
func (r *Renderer) HasShaderSupport() bool {
	return !r.closed && r.settings.UseShaders && r.device.SupportsShaders()
}

// BeginFrame marks the start of a frame. A reload flagged by the file
// watcher happens here, before any shape of the frame is set up.
func (r *Renderer) BeginFrame() {
	r.frames++
	if r.watcher == nil || !r.watcher.TakeDirty() {
		return
	}
	slogger().Info("progsel: files changed, reloading", "frame", r.frames)
	if err := r.UpdateShaders(); err != nil {
		slogger().Warn("progsel: reload failed", "err", err)
	}
}

// SetupProgram selects the program for shape, binds it and its texture
// coordinate streams, and returns its name. A non-empty hint naming a
// valid program is used without evaluating conditions.
//
// When nothing matches, or binding fails, any bound program is stopped
// and SetupProgram returns false; the host then draws shape through its
// fallback path.
func (r *Renderer) SetupProgram(shape Shape, hint string) (string, bool) {
	if !r.initialized || !r.HasShaderSupport() {
		return "", false
	}
	env := shape.Env()
	p, ok := r.selector.Select(env, hint)
	if !ok {
		slogger().Debug("progsel: no program", "nodes", env.Nodes, "hint", hint)
		r.StopProgram()
		return "", false
	}
	if err := r.bind(p, shape); err != nil {
		slogger().Warn("progsel: bind failed", "program", p.Name, "err", err)
		r.StopProgram()
		return "", false
	}
	r.active = p.Name
	slogger().Debug("progsel: program", "name", p.Name, "nodes", env.Nodes, "hint", hint)
	return p.Name, true
}

func (r *Renderer) bind(p *catalog.Program, shape Shape) error {
	if err := r.device.UseProgram(p.Handle()); err != nil {
		return err
	}
	src, ok := shape.(StreamSource)
	if !ok {
		return nil
	}
	for _, tc := range p.TexCoords {
		s, ok := src.Stream(tc.Channel, tc.Semantic)
		if !ok {
			return fmt.Errorf("progsel: shape has no %q stream for channel %d", tc.Semantic, tc.Channel)
		}
		if err := r.device.BindTexCoords(tc.Channel, tc.Semantic, s); err != nil {
			return err
		}
	}
	return nil
}

// StopProgram unbinds the active program. It is safe to call when no
// program is bound.
func (r *Renderer) StopProgram() {
	if r.closed {
		return
	}
	r.device.StopProgram()
	r.active = ""
}

// Active returns the name of the bound program, or "".
func (r *Renderer) Active() string { return r.active }

// UpdateShaders reloads every shader and descriptor. The old catalog is
// released in full before the new one is loaded, and the call returns only
// once loading has finished.
func (r *Renderer) UpdateShaders() error {
	if r.closed {
		return ErrClosed
	}
	if !r.HasShaderSupport() {
		r.ReleaseShaders()
		return nil
	}
	r.initialized = true
	r.selector.Reset()
	return r.load()
}

// ReleaseShaders stops the active program and frees every GPU handle.
// It must be called before the device is destroyed.
func (r *Renderer) ReleaseShaders() {
	if r.closed {
		return
	}
	r.StopProgram()
	r.catalog.ReleaseAll()
	r.selector.Reset()
}

// Settings returns the current settings.
func (r *Renderer) Settings() config.Settings { return r.settings }

// UpdateSettings applies new settings. Changes to the directories,
// patterns, cache size or the shader toggle release the catalog and, if
// the renderer was initialized, load it again.
func (r *Renderer) UpdateSettings(s config.Settings) error {
	if r.closed {
		return ErrClosed
	}
	if err := s.Validate(); err != nil {
		return err
	}
	old := r.settings
	r.settings = s
	if !needsReload(old, s) {
		return nil
	}

	r.ReleaseShaders()
	if r.watcher != nil && (old.Watch != s.Watch || !slices.Equal(old.Dirs(), s.Dirs())) {
		if r.ownsWatcher {
			if err := r.watcher.Close(); err != nil {
				slogger().Warn("progsel: watch close failed", "err", err)
			}
		}
		r.watcher = nil
	}
	r.reset()
	if r.initialized {
		r.Initialize()
	}
	return nil
}

func needsReload(a, b config.Settings) bool {
	return a.UseShaders != b.UseShaders ||
		a.ShaderDir != b.ShaderDir ||
		!slices.Equal(a.Programs(), b.Programs()) ||
		a.ProgramPattern != b.ProgramPattern ||
		a.ShaderPattern != b.ShaderPattern ||
		a.SelectionCache != b.SelectionCache ||
		a.ParseWorkers != b.ParseWorkers ||
		a.Watch != b.Watch
}

// Catalog returns the loaded catalog for inspection.
func (r *Renderer) Catalog() *catalog.Catalog { return r.catalog }

// Frames returns the number of BeginFrame calls.
func (r *Renderer) Frames() uint64 { return r.frames }

// Close releases all shaders and stops the watcher. The device itself is
// owned by the caller. Close is idempotent.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.ReleaseShaders()
	r.closed = true
	r.initialized = false
	untrackRenderer(r)
	if r.watcher != nil {
		err := r.watcher.Close()
		r.watcher = nil
		return err
	}
	return nil
}
