// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/descriptor"
	"github.com/gogpu/progsel/internal/parallel"
)

// table is one generation of loaded entries. It is never mutated after it
// is installed, except by release.
type table struct {
	units    map[string]*ShaderUnit
	programs []*Program
	index    map[string]int
	errs     []error
	live     bool
}

func newTable() *table {
	return &table{
		units: make(map[string]*ShaderUnit),
		index: make(map[string]int),
		live:  true,
	}
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSchema declares attribute kinds so conditions are type checked
// against attributes as well as literals.
func WithSchema(s condition.Schema) Option {
	return func(c *Catalog) { c.schema = s }
}

// WithProgramFilter restricts which descriptor files are loaded. The glob
// is matched against the file base name; files must still end in .prog.
func WithProgramFilter(g glob.Glob) Option {
	return func(c *Catalog) { c.programFilter = g }
}

// WithParseWorkers parses descriptor files on n goroutines. Values below
// two parse on the calling goroutine.
func WithParseWorkers(n int) Option {
	return func(c *Catalog) { c.parseWorkers = n }
}

// WithShaderFilter restricts which shader files are loaded eagerly. Units
// named by a descriptor are still loaded on demand.
func WithShaderFilter(g glob.Glob) Option {
	return func(c *Catalog) { c.shaderFilter = g }
}

// Catalog holds the loaded programs of one device.
//
// Catalog is not safe for concurrent use; like the device it must be used
// from the goroutine that owns the GPU context.
type Catalog struct {
	device        backend.Device
	schema        condition.Schema
	programFilter glob.Glob
	shaderFilter  glob.Glob
	parseWorkers  int

	cur *table
	gen uint64

	// last load, for Reload
	fsys        fs.FS
	shaderDir   string
	programDirs []string
}

// New creates an empty catalog compiling through device.
func New(device backend.Device, opts ...Option) *Catalog {
	c := &Catalog{device: device}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAll releases the current entries, then loads every shader unit in
// shaderDir and every descriptor in programDir of fsys. Both directories
// may be the same.
func (c *Catalog) LoadAll(fsys fs.FS, shaderDir, programDir string) error {
	return c.LoadDirs(fsys, shaderDir, programDir)
}

// LoadDirs is LoadAll over several descriptor directories. Directories are
// read in order and files in name order; that order is the selection
// priority. A descriptor whose name was already loaded replaces the
// earlier entry at the earlier position.
//
// The returned error reports unreadable directories only; per-file
// failures are available from Errors.
func (c *Catalog) LoadDirs(fsys fs.FS, shaderDir string, programDirs ...string) error {
	c.ReleaseAll()
	c.fsys, c.shaderDir, c.programDirs = fsys, shaderDir, slices.Clone(programDirs)

	if !c.device.SupportsShaders() {
		return backend.ErrShadersUnsupported
	}

	t := newTable()
	var dirErrs []error
	if err := c.loadUnits(t, fsys, shaderDir); err != nil {
		dirErrs = append(dirErrs, err)
	}
	for _, dir := range programDirs {
		if err := c.loadPrograms(t, fsys, shaderDir, dir); err != nil {
			dirErrs = append(dirErrs, err)
		}
	}

	c.cur = t
	c.gen++

	valid := 0
	for _, p := range t.programs {
		if p.Valid() {
			valid++
		}
	}
	slogger().Info("catalog: loaded",
		"programs", len(t.programs), "valid", valid,
		"units", len(t.units), "errors", len(t.errs),
		"generation", c.gen)
	return errors.Join(dirErrs...)
}

// Reload repeats the last load against the same directories.
func (c *Catalog) Reload() error {
	if c.fsys == nil {
		return ErrNotLoaded
	}
	return c.LoadDirs(c.fsys, c.shaderDir, c.programDirs...)
}

// ReleaseAll destroys every program and shader handle and empties the
// catalog. Entries obtained earlier report invalid afterwards. It is safe
// to call repeatedly and must be called before the device is closed.
func (c *Catalog) ReleaseAll() {
	t := c.cur
	if t == nil {
		return
	}
	for _, p := range t.programs {
		if p.handle != 0 {
			c.device.DestroyProgram(p.handle)
			p.handle = 0
		}
	}
	for _, u := range t.units {
		if u.handle != 0 {
			c.device.DestroyShader(u.handle)
			u.handle = 0
		}
	}
	t.live = false
	c.cur = nil
	c.gen++
	slogger().Debug("catalog: released", "generation", c.gen)
}

// FindByName returns the entry called name, valid or not.
func (c *Catalog) FindByName(name string) (*Program, bool) {
	if c.cur == nil {
		return nil, false
	}
	i, ok := c.cur.index[name]
	if !ok {
		return nil, false
	}
	return c.cur.programs[i], true
}

// ValidEntries yields the valid programs in load order. The table is read
// when iteration starts, so ranging again after a reload sees the new
// entries.
func (c *Catalog) ValidEntries() iter.Seq[*Program] {
	return func(yield func(*Program) bool) {
		t := c.cur
		if t == nil {
			return
		}
		for _, p := range t.programs {
			if p.Valid() && !yield(p) {
				return
			}
		}
	}
}

// Entries returns every program in load order, including invalid ones.
func (c *Catalog) Entries() []*Program {
	if c.cur == nil {
		return nil
	}
	return slices.Clone(c.cur.programs)
}

// Units returns every shader unit sorted by name.
func (c *Catalog) Units() []*ShaderUnit {
	if c.cur == nil {
		return nil
	}
	units := make([]*ShaderUnit, 0, len(c.cur.units))
	for _, u := range c.cur.units {
		units = append(units, u)
	}
	slices.SortFunc(units, func(a, b *ShaderUnit) int { return strings.Compare(a.Name, b.Name) })
	return units
}

// Errors returns the per-file failures of the current load.
func (c *Catalog) Errors() []error {
	if c.cur == nil {
		return nil
	}
	return slices.Clone(c.cur.errs)
}

// Generation changes whenever the set of entries changes.
func (c *Catalog) Generation() uint64 { return c.gen }

// HasValid reports whether at least one program is usable.
func (c *Catalog) HasValid() bool {
	for range c.ValidEntries() {
		return true
	}
	return false
}

// loadUnits compiles every shader file directly inside dir.
func (c *Catalog) loadUnits(t *table, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("catalog: read shader dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := StageOf(e.Name()); !ok {
			continue
		}
		if c.shaderFilter != nil && !c.shaderFilter.Match(e.Name()) {
			continue
		}
		c.loadUnit(t, fsys, dir, e.Name())
	}
	return nil
}

// loadUnit reads and compiles one unit. name is relative to dir. It
// returns nil if the file does not exist.
func (c *Catalog) loadUnit(t *table, fsys fs.FS, dir, name string) *ShaderUnit {
	if u, ok := t.units[name]; ok {
		return u
	}
	src, err := fs.ReadFile(fsys, path.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	u := &ShaderUnit{Name: name, table: t}
	t.units[name] = u
	if err != nil {
		u.Err = fmt.Errorf("catalog: read %s: %w", name, err)
		t.errs = append(t.errs, u.Err)
		return u
	}
	u.Source = string(src)

	stage, ok := StageOf(name)
	if !ok {
		u.Err = fmt.Errorf("%w: %s", ErrUnknownStage, name)
		t.errs = append(t.errs, u.Err)
		return u
	}
	u.Stage = stage

	id, err := c.device.CompileShader(name, stage, u.Source)
	if err != nil {
		u.Log = err.Error()
		u.Err = &CompileError{Unit: name, Stage: stage, Log: u.Log}
		t.errs = append(t.errs, u.Err)
		slogger().Warn("catalog: shader failed to compile", "unit", name, "stage", stage, "log", u.Log)
		return u
	}
	u.handle = id
	slogger().Debug("catalog: shader compiled", "unit", name, "stage", stage)
	return u
}

// parsed is one descriptor file after the CPU-only parse phase.
type parsed struct {
	file string
	desc *descriptor.Descriptor
	err  error
}

// loadPrograms loads every descriptor in dir in name order. Files are
// parsed on the worker pool when one is configured; compiling and linking
// always happen on the calling goroutine, in order.
func (c *Catalog) loadPrograms(t *table, fsys fs.FS, shaderDir, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("catalog: read program dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), descriptor.Ext) {
			continue
		}
		if c.programFilter != nil && !c.programFilter.Match(e.Name()) {
			continue
		}
		files = append(files, path.Join(dir, e.Name()))
	}

	parse := func(file string) parsed {
		d, err := descriptor.ParseFS(fsys, file, c.schema)
		return parsed{file: file, desc: d, err: err}
	}
	var results []parsed
	if c.parseWorkers > 1 && len(files) > 1 {
		pool := parallel.NewPool(c.parseWorkers)
		results = parallel.Map(pool, files, parse)
		pool.Close()
	} else {
		results = make([]parsed, len(files))
		for i, f := range files {
			results[i] = parse(f)
		}
	}

	for _, r := range results {
		t.add(c.device, c.loadProgram(t, fsys, shaderDir, r))
	}
	return nil
}

// loadProgram resolves and links one parsed descriptor. Failures leave
// p.Err set and no device handle.
func (c *Catalog) loadProgram(t *table, fsys fs.FS, shaderDir string, r parsed) *Program {
	file := r.file
	p := &Program{Name: descriptor.NameOf(file), File: file, table: t}
	fail := func(err error) *Program {
		p.Err = err
		p.report = &ProgramError{Program: p.Name, Err: err}
		t.errs = append(t.errs, p.report)
		slogger().Warn("catalog: program skipped", "program", p.Name, "file", file, "error", err)
		return p
	}

	if r.err != nil {
		return fail(r.err)
	}
	d := r.desc
	p.Conditions, p.Stages, p.TexCoords = d.Conditions, d.Stages, d.TexCoords

	ids := make([]backend.ShaderID, 0, len(d.Stages))
	for _, name := range d.Stages {
		u := c.loadUnit(t, fsys, shaderDir, name)
		if u == nil {
			return fail(fmt.Errorf("%w: %s", ErrStageNotFound, name))
		}
		p.units = append(p.units, u)
		if u.Err != nil {
			return fail(fmt.Errorf("stage %s: %w", name, u.Err))
		}
		ids = append(ids, u.handle)
	}

	id, err := c.device.LinkProgram(p.Name, ids)
	if err != nil {
		return fail(&LinkError{Program: p.Name, Log: err.Error()})
	}
	p.handle = id
	slogger().Debug("catalog: program linked", "program", p.Name, "stages", p.Stages)
	return p
}

// add appends p, or replaces an entry of the same name in place. A
// replaced entry takes its load error with it.
func (t *table) add(device backend.Device, p *Program) {
	if i, ok := t.index[p.Name]; ok {
		old := t.programs[i]
		if old.handle != 0 {
			device.DestroyProgram(old.handle)
			old.handle = 0
		}
		if old.report != nil {
			t.errs = slices.DeleteFunc(t.errs, func(err error) bool {
				pe, ok := err.(*ProgramError)
				return ok && pe == old.report
			})
		}
		t.programs[i] = p
		slogger().Info("catalog: program replaced", "program", p.Name, "old", old.File, "new", p.File)
		return
	}
	t.index[p.Name] = len(t.programs)
	t.programs = append(t.programs, p)
}
