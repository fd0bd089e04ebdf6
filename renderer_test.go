// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package progsel

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/progsel/backend"
	"github.com/gogpu/progsel/catalog"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/config"
	"github.com/gogpu/progsel/internal/fakedev"
	"github.com/gogpu/progsel/model"
	"github.com/gogpu/progsel/model/memview"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

// testFS loads glow, skin and plain in that order.
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/sk.vert":   file("void main() {}"),
		"shaders/sk.frag":   file("void main() {}"),
		"shaders/glow.frag": file("void main() {}"),

		"shaders/glow.prog": file(`shaders sk.vert glow.frag
checkgroup begin or
  check Name == "Eye_L"
  check Name == "Eye_R"
checkgroup end
`),
		"shaders/skin.prog": file("shaders sk.vert sk.frag\ntexcoords 0 base\ntexcoords 1 tangents\ncheck ShaderFlags1 & 0x1\n"),
		"shaders/zplain.prog": file("shaders sk.vert sk.frag\ncheck Plain\n"),
	}
}

func testSettings() config.Settings {
	s := config.Default()
	s.ShaderDir = "shaders"
	return s
}

type fakeWatcher struct {
	dirty  bool
	closed bool
	err    error
}

func (w *fakeWatcher) TakeDirty() bool {
	d := w.dirty
	w.dirty = false
	return d
}

func (w *fakeWatcher) Close() error {
	w.closed = true
	return w.err
}

// envShape has no vertex data.
type envShape condition.Env

func (s envShape) Env() condition.Env { return condition.Env(s) }

func newRenderer(t *testing.T, fsys fstest.MapFS, opts ...Option) (*Renderer, *fakedev.Device) {
	t.Helper()
	dev := fakedev.New()
	r := New(dev, testSettings(), append([]Option{WithFS(fsys)}, opts...)...)
	t.Cleanup(func() { r.Close() })
	require.True(t, r.Initialize())
	return r, dev
}

func mesh(g *memview.Graph, attrs map[string]model.Value) *Mesh {
	return NewMesh(g, g.Add("", "NiTriShape", attrs))
}

func TestInitialize(t *testing.T) {
	r, _ := newRenderer(t, testFS())
	assert.True(t, r.HasShaderSupport())

	var names []string
	for p := range r.Catalog().ValidEntries() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"glow", "skin", "zplain"}, names)
}

func TestInitializeNothingValid(t *testing.T) {
	dev := fakedev.New()
	dev.FailCompile["sk.vert"] = "error"
	r := New(dev, testSettings(), WithFS(testFS()))
	defer r.Close()

	assert.False(t, r.Initialize())
	assert.True(t, r.HasShaderSupport())
	assert.NotEmpty(t, r.Catalog().Errors())
}

func TestShadersDisabled(t *testing.T) {
	dev := fakedev.New()
	s := testSettings()
	s.UseShaders = false
	r := New(dev, s, WithFS(testFS()))
	defer r.Close()

	assert.False(t, r.HasShaderSupport())
	assert.False(t, r.Initialize())
	assert.Empty(t, dev.Calls)

	g := memview.New()
	_, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Plain": model.Int(1)}), "")
	assert.False(t, ok)
}

func TestUnsupportedDevice(t *testing.T) {
	dev := fakedev.New()
	dev.NoShaders = true
	r := New(dev, testSettings(), WithFS(testFS()))
	defer r.Close()

	assert.False(t, r.HasShaderSupport())
	assert.False(t, r.Initialize())
}

func TestSetupProgramBindsTexCoords(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	g := memview.New()
	m := mesh(g, map[string]model.Value{"ShaderFlags1": model.Flags(0x1)}).
		SetStream("base", backend.Stream{Buffer: "uv0"}).
		SetStream("tangents", backend.Stream{Buffer: "tan", Offset: 16})

	name, ok := r.SetupProgram(m, "")
	require.True(t, ok)
	assert.Equal(t, "skin", name)
	assert.Equal(t, "skin", r.Active())
	assert.Equal(t, "skin", dev.Bound())
	assert.Equal(t, []fakedev.Binding{
		{Program: "skin", Channel: 0, Semantic: "base", Stream: backend.Stream{Buffer: "uv0"}},
		{Program: "skin", Channel: 1, Semantic: "tangents", Stream: backend.Stream{Buffer: "tan", Offset: 16}},
	}, dev.Bindings)
}

func TestSetupProgramGlowScenario(t *testing.T) {
	r, _ := newRenderer(t, testFS())
	g := memview.New()

	name, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Name": model.String("Eye_L")}), "")
	require.True(t, ok)
	assert.Equal(t, "glow", name)

	_, ok = r.SetupProgram(mesh(g, map[string]model.Value{"Name": model.String("Torso")}), "")
	assert.False(t, ok)
}

func TestSetupProgramNoMatchUnbinds(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	g := memview.New()

	_, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Plain": model.Int(1)}), "")
	require.True(t, ok)
	assert.Equal(t, "zplain", dev.Bound())

	dev.Reset()
	name, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Name": model.String("Torso")}), "")
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Empty(t, dev.Bound())
	assert.Empty(t, r.Active())
	assert.Equal(t, []string{"stop"}, dev.Calls)
}

func TestSetupProgramHint(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	shape := envShape{View: memview.New()}

	// Glow's conditions are false for an empty node set.
	name, ok := r.SetupProgram(shape, "glow")
	require.True(t, ok)
	assert.Equal(t, "glow", name)
	assert.Equal(t, "glow", dev.Bound())

	_, ok = r.SetupProgram(shape, "missing")
	assert.False(t, ok)
}

func TestSetupProgramWithoutStreams(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	g := memview.New()
	n := g.Add("", "NiTriShape", map[string]model.Value{"ShaderFlags1": model.Flags(0x1)})

	name, ok := r.SetupProgram(envShape{View: g, Nodes: []model.Node{n}}, "")
	require.True(t, ok)
	assert.Equal(t, "skin", name)
	assert.Empty(t, dev.Bindings)
}

func TestSetupProgramMissingStream(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	g := memview.New()
	m := mesh(g, map[string]model.Value{"ShaderFlags1": model.Flags(0x1)}).
		SetStream("base", backend.Stream{Buffer: "uv0"})

	_, ok := r.SetupProgram(m, "")
	assert.False(t, ok)
	assert.Empty(t, dev.Bound())
	assert.Equal(t, "stop", dev.Calls[len(dev.Calls)-1])
}

func TestSetupProgramUseFails(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	dev.FailUse["zplain"] = true
	g := memview.New()

	_, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Plain": model.Int(1)}), "")
	assert.False(t, ok)
	assert.Empty(t, r.Active())
}

func TestStopProgramSafeWhenIdle(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	r.StopProgram()
	r.StopProgram()
	assert.Empty(t, dev.Bound())
}

func TestBeginFrameReloadsWhenDirty(t *testing.T) {
	fsys := testFS()
	w := &fakeWatcher{}
	dev := fakedev.New()
	s := testSettings()
	s.Watch = true
	r := New(dev, s, WithFS(fsys), WithWatcher(w))
	defer r.Close()
	require.True(t, r.Initialize())

	g := memview.New()
	eye := mesh(g, map[string]model.Value{"Name": model.String("Eye_R")})
	name, ok := r.SetupProgram(eye, "")
	require.True(t, ok)
	require.Equal(t, "glow", name)

	// Clean frames do not reload.
	dev.Reset()
	r.BeginFrame()
	assert.Empty(t, dev.Calls)

	// The glow fragment shader disappears from disk.
	delete(fsys, "shaders/glow.frag")
	w.dirty = true
	r.BeginFrame()
	assert.EqualValues(t, 2, r.Frames())

	for p := range r.Catalog().ValidEntries() {
		assert.NotEqual(t, "glow", p.Name)
	}
	p, ok := r.Catalog().FindByName("glow")
	require.True(t, ok)
	assert.ErrorIs(t, p.Err, catalog.ErrStageNotFound)

	_, ok = r.SetupProgram(eye, "")
	assert.False(t, ok)

	require.NoError(t, r.Close())
	assert.True(t, w.closed)
}

func TestUpdateShadersPicksUpNewFiles(t *testing.T) {
	fsys := testFS()
	r, _ := newRenderer(t, fsys)
	g := memview.New()
	m := mesh(g, map[string]model.Value{"Hair": model.Int(1)})

	_, ok := r.SetupProgram(m, "")
	require.False(t, ok)

	fsys["shaders/hair.prog"] = file("shaders sk.vert sk.frag\ncheck Hair\n")
	require.NoError(t, r.UpdateShaders())

	name, ok := r.SetupProgram(m, "")
	require.True(t, ok)
	assert.Equal(t, "hair", name)
}

func TestReleaseShaders(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	g := memview.New()
	_, ok := r.SetupProgram(mesh(g, map[string]model.Value{"Plain": model.Int(1)}), "")
	require.True(t, ok)

	r.ReleaseShaders()
	shaders, programs := dev.Live()
	assert.Zero(t, shaders)
	assert.Zero(t, programs)
	assert.Empty(t, dev.Bound())
	assert.False(t, r.Catalog().HasValid())

	r.ReleaseShaders()
}

func TestUpdateSettings(t *testing.T) {
	r, _ := newRenderer(t, testFS())

	s := r.Settings()
	s.ProgramPattern = "{glow,zplain}.prog"
	require.NoError(t, r.UpdateSettings(s))

	var names []string
	for p := range r.Catalog().ValidEntries() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"glow", "zplain"}, names)

	s.ShaderPattern = "[bad"
	assert.Error(t, r.UpdateSettings(s))
	assert.Equal(t, "{glow,zplain}.prog", r.Settings().ProgramPattern)
	assert.Empty(t, r.Settings().ShaderPattern)

	s = r.Settings()
	s.UseShaders = false
	require.NoError(t, r.UpdateSettings(s))
	assert.False(t, r.HasShaderSupport())
	assert.False(t, r.Catalog().HasValid())
}

func TestUpdateSettingsLogsWatcherCloseError(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	r, _ := newRenderer(t, testFS())
	w := &fakeWatcher{err: errors.New("busy")}
	r.watcher, r.ownsWatcher = w, true

	s := r.Settings()
	s.Watch = !s.Watch
	require.NoError(t, r.UpdateSettings(s))
	assert.True(t, w.closed)
	assert.Nil(t, r.watcher)
	assert.Contains(t, buf.String(), "watch close failed")
	assert.Contains(t, buf.String(), "busy")
}

func TestUpdateSettingsKeepsSuppliedWatcherOpen(t *testing.T) {
	w := &fakeWatcher{}
	s := testSettings()
	s.Watch = true
	r := New(fakedev.New(), s, WithFS(testFS()), WithWatcher(w))
	require.True(t, r.Initialize())

	s.Watch = false
	require.NoError(t, r.UpdateSettings(s))
	assert.False(t, w.closed)

	s.Watch = true
	require.NoError(t, r.UpdateSettings(s))
	require.NoError(t, r.Close())
	assert.True(t, w.closed)
}

func TestInitializeReportsMissingSchema(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	r, _ := newRenderer(t, testFS())
	require.True(t, r.Initialize())
	assert.Equal(t, 1, strings.Count(buf.String(), "no attribute schema"))

	buf.Reset()
	newRenderer(t, testFS(), WithSchema(condition.MapSchema{"Name": model.KindString}))
	assert.NotContains(t, buf.String(), "no attribute schema")
}

func TestSchemaRejectsBadDescriptor(t *testing.T) {
	fsys := testFS()
	fsys["shaders/bad.prog"] = file("shaders sk.vert sk.frag\ncheck Name < 3\n")
	r, _ := newRenderer(t, fsys, WithSchema(condition.MapSchema{"Name": model.KindString}))

	p, ok := r.Catalog().FindByName("bad")
	require.True(t, ok)
	assert.False(t, p.Valid())
}

func TestClose(t *testing.T) {
	r, dev := newRenderer(t, testFS())
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	shaders, programs := dev.Live()
	assert.Zero(t, shaders)
	assert.Zero(t, programs)
	assert.False(t, r.Initialize())
	assert.ErrorIs(t, r.UpdateShaders(), ErrClosed)
	_, ok := r.SetupProgram(envShape{View: memview.New()}, "glow")
	assert.False(t, ok)
}

func TestRendererOnDisk(t *testing.T) {
	dir := t.TempDir()
	for name, f := range testFS() {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(name)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o600))
	}
	s := testSettings()
	s.ShaderDir = filepath.Join(dir, "shaders")
	s.Watch = true

	r := New(fakedev.New(), s)
	defer r.Close()
	require.True(t, r.Initialize())
	require.NotNil(t, r.watcher)

	g := memview.New()
	m := mesh(g, map[string]model.Value{"Hair": model.Int(1)})
	_, ok := r.SetupProgram(m, "")
	require.False(t, ok)

	hair := filepath.Join(dir, "shaders", "hair.prog")
	require.NoError(t, os.WriteFile(hair, []byte("shaders sk.vert sk.frag\ncheck Hair\n"), 0o600))

	assert.Eventually(t, func() bool {
		r.BeginFrame()
		_, ok := r.SetupProgram(m, "")
		return ok
	}, 2*time.Second, 20*time.Millisecond)
}
