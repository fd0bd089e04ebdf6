// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package selector

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/progsel/catalog"
	"github.com/gogpu/progsel/condition"
	"github.com/gogpu/progsel/internal/fakedev"
	"github.com/gogpu/progsel/model"
	"github.com/gogpu/progsel/model/memview"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

// Descriptors load in name order: glow, skin, default.
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/sk.vert":  file("void main() {}"),
		"shaders/sk.frag":  file("void main() {}"),
		"shaders/bad.frag": file("void main() {}"),

		"shaders/a_glow.prog":    file("shaders sk.vert sk.frag\ncheck Glow == 1\n"),
		"shaders/b_skin.prog":    file("shaders sk.vert sk.frag\ncheck ShaderFlags1 & 0x1\n"),
		"shaders/c_default.prog": file("shaders sk.vert sk.frag\ncheck Name != Hidden\n"),
		"shaders/d_broken.prog":  file("shaders sk.vert bad.frag\n"),
	}
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dev := fakedev.New()
	dev.FailCompile["bad.frag"] = "error"
	c := catalog.New(dev)
	require.NoError(t, c.LoadAll(testFS(), "shaders", "shaders"))
	return c
}

func shape(g *memview.Graph, attrs map[string]model.Value) condition.Env {
	n := g.Add("", "NiTriShape", attrs)
	return condition.Env{View: g, Nodes: []model.Node{n}}
}

func TestSelectFirstMatchInLoadOrder(t *testing.T) {
	c := loadCatalog(t)
	g := memview.New()

	// Matches both skin and default; skin loaded first.
	env := shape(g, map[string]model.Value{
		"ShaderFlags1": model.Flags(0x1),
		"Name":         model.String("Body"),
	})
	p, ok := Select(env, c, "")
	require.True(t, ok)
	assert.Equal(t, "b_skin", p.Name)

	env = shape(g, map[string]model.Value{
		"ShaderFlags1": model.Flags(0x0),
		"Name":         model.String("Body"),
	})
	p, ok = Select(env, c, "")
	require.True(t, ok)
	assert.Equal(t, "c_default", p.Name)
}

func TestSelectNoMatch(t *testing.T) {
	c := loadCatalog(t)
	env := shape(memview.New(), map[string]model.Value{"Name": model.String("Hidden")})
	p, ok := Select(env, c, "")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestSelectHint(t *testing.T) {
	c := loadCatalog(t)
	env := shape(memview.New(), map[string]model.Value{"Name": model.String("Body")})

	// The hint wins even though its conditions are false.
	p, ok := Select(env, c, "a_glow")
	require.True(t, ok)
	assert.Equal(t, "a_glow", p.Name)
	assert.False(t, p.Matches(env))

	for _, hint := range []string{"nope", "d_broken"} {
		p, ok = Select(env, c, hint)
		require.True(t, ok, hint)
		assert.Equal(t, "c_default", p.Name, hint)
	}
}

func TestSelectAfterRelease(t *testing.T) {
	c := loadCatalog(t)
	env := shape(memview.New(), map[string]model.Value{"Name": model.String("Body")})
	c.ReleaseAll()

	_, ok := Select(env, c, "")
	assert.False(t, ok)
	_, ok = Select(env, c, "c_default")
	assert.False(t, ok)
}

func TestTrace(t *testing.T) {
	c := loadCatalog(t)
	env := shape(memview.New(), map[string]model.Value{
		"ShaderFlags1": model.Flags(0x1),
		"Name":         model.String("Body"),
	})

	cands := Trace(env, c)
	require.Len(t, cands, 3)
	assert.Equal(t, "a_glow", cands[0].Program.Name)
	assert.False(t, cands[0].Matched)
	assert.True(t, cands[1].Matched)
	assert.True(t, cands[2].Matched)
	assert.NotEmpty(t, cands[0].Steps)
}

func TestSelectorMemo(t *testing.T) {
	c := loadCatalog(t)
	g := memview.New()
	env := shape(g, map[string]model.Value{
		"ShaderFlags1": model.Flags(0x1),
		"Name":         model.String("Body"),
	})
	s := New(c, WithCache(16))

	for range 3 {
		p, ok := s.Select(env, "")
		require.True(t, ok)
		assert.Equal(t, "b_skin", p.Name)
	}
	st := s.Stats()
	assert.Equal(t, 1, st.Len)
	assert.EqualValues(t, 2, st.Hits)
	assert.EqualValues(t, 1, st.Misses)

	// A mutation bumps the revision and must not hit the stale entry.
	g.Set(env.Nodes[0], "ShaderFlags1", model.Flags(0x0))
	p, ok := s.Select(env, "")
	require.True(t, ok)
	assert.Equal(t, "c_default", p.Name)

	// So does a reload.
	require.NoError(t, c.Reload())
	g.Set(env.Nodes[0], "Name", model.String("Hidden"))
	_, ok = s.Select(env, "")
	assert.False(t, ok)

	s.Reset()
	assert.Zero(t, s.Stats().Len)
}

func TestSelectorWithoutCache(t *testing.T) {
	c := loadCatalog(t)
	env := shape(memview.New(), map[string]model.Value{"Glow": model.Int(1)})
	s := New(c)

	p, ok := s.Select(env, "")
	require.True(t, ok)
	assert.Equal(t, "a_glow", p.Name)
	assert.Zero(t, s.Stats())

	p, ok = s.Select(env, "b_skin")
	require.True(t, ok)
	assert.Equal(t, "b_skin", p.Name)
}

// flagView is a versioned view passed by value whose state lives in a
// slice, which makes it unusable as a map key.
type flagView struct {
	flags []int64
}

func (v flagView) Has(_ model.Node, path string) bool { return path == "ShaderFlags1" }

func (v flagView) Get(_ model.Node, path string) (model.Value, bool) {
	if path != "ShaderFlags1" || len(v.flags) == 0 {
		return model.Value{}, false
	}
	return model.Flags(uint64(v.flags[0])), true
}

func (v flagView) Inherits(model.Node, string) bool { return false }

func (v flagView) Revision() uint64 { return uint64(len(v.flags)) }

func TestSelectorUncomparableView(t *testing.T) {
	c := loadCatalog(t)
	s := New(c, WithCache(8))
	env := condition.Env{View: flagView{flags: []int64{1}}, Nodes: []model.Node{0}}

	var (
		p  *catalog.Program
		ok bool
	)
	require.NotPanics(t, func() { p, ok = s.Select(env, "") })
	require.True(t, ok)
	assert.Equal(t, "b_skin", p.Name)
	assert.Zero(t, s.Stats().Len)
}
