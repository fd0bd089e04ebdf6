// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/progsel/backend"
)

// These tests cover the parts of the device that do not need a current GL
// context.

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendOpenGL) {
		t.Fatal("opengl backend should be auto-registered")
	}
	if got := backend.Get(backend.BackendOpenGL).Name(); got != "opengl" {
		t.Errorf("Name() = %q, want %q", got, "opengl")
	}
}

func TestUninitialized(t *testing.T) {
	d := New()
	if d.SupportsShaders() {
		t.Error("SupportsShaders() should be false before Init")
	}
	if _, err := d.CompileShader("a.vert", backend.StageVertex, "void main() {}"); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("CompileShader() error = %v, want ErrNotInitialized", err)
	}
	if _, err := d.LinkProgram("a", nil); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("LinkProgram() error = %v, want ErrNotInitialized", err)
	}
	if err := d.UseProgram(1); !errors.Is(err, backend.ErrNoProgram) {
		t.Errorf("UseProgram() error = %v, want ErrNoProgram", err)
	}
	if err := d.BindTexCoords(0, "base", backend.Stream{Buffer: uint32(1)}); !errors.Is(err, backend.ErrNoProgram) {
		t.Errorf("BindTexCoords() error = %v, want ErrNoProgram", err)
	}
	// Safe without a context.
	d.StopProgram()
	d.Close()
}

func TestGLStage(t *testing.T) {
	tests := []struct {
		stage backend.Stage
		want  uint32
	}{
		{backend.StageVertex, gl.VERTEX_SHADER},
		{backend.StageFragment, gl.FRAGMENT_SHADER},
	}
	for _, tt := range tests {
		got, err := glStage(tt.stage)
		if err != nil || got != tt.want {
			t.Errorf("glStage(%s) = %#x, %v; want %#x", tt.stage, got, err, tt.want)
		}
	}
	if _, err := glStage(backend.Stage(9)); err == nil {
		t.Error("glStage(unknown) should fail")
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4.1 Metal - 76.3", 4},
		{"OpenGL ES 3.0 Mesa 23.1", 3},
		{"1.4 (2.1 Mesa 7.0.4)", 1},
		{"12.0", 12},
		{"", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := majorVersion(tt.in); got != tt.want {
			t.Errorf("majorVersion(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestInfoLog(t *testing.T) {
	if got := infoLog(0, nil); got != "no info log" {
		t.Errorf("infoLog(0) = %q", got)
	}
	got := infoLog(6, func(b *uint8) {
		copy(unsafe.Slice(b, 6), "err\n\x00\x00")
	})
	if got != "err" {
		t.Errorf("infoLog() = %q, want %q", got, "err")
	}
}
