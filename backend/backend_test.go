package backend

import (
	"errors"
	"testing"
)

func TestNullDeviceName(t *testing.T) {
	d := NewNullDevice()
	if d.Name() != "null" {
		t.Errorf("Name() = %q, want %q", d.Name(), "null")
	}
}

func TestNullDeviceRequiresInit(t *testing.T) {
	d := NewNullDevice()
	if _, err := d.CompileShader("a.vert", StageVertex, "void main() {}"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("CompileShader() before Init error = %v, want ErrNotInitialized", err)
	}
	if _, err := d.LinkProgram("a", nil); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LinkProgram() before Init error = %v, want ErrNotInitialized", err)
	}
}

func TestNullDeviceCompileAndLink(t *testing.T) {
	d := NewNullDevice()
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Close()

	vs, err := d.CompileShader("a.vert", StageVertex, "void main() {}")
	if err != nil {
		t.Fatalf("CompileShader(vertex) error = %v", err)
	}
	fs, err := d.CompileShader("a.frag", StageFragment, "void main() {}")
	if err != nil {
		t.Fatalf("CompileShader(fragment) error = %v", err)
	}
	if vs == 0 || fs == 0 || vs == fs {
		t.Fatalf("shader ids = %d, %d; want distinct non-zero", vs, fs)
	}

	p, err := d.LinkProgram("a", []ShaderID{vs, fs})
	if err != nil {
		t.Fatalf("LinkProgram() error = %v", err)
	}
	if err := d.UseProgram(p); err != nil {
		t.Fatalf("UseProgram() error = %v", err)
	}
	if d.Current() != p {
		t.Errorf("Current() = %d, want %d", d.Current(), p)
	}
	if err := d.BindTexCoords(0, "base", Stream{}); err != nil {
		t.Errorf("BindTexCoords() error = %v", err)
	}

	d.DestroyProgram(p)
	if d.Current() != 0 {
		t.Error("destroying the active program should unbind it")
	}
	if err := d.UseProgram(p); !errors.Is(err, ErrNoProgram) {
		t.Errorf("UseProgram(destroyed) error = %v, want ErrNoProgram", err)
	}

	d.DestroyShader(vs)
	d.DestroyShader(fs)
	if s, p := d.Live(); s != 0 || p != 0 {
		t.Errorf("Live() = %d, %d; want 0, 0", s, p)
	}
}

func TestNullDeviceCompileEmpty(t *testing.T) {
	d := NewNullDevice()
	_ = d.Init()
	defer d.Close()

	if _, err := d.CompileShader("a.frag", StageFragment, "  \n"); err == nil {
		t.Error("CompileShader(blank) should fail")
	}
}

func TestNullDeviceLinkErrors(t *testing.T) {
	d := NewNullDevice()
	_ = d.Init()
	defer d.Close()

	fs, _ := d.CompileShader("a.frag", StageFragment, "x")
	if _, err := d.LinkProgram("a", []ShaderID{fs}); !errors.Is(err, ErrNoVertexStage) {
		t.Errorf("LinkProgram(fragment only) error = %v, want ErrNoVertexStage", err)
	}
	if _, err := d.LinkProgram("a", []ShaderID{fs, 99}); !errors.Is(err, ErrNoShader) {
		t.Errorf("LinkProgram(unknown) error = %v, want ErrNoShader", err)
	}
	if _, p := d.Live(); p != 0 {
		t.Errorf("failed links should not retain programs, got %d", p)
	}
}

func TestNullDeviceStopProgram(t *testing.T) {
	d := NewNullDevice()
	_ = d.Init()
	defer d.Close()

	// Safe with nothing bound.
	d.StopProgram()
	if err := d.BindTexCoords(0, "base", Stream{}); !errors.Is(err, ErrNoProgram) {
		t.Errorf("BindTexCoords() without program error = %v, want ErrNoProgram", err)
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		s    Stage
		want string
	}{
		{StageVertex, "vertex"},
		{StageFragment, "fragment"},
		{Stage(7), "Stage(7)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// Null backend is auto-registered via init()
	if !IsRegistered("null") {
		t.Error("null backend should be auto-registered")
	}

	d := Get("null")
	if d == nil {
		t.Fatal("Get(null) returned nil")
	}
	if d.Name() != "null" {
		t.Errorf("Get(null).Name() = %q, want %q", d.Name(), "null")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	d := Get("nonexistent")
	if d != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	available := Available()
	found := false
	for _, name := range available {
		if name == "null" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Available() should include 'null'")
	}
}

func TestRegistryDefault(t *testing.T) {
	d := Default()
	if d == nil {
		t.Fatal("Default() returned nil")
	}
	// Null should be the default when no GPU backend is linked in
	if d.Name() != "null" {
		t.Logf("Default() returned %q (may vary based on available backends)", d.Name())
	}
}

func TestRegistryPriority(t *testing.T) {
	Register(BackendOpenGL, func() Device { return &namedDevice{NullDevice: NewNullDevice(), name: BackendOpenGL} })
	defer Unregister(BackendOpenGL)

	if got := Default().Name(); got != BackendOpenGL {
		t.Errorf("Default().Name() = %q, want %q", got, BackendOpenGL)
	}
}

// A factory may return nil to let Default move on; any device it does
// return must open under the name it was registered with.
func TestRegistryPriorityNamesOpen(t *testing.T) {
	for _, name := range Priority() {
		if !IsRegistered(name) {
			continue
		}
		d := Get(name)
		if d == nil {
			continue
		}
		d.Close()
		d, err := Open(name)
		if err != nil {
			t.Errorf("Open(%q) error = %v", name, err)
			continue
		}
		if d.Name() != name {
			t.Errorf("Open(%q).Name() = %q", name, d.Name())
		}
		d.Close()
	}
	if p := Priority(); p[len(p)-1] != BackendNull {
		t.Errorf("Priority() = %v, want %q last", p, BackendNull)
	}
}

func TestRegistryMustDefault(t *testing.T) {
	// Should not panic when null backend is available
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	d := MustDefault()
	if d == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefault(t *testing.T) {
	d, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if d == nil {
		t.Fatal("InitDefault() returned nil device")
	}
	defer d.Close()

	// Verify it's initialized by using it
	if _, err := d.CompileShader("a.vert", StageVertex, "x"); err != nil {
		t.Errorf("device from InitDefault() should be usable: %v", err)
	}
}

func TestRegistryOpen(t *testing.T) {
	if _, err := Open("nonexistent"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}

	Register("failing", func() Device { return failingDevice{NewNullDevice()} })
	defer Unregister("failing")
	if _, err := Open("failing"); !errors.Is(err, ErrShadersUnsupported) {
		t.Errorf("Open(failing) error = %v, want ErrShadersUnsupported", err)
	}
}

func TestRegistryUnregister(t *testing.T) {
	// Register a test backend
	Register("test-backend", func() Device { return NewNullDevice() })

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

type namedDevice struct {
	*NullDevice
	name string
}

func (d *namedDevice) Name() string { return d.name }

type failingDevice struct{ *NullDevice }

func (failingDevice) Init() error { return ErrShadersUnsupported }

// Benchmark tests

func BenchmarkNullDeviceLink(b *testing.B) {
	d := NewNullDevice()
	_ = d.Init()
	defer d.Close()
	vs, _ := d.CompileShader("a.vert", StageVertex, "x")
	fs, _ := d.CompileShader("a.frag", StageFragment, "x")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := d.LinkProgram("a", []ShaderID{vs, fs})
		d.DestroyProgram(p)
	}
}
