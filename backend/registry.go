package backend

import (
	"sync"
)

// Backend name constants.
const (
	// BackendWGPU is the WebGPU HAL device (gogpu/wgpu, WGSL shaders).
	BackendWGPU = "wgpu"
	// BackendOpenGL is the OpenGL 4.1 core device (GLSL shaders).
	BackendOpenGL = "opengl"
	// BackendNull is the device that accepts any non-empty shader and
	// draws nothing.
	BackendNull = "null"
)

// Factory creates a new device instance.
type Factory func() Device

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// WGPU > OpenGL > Null (Null is the dry-run fallback).
	backendPriority = []string{BackendWGPU, BackendOpenGL, BackendNull}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// Priority returns the backend names Default tries, in order.
func Priority() []string {
	return append([]string(nil), backendPriority...)
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a device instance by name.
// Returns nil if the backend is not registered.
func Get(name string) Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available device based on priority.
// Returns nil if no backends are registered.
func Default() Device {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			d := factory()
			if d != nil {
				return d
			}
		}
	}

	// Fallback: return first available
	for _, factory := range backends {
		if d := factory(); d != nil {
			return d
		}
	}

	return nil
}

// MustDefault returns the default device or panics.
func MustDefault() Device {
	d := Default()
	if d == nil {
		panic("backend: no backend available")
	}
	return d
}

// Open returns the named device, initialized. An empty name selects the
// default device.
func Open(name string) (Device, error) {
	var d Device
	if name == "" {
		d = Default()
	} else {
		d = Get(name)
	}
	if d == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// InitDefault initializes the default device based on availability.
func InitDefault() (Device, error) {
	return Open("")
}
