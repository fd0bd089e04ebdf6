// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/progsel/backend"
)

// ErrNoAdapter is returned by Open when a HAL instance exposes no adapter.
var ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

func init() {
	backend.Register(backend.BackendWGPU, openBest)
}

// openBest opens the most capable HAL backend linked into the binary. The
// noop HAL does not count. Without a real GPU backend, or when it fails to
// open, the factory returns nil and the registry moves on to the next
// device.
func openBest() backend.Device {
	b, err := hal.SelectBestBackend()
	if err != nil || b.Variant() == gputypes.BackendEmpty {
		return nil
	}
	s, err := Open(b)
	if err != nil {
		return nil
	}
	return s
}

// Standalone is a Device that owns the HAL instance and device it runs
// on. Close releases both.
type Standalone struct {
	*Device
	adapter string
	release func()
}

// Open creates an instance of b and opens its first discrete or integrated
// adapter, or its first adapter when there is neither.
func Open(b hal.Backend, opts ...Option) (*Standalone, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: %s instance: %w", b.Variant(), err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, b.Variant())
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open %s adapter: %w", b.Variant(), err)
	}
	d, err := New(open.Device, open.Queue, opts...)
	if err != nil {
		open.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	return &Standalone{
		Device:  d,
		adapter: selected.Info.Name,
		release: func() {
			open.Device.Destroy()
			instance.Destroy()
		},
	}, nil
}

// Adapter returns the name of the adapter the device was opened on.
func (s *Standalone) Adapter() string { return s.adapter }

// Close releases the device, then the HAL device and instance behind it.
func (s *Standalone) Close() {
	s.Device.Close()
	if s.release != nil {
		s.release()
		s.release = nil
	}
}
