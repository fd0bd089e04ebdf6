// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/progsel/backend"
)

// Errors returned by the wgpu device.
var (
	// ErrNilDevice is returned when no HAL device is supplied.
	ErrNilDevice = errors.New("wgpu: nil HAL device")

	// ErrNoHALProvider is returned when a provider does not expose HAL types.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrBadStream is returned when a stream buffer is not a hal.Buffer.
	ErrBadStream = errors.New("wgpu: stream buffer is not a hal.Buffer")
)

// PassEncoder is the part of hal.RenderPassEncoder the device records into.
type PassEncoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
}

type shaderEntry struct {
	name   string
	stage  backend.Stage
	module hal.ShaderModule
}

type programEntry struct {
	name     string
	pipeline hal.RenderPipeline
}

type streamBinding struct {
	buffer hal.Buffer
	offset uint64
}

// Device is a backend.Device over a HAL device. It does not own the HAL
// device: Close releases shaders, pipelines and layouts only.
type Device struct {
	device hal.Device
	queue  hal.Queue
	cfg    config
	logger *slog.Logger

	layout   hal.PipelineLayout
	nextID   uint32
	shaders  map[backend.ShaderID]*shaderEntry
	programs map[backend.ProgramID]*programEntry

	pass    PassEncoder
	current backend.ProgramID
	streams map[uint32]streamBinding
}

// New creates a device over an open HAL device. The queue may be nil; it
// is kept for hosts that share it through Queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Device{
		device:   device,
		queue:    queue,
		cfg:      cfg,
		logger:   slog.New(nopHandler{}),
		shaders:  make(map[backend.ShaderID]*shaderEntry),
		programs: make(map[backend.ProgramID]*programEntry),
		streams:  make(map[uint32]streamBinding),
	}, nil
}

// NewFromProvider creates a device from a host GPU context. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. The render target format is taken from the provider's
// surface unless overridden by WithTargetFormat.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, _ := hp.HalQueue().(hal.Queue)

	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(f)}, opts...)
	}
	return New(device, queue, opts...)
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendWGPU }

// Init creates the shared pipeline layout.
func (d *Device) Init() error {
	if d.layout != nil {
		return nil
	}
	layout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "progsel_pipeline_layout",
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	d.layout = layout
	return nil
}

// Close destroys every pipeline and shader module still held, then the
// pipeline layout. The HAL device itself stays open.
func (d *Device) Close() {
	d.StopProgram()
	for id := range d.programs {
		d.DestroyProgram(id)
	}
	for id := range d.shaders {
		d.DestroyShader(id)
	}
	if d.layout != nil {
		d.device.DestroyPipelineLayout(d.layout)
		d.layout = nil
	}
	d.pass = nil
}

// SupportsShaders reports true: WebGPU has no fixed-function pipeline.
func (d *Device) SupportsShaders() bool { return true }

// Queue returns the queue the device was created with.
func (d *Device) Queue() hal.Queue { return d.queue }

// SetLogger sets the logger for compile and link diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	d.logger = l
}

// CompileShader validates WGSL with naga and creates a shader module. The
// naga diagnostics are returned as the error on failure.
func (d *Device) CompileShader(name string, stage backend.Stage, source string) (backend.ShaderID, error) {
	if d.layout == nil {
		return 0, backend.ErrNotInitialized
	}
	if _, err := naga.Compile(source); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: create shader module: %w", name, err)
	}
	d.nextID++
	id := backend.ShaderID(d.nextID)
	d.shaders[id] = &shaderEntry{name: name, stage: stage, module: module}
	d.logger.Debug("wgpu: shader module created", "name", name, "stage", stage, "id", id)
	return id, nil
}

// DestroyShader destroys a shader module. Pipelines linked from it stay
// valid.
func (d *Device) DestroyShader(id backend.ShaderID) {
	s, ok := d.shaders[id]
	if !ok {
		return
	}
	delete(d.shaders, id)
	d.device.DestroyShaderModule(s.module)
}

// LinkProgram creates a render pipeline from one vertex unit and at most
// one fragment unit.
func (d *Device) LinkProgram(name string, shaders []backend.ShaderID) (backend.ProgramID, error) {
	if d.layout == nil {
		return 0, backend.ErrNotInitialized
	}
	var vertex, fragment *shaderEntry
	for _, id := range shaders {
		s, ok := d.shaders[id]
		if !ok {
			return 0, fmt.Errorf("%s: %w: %d", name, backend.ErrNoShader, id)
		}
		switch {
		case s.stage == backend.StageVertex && vertex == nil:
			vertex = s
		case s.stage == backend.StageFragment && fragment == nil:
			fragment = s
		default:
			return 0, fmt.Errorf("%s: more than one %s stage (%s)", name, s.stage, s.name)
		}
	}
	if vertex == nil {
		return 0, fmt.Errorf("%s: %w", name, backend.ErrNoVertexStage)
	}

	pipeline, err := d.device.CreateRenderPipeline(d.pipelineDescriptor(name, vertex.module, fragment))
	if err != nil {
		return 0, fmt.Errorf("%s: create render pipeline: %w", name, err)
	}
	d.nextID++
	id := backend.ProgramID(d.nextID)
	d.programs[id] = &programEntry{name: name, pipeline: pipeline}
	d.logger.Debug("wgpu: render pipeline created", "name", name, "id", id)
	return id, nil
}

// DestroyProgram destroys a render pipeline, unbinding it if active.
func (d *Device) DestroyProgram(id backend.ProgramID) {
	p, ok := d.programs[id]
	if !ok {
		return
	}
	if d.current == id {
		d.StopProgram()
	}
	delete(d.programs, id)
	d.device.DestroyRenderPipeline(p.pipeline)
}

// UseProgram selects the pipeline for subsequent draws on the pass.
func (d *Device) UseProgram(id backend.ProgramID) error {
	p, ok := d.programs[id]
	if !ok {
		return backend.ErrNoProgram
	}
	d.current = id
	if d.pass != nil {
		d.pass.SetPipeline(p.pipeline)
	}
	return nil
}

// StopProgram forgets the active pipeline and its streams. A render pass
// cannot unset a pipeline, so the next UseProgram replaces it.
func (d *Device) StopProgram() {
	d.current = 0
	clear(d.streams)
}

// BindTexCoords sets the vertex buffer for a texcoord channel.
func (d *Device) BindTexCoords(channel int, semantic string, s backend.Stream) error {
	if d.current == 0 {
		return backend.ErrNoProgram
	}
	if channel < 0 || channel >= d.cfg.texCoordChannels {
		return fmt.Errorf("wgpu: texcoord channel %d out of range [0,%d)", channel, d.cfg.texCoordChannels)
	}
	buf, ok := s.Buffer.(hal.Buffer)
	if !ok || buf == nil {
		return fmt.Errorf("%w (%s)", ErrBadStream, semantic)
	}
	slot := uint32(1 + channel)
	d.streams[slot] = streamBinding{buffer: buf, offset: s.Offset}
	if d.pass != nil {
		d.pass.SetVertexBuffer(slot, buf, s.Offset)
	}
	return nil
}

// SetRenderPass directs bindings to pass. The active pipeline and streams
// are replayed onto it. Pass nil when the pass ends.
func (d *Device) SetRenderPass(pass PassEncoder) {
	d.pass = pass
	if pass == nil || d.current == 0 {
		return
	}
	pass.SetPipeline(d.programs[d.current].pipeline)
	for slot, b := range d.streams {
		pass.SetVertexBuffer(slot, b.buffer, b.offset)
	}
}

// Current returns the active program, or 0.
func (d *Device) Current() backend.ProgramID { return d.current }

// Live returns the number of shader modules and pipelines held.
func (d *Device) Live() (shaders, programs int) {
	return len(d.shaders), len(d.programs)
}

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var _ backend.Device = (*Device)(nil)
