// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "github.com/gogpu/gputypes"

// Option configures a Device during creation.
type Option func(*config)

type config struct {
	format           gputypes.TextureFormat
	sampleCount      uint32
	vertexEntry      string
	fragmentEntry    string
	texCoordChannels int
}

func defaultConfig() config {
	return config{
		format:           gputypes.TextureFormatBGRA8Unorm,
		sampleCount:      1,
		vertexEntry:      "vs_main",
		fragmentEntry:    "fs_main",
		texCoordChannels: 4,
	}
}

// WithTargetFormat sets the color target format of linked pipelines.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(c *config) { c.format = f }
}

// WithSampleCount sets the MSAA sample count of linked pipelines.
func WithSampleCount(n uint32) Option {
	return func(c *config) {
		if n > 0 {
			c.sampleCount = n
		}
	}
}

// WithEntryPoints overrides the vertex and fragment entry point names.
func WithEntryPoints(vertex, fragment string) Option {
	return func(c *config) {
		c.vertexEntry, c.fragmentEntry = vertex, fragment
	}
}

// WithTexCoordChannels sets how many texcoord streams the vertex layout
// declares.
func WithTexCoordChannels(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.texCoordChannels = n
		}
	}
}
