// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/progsel/backend"
)

// CheckerName is the registry name of the offline WGSL checker.
const CheckerName = "wgsl-check"

func init() {
	backend.Register(CheckerName, func() backend.Device {
		c, err := NewChecker()
		if err != nil {
			return nil
		}
		return c
	})
}

// Checker is a Device over the noop HAL. Shaders go through naga and
// pipelines are built as usual, but nothing reaches a GPU, which makes it
// suitable for validating a catalog offline.
type Checker struct {
	*Standalone
}

// NewChecker opens a noop HAL device and wraps it.
func NewChecker(opts ...Option) (*Checker, error) {
	s, err := Open(noop.API{}, opts...)
	if err != nil {
		return nil, err
	}
	return &Checker{Standalone: s}, nil
}

// Name returns CheckerName.
func (c *Checker) Name() string { return CheckerName }
