// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu exposes the WebGPU accelerator backend. The real backend
// compiles only with the "webgpu" build tag; without it New reports that
// accelerator support is unavailable.
package webgpu

import (
	internalwebgpu "github.com/descent-ml/descent/internal/backend/webgpu"
	"github.com/descent-ml/descent/tensor"
)

// New creates a WebGPU backend on the default adapter. Register the result
// with tensor.Register to route accelerator arrays through it.
func New() (tensor.Backend, error) {
	b, err := internalwebgpu.New()
	if err != nil {
		return nil, err
	}
	return b, nil
}
