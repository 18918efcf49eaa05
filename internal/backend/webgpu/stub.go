//go:build !webgpu

// Package webgpu implements the accelerator backend for the Descent
// optimizer engine on top of WebGPU compute shaders. Without the "webgpu"
// build tag only this stub compiles, so the engine builds without the native
// wgpu library.
package webgpu

import (
	"fmt"

	"github.com/descent-ml/descent/internal/tensor"
)

// New reports that accelerator support was not compiled in. Build with the
// "webgpu" tag to enable the real backend.
func New() (tensor.Backend, error) {
	return nil, fmt.Errorf("webgpu: built without the webgpu tag")
}
