// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/descent-ml/descent/internal/tensor"
)

// Array is a device-tagged numeric array.
type Array = tensor.Array

// Shape describes the extents of an array.
type Shape = tensor.Shape

// DataType identifies an element type.
type DataType = tensor.DataType

// Supported element types.
const (
	Float16 = tensor.Float16
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Device names a memory space: a device kind plus an index within that kind.
type Device = tensor.Device

// DeviceKind discriminates memory spaces by backend.
type DeviceKind = tensor.DeviceKind

// Known device kinds.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// Host is the CPU memory space.
var Host = tensor.Host

// Accelerator returns the device tag for an accelerator index.
func Accelerator(index int) Device {
	return tensor.Accelerator(index)
}

// Backend executes allocation and optimizer kernels for one device kind.
type Backend = tensor.Backend

// Buffer is a handle to device memory.
type Buffer = tensor.Buffer

// Register installs a backend for its device kind, replacing any previous
// registration.
func Register(b Backend) {
	tensor.Register(b)
}

// BackendFor returns the backend registered for a device kind.
func BackendFor(kind DeviceKind) (Backend, error) {
	return tensor.BackendFor(kind)
}

// NewArray allocates a zeroed array on the given device.
func NewArray(shape Shape, dtype DataType, dev Device) (*Array, error) {
	return tensor.NewArray(shape, dtype, dev)
}

// FromFloat32 creates a host array from a float32 slice.
func FromFloat32(vals []float32, shape Shape) (*Array, error) {
	return tensor.FromFloat32(vals, shape)
}

// FromFloat64 creates a host array of the given dtype from float64 values.
func FromFloat64(vals []float64, shape Shape, dtype DataType) (*Array, error) {
	return tensor.FromFloat64(vals, shape, dtype)
}

// Float16FromFloat32 encodes a float32 as IEEE-754 half-precision bits.
func Float16FromFloat32(f float32) uint16 {
	return tensor.Float16FromFloat32(f)
}

// Float16ToFloat32 decodes IEEE-754 half-precision bits to a float32.
func Float16ToFloat32(bits uint16) float32 {
	return tensor.Float16ToFloat32(bits)
}

// MockBackend is an accelerator backend over host memory, for tests.
type MockBackend = tensor.MockBackend

// NewMockBackend creates a mock accelerator backend.
func NewMockBackend() *MockBackend {
	return tensor.NewMockBackend()
}
