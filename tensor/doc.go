// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the device-tagged arrays underlying the Descent
// optimizer engine.
//
// # Overview
//
// An Array couples a flat numeric payload with a shape, a data type, and a
// device tag. Host arrays live in ordinary Go memory; accelerator arrays
// live in whatever memory the registered backend for their device kind
// provides. Moving data between devices is always an explicit copy.
//
// # Basic Usage
//
//	import "github.com/descent-ml/descent/tensor"
//
//	func main() {
//	    a, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3})
//	    b, _ := a.CopyTo(tensor.Accelerator(0))
//	    vals, _ := b.Float64s()
//	}
//
// # Supported Data Types
//
//   - Float16 (IEEE-754 half precision, stored as raw bits)
//   - Float32
//   - Float64
//
// # Backends
//
// Backends register per device kind with Register. The host needs no
// backend; accelerator kernels dispatch through BackendFor. The MockBackend
// serves accelerator semantics with host memory for tests.
package tensor
