// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the host backend. Importing any package in this
// module registers it automatically; this facade exists for callers that
// want a handle to it.
package cpu

import (
	internalcpu "github.com/descent-ml/descent/internal/backend/cpu"
	"github.com/descent-ml/descent/tensor"
)

// Backend is the host backend implementation.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a host backend.
func New() *Backend {
	return internalcpu.New()
}
