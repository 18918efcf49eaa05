// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// Parameter couples a data array with its gradient and an optional loss
// scale.
type Parameter = nn.Parameter

// NewParameter creates a parameter around a data array.
func NewParameter(name string, data *tensor.Array) *Parameter {
	return nn.NewParameter(name, data)
}

// Module is anything enumerating parameters in a stable order.
type Module = nn.Module

// Chain composes modules, enumerating their parameters in insertion order.
type Chain = nn.Chain

// NewChain creates a chain of the given modules.
func NewChain(modules ...Module) *Chain {
	return nn.NewChain(modules...)
}

// Linear is a fully-connected layer holding a weight and a bias parameter.
type Linear = nn.Linear

// NewLinear creates a linear layer with zeroed float32 host parameters.
func NewLinear(inFeatures, outFeatures int) (*Linear, error) {
	return nn.NewLinear(inFeatures, outFeatures)
}
