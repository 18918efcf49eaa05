// Copyright 2025 Descent ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"io"

	"github.com/descent-ml/descent/internal/optim"
)

// Failure taxonomy, re-exported for errors.Is checks.
var (
	ErrNoHyperparameter = optim.ErrNoHyperparameter
	ErrHookExists       = optim.ErrHookExists
	ErrNoSuchHook       = optim.ErrNoSuchHook
	ErrHookName         = optim.ErrHookName
	ErrHookNotCallable  = optim.ErrHookNotCallable
	ErrNotSetUp         = optim.ErrNotSetUp
)

// Hyperparameter is a node in a parent-linked chain of named values.
type Hyperparameter = optim.Hyperparameter

// NewHyperparameter creates a node chained to parent (which may be nil).
func NewHyperparameter(parent *Hyperparameter) *Hyperparameter {
	return optim.NewHyperparameter(parent)
}

// DeepCopyAll deep-copies hyperparameter nodes, preserving shared ancestors.
func DeepCopyAll(nodes ...*Hyperparameter) []*Hyperparameter {
	return optim.DeepCopyAll(nodes...)
}

// UpdateRule owns the per-parameter update state and dispatches the numeric
// kernel for one parameter.
type UpdateRule = optim.UpdateRule

// Kernel is the device-dispatched numeric update for one parameter.
type Kernel = optim.Kernel

// StateInit seeds a rule's state at first update.
type StateInit = optim.StateInit

// NewUpdateRule creates an enabled rule around a kernel.
func NewUpdateRule(kernel Kernel, parent *Hyperparameter) *UpdateRule {
	return optim.NewUpdateRule(kernel, parent)
}

// Timing tags when an optimizer hook runs relative to parameter updates.
type Timing = optim.Timing

// Supported hook timings.
const (
	PreUpdate  = optim.PreUpdate
	PostUpdate = optim.PostUpdate
)

// OptimizerHook is a named, timing-tagged callback on a gradient method.
type OptimizerHook = optim.OptimizerHook

// UpdateHook is a named callback on a single update rule.
type UpdateHook = optim.UpdateHook

// GradientMethod iterates over a target's parameters and applies one update
// rule per parameter.
type GradientMethod = optim.GradientMethod

// NewGradientMethod creates an unconfigured method with an update-rule
// factory.
func NewGradientMethod(factory func() *UpdateRule) *GradientMethod {
	return optim.NewGradientMethod(factory)
}

// SGD is plain stochastic gradient descent.
type SGD = optim.SGD

// NewSGD creates an SGD method with the given learning rate.
func NewSGD(lr float64) *SGD {
	return optim.NewSGD(lr)
}

// MomentumSGD is stochastic gradient descent with classical momentum.
type MomentumSGD = optim.MomentumSGD

// NewMomentumSGD creates a MomentumSGD method.
func NewMomentumSGD(lr, momentum float64) *MomentumSGD {
	return optim.NewMomentumSGD(lr, momentum)
}

// Adam is the Adam method with bias correction.
type Adam = optim.Adam

// NewAdam creates an Adam method. Zero-valued arguments take the usual
// defaults (alpha 0.001, beta1 0.9, beta2 0.999, eps 1e-8).
func NewAdam(alpha, beta1, beta2, eps float64) *Adam {
	return optim.NewAdam(alpha, beta1, beta2, eps)
}

// Config maps a YAML document of optimizer settings onto hyperparameter
// chains.
type Config = optim.Config

// ParseConfig parses a YAML optimizer configuration.
func ParseConfig(data []byte) (*Config, error) {
	return optim.ParseConfig(data)
}

// LoadConfig reads and parses a YAML optimizer configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	return optim.LoadConfig(r)
}

// SetDeprecationHandler replaces the deprecation warning sink and returns
// the previous handler.
func SetDeprecationHandler(h func(msg string)) func(msg string) {
	return optim.SetDeprecationHandler(h)
}

// Standalone gradient utilities, kept for compatibility. Each constructor
// emits a deprecation warning and returns an ordinary pre-timing hook.

// WeightDecay applies L2 regularization to gradients.
//
// Deprecated: register the returned hook explicitly with AddHook.
func WeightDecay(rate float64) OptimizerHook {
	return optim.WeightDecay(rate)
}

// Lasso applies L1 regularization to gradients.
//
// Deprecated: register the returned hook explicitly with AddHook.
func Lasso(rate float64) OptimizerHook {
	return optim.Lasso(rate)
}

// GradientClipping rescales all gradients when their global L2 norm exceeds
// threshold.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientClipping(threshold float64) OptimizerHook {
	return optim.GradientClipping(threshold)
}

// GradientHardClipping clamps every gradient element to [lo, hi].
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientHardClipping(lo, hi float64) OptimizerHook {
	return optim.GradientHardClipping(lo, hi)
}

// GradientNoise adds annealed gaussian noise to gradients.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientNoise(eta float64) OptimizerHook {
	return optim.GradientNoise(eta)
}

// GradientLARS applies layer-wise adaptive rate scaling.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientLARS(threshold, weightDecay, eps float64) OptimizerHook {
	return optim.GradientLARS(threshold, weightDecay, eps)
}
