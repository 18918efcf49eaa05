// Package nn implements the target-model abstractions the Descent optimizer
// engine consumes: trainable parameters and enumerable modules.
package nn

import (
	"fmt"

	"github.com/descent-ml/descent/internal/tensor"
)

// Parameter is a trainable parameter: a data array, an optional gradient
// array, and an optional loss scale. Both arrays always live on the same
// device; transfers move them together.
type Parameter struct {
	name      string
	data      *tensor.Array
	grad      *tensor.Array
	lossScale float64
}

// NewParameter creates a parameter around an initialized data array.
// The gradient is nil until set by a backward pass or test.
func NewParameter(name string, data *tensor.Array) *Parameter {
	return &Parameter{name: name, data: data}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns the parameter data array.
func (p *Parameter) Data() *tensor.Array {
	return p.data
}

// SetData replaces the parameter data array.
func (p *Parameter) SetData(data *tensor.Array) {
	p.data = data
}

// Grad returns the gradient array, or nil when none has been computed.
func (p *Parameter) Grad() *tensor.Array {
	return p.grad
}

// SetGrad sets the gradient array.
func (p *Parameter) SetGrad(grad *tensor.Array) {
	p.grad = grad
}

// ClearGrad drops the gradient array. Update rules skip parameters without
// gradients.
func (p *Parameter) ClearGrad() {
	p.grad = nil
}

// ZeroGrad fills the gradient with zeros, keeping its allocation and device.
func (p *Parameter) ZeroGrad() error {
	if p.grad == nil {
		return nil
	}
	b, err := tensor.BackendFor(p.grad.Device().Kind)
	if err != nil {
		return err
	}
	return b.Zero(p.grad)
}

// LossScale returns the loss-scale divisor, or 0 when unset. Update rules
// treat 0 as 1.
func (p *Parameter) LossScale() float64 {
	return p.lossScale
}

// SetLossScale sets the loss-scale divisor applied to gradients before the
// update step.
func (p *Parameter) SetLossScale(scale float64) {
	p.lossScale = scale
}

// Device returns the device holding the parameter data.
func (p *Parameter) Device() tensor.Device {
	return p.data.Device()
}

// ToDevice moves the parameter (data and gradient) to the given device.
// The transfer blocks until complete.
func (p *Parameter) ToDevice(dev tensor.Device) error {
	if p.data.Device() == dev {
		return nil
	}
	data, err := p.data.CopyTo(dev)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", p.name, err)
	}
	p.data = data
	if p.grad != nil {
		grad, err := p.grad.CopyTo(dev)
		if err != nil {
			return fmt.Errorf("parameter %q grad: %w", p.name, err)
		}
		p.grad = grad
	}
	return nil
}

// ToHost moves the parameter to host memory.
func (p *Parameter) ToHost() error {
	return p.ToDevice(tensor.Host)
}
