package nn

import "github.com/descent-ml/descent/internal/tensor"

// Module is the interface an optimizer target must satisfy: a stable,
// enumerable collection of trainable parameters.
type Module interface {
	// Parameters returns all trainable parameters in a stable order.
	Parameters() []*Parameter
}

// Chain is an ordered container of modules. Parameters are enumerated in
// child order, each child's parameters in its own order.
type Chain struct {
	children []Module
}

// NewChain creates a chain over the given children.
func NewChain(children ...Module) *Chain {
	return &Chain{children: children}
}

// Add appends a child module.
func (c *Chain) Add(m Module) {
	c.children = append(c.children, m)
}

// Len returns the number of children.
func (c *Chain) Len() int {
	return len(c.children)
}

// Child returns the i-th child module.
func (c *Chain) Child(i int) Module {
	return c.children[i]
}

// Parameters returns the parameters of every child, in order.
func (c *Chain) Parameters() []*Parameter {
	var params []*Parameter
	for _, child := range c.children {
		params = append(params, child.Parameters()...)
	}
	return params
}

// ToDevice moves every parameter in the chain to the given device.
func (c *Chain) ToDevice(dev tensor.Device) error {
	for _, p := range c.Parameters() {
		if err := p.ToDevice(dev); err != nil {
			return err
		}
	}
	return nil
}

// Linear is a minimal fully connected module: a weight matrix and a bias
// vector. It exists so targets in tests and demos look like real models;
// forward computation is out of the optimizer engine's scope.
type Linear struct {
	Weight *Parameter
	Bias   *Parameter
}

// NewLinear creates a linear module with zeroed parameters on the host.
func NewLinear(inFeatures, outFeatures int) (*Linear, error) {
	w, err := tensor.NewArray(tensor.Shape{outFeatures, inFeatures}, tensor.Float32, tensor.Host)
	if err != nil {
		return nil, err
	}
	b, err := tensor.NewArray(tensor.Shape{outFeatures}, tensor.Float32, tensor.Host)
	if err != nil {
		return nil, err
	}
	return &Linear{
		Weight: NewParameter("weight", w),
		Bias:   NewParameter("bias", b),
	}, nil
}

// Parameters returns weight then bias.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.Weight, l.Bias}
}
