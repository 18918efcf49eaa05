package optim

import (
	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// SGD implements plain stochastic gradient descent:
//
//	data = data - lr * (grad / s)
//
// where s is the parameter's loss-scale divisor (1 when unset). The update is
// identical on host and accelerator paths and across all supported float
// widths.
type SGD struct {
	*GradientMethod
}

// NewSGD creates an SGD method with the given learning rate.
func NewSGD(lr float64) *SGD {
	s := &SGD{}
	s.GradientMethod = NewGradientMethod(s.createUpdateRule)
	s.Hyperparam().Set("lr", lr)
	return s
}

func (s *SGD) createUpdateRule() *UpdateRule {
	return NewUpdateRule(sgdKernel{}, s.Hyperparam())
}

// sgdKernel dispatches the SGD step to the backend serving the parameter's
// device. Parameters without a gradient are skipped.
type sgdKernel struct{}

func (sgdKernel) UpdateHost(rule *UpdateRule, param *nn.Parameter) error {
	return sgdStep(rule, param, tensor.CPU)
}

func (sgdKernel) UpdateAccel(rule *UpdateRule, param *nn.Parameter) error {
	return sgdStep(rule, param, param.Device().Kind)
}

func sgdStep(rule *UpdateRule, param *nn.Parameter, kind tensor.DeviceKind) error {
	grad := param.Grad()
	if grad == nil {
		return nil
	}
	lr, err := rule.Hyperparam().GetFloat("lr")
	if err != nil {
		return err
	}
	backend, err := tensor.BackendFor(kind)
	if err != nil {
		return err
	}
	return backend.SGDStep(param.Data(), grad, lr, lossScale(param))
}
