package optim

import (
	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// MomentumSGD implements classical momentum:
//
//	v = momentum * v - lr * (grad / s)
//	data = data + v
//
// The velocity lives in the rule state under "v" and follows the parameter
// across devices.
type MomentumSGD struct {
	*GradientMethod
}

// NewMomentumSGD creates a momentum method with the given learning rate and
// momentum factor.
func NewMomentumSGD(lr, momentum float64) *MomentumSGD {
	m := &MomentumSGD{}
	m.GradientMethod = NewGradientMethod(m.createUpdateRule)
	m.Hyperparam().Set("lr", lr)
	m.Hyperparam().Set("momentum", momentum)
	return m
}

func (m *MomentumSGD) createUpdateRule() *UpdateRule {
	rule := NewUpdateRule(momentumKernel{}, m.Hyperparam())
	rule.SetStateInit(func(r *UpdateRule, data *tensor.Array) error {
		v, err := tensor.NewArray(data.Shape(), data.DType(), data.Device())
		if err != nil {
			return err
		}
		r.State()["v"] = v
		return nil
	})
	return rule
}

type momentumKernel struct{}

func (momentumKernel) UpdateHost(rule *UpdateRule, param *nn.Parameter) error {
	return momentumStep(rule, param, tensor.CPU)
}

func (momentumKernel) UpdateAccel(rule *UpdateRule, param *nn.Parameter) error {
	return momentumStep(rule, param, param.Device().Kind)
}

func momentumStep(rule *UpdateRule, param *nn.Parameter, kind tensor.DeviceKind) error {
	grad := param.Grad()
	if grad == nil {
		return nil
	}
	lr, err := rule.Hyperparam().GetFloat("lr")
	if err != nil {
		return err
	}
	momentum, err := rule.Hyperparam().GetFloat("momentum")
	if err != nil {
		return err
	}
	backend, err := tensor.BackendFor(kind)
	if err != nil {
		return err
	}
	v := rule.State()["v"].(*tensor.Array)
	return backend.MomentumStep(param.Data(), grad, v, lr, momentum, lossScale(param))
}
