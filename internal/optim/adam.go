package optim

import (
	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// Adam implements Adam (Kingma & Ba, 2014) with bias correction:
//
//	m = beta1 * m + (1-beta1) * (grad / s)
//	v = beta2 * v + (1-beta2) * (grad / s)^2
//	data = data - alpha * (m / (1-beta1^t)) / (sqrt(v / (1-beta2^t)) + eps)
//
// The moment estimates live in the rule state under "m" and "v"; t is the
// rule's own step counter, so a rule attached after others still corrects
// its bias from step one.
type Adam struct {
	*GradientMethod
}

// NewAdam creates an Adam method. Zero-valued settings fall back to the
// conventional defaults alpha=0.001, beta1=0.9, beta2=0.999, eps=1e-8.
func NewAdam(alpha, beta1, beta2, eps float64) *Adam {
	if alpha == 0 {
		alpha = 0.001
	}
	if beta1 == 0 {
		beta1 = 0.9
	}
	if beta2 == 0 {
		beta2 = 0.999
	}
	if eps == 0 {
		eps = 1e-8
	}
	a := &Adam{}
	a.GradientMethod = NewGradientMethod(a.createUpdateRule)
	a.Hyperparam().Set("alpha", alpha)
	a.Hyperparam().Set("beta1", beta1)
	a.Hyperparam().Set("beta2", beta2)
	a.Hyperparam().Set("eps", eps)
	return a
}

func (a *Adam) createUpdateRule() *UpdateRule {
	rule := NewUpdateRule(adamKernel{}, a.Hyperparam())
	rule.SetStateInit(func(r *UpdateRule, data *tensor.Array) error {
		m, err := tensor.NewArray(data.Shape(), data.DType(), data.Device())
		if err != nil {
			return err
		}
		v, err := tensor.NewArray(data.Shape(), data.DType(), data.Device())
		if err != nil {
			return err
		}
		r.State()["m"] = m
		r.State()["v"] = v
		return nil
	})
	return rule
}

type adamKernel struct{}

func (adamKernel) UpdateHost(rule *UpdateRule, param *nn.Parameter) error {
	return adamStep(rule, param, tensor.CPU)
}

func (adamKernel) UpdateAccel(rule *UpdateRule, param *nn.Parameter) error {
	return adamStep(rule, param, param.Device().Kind)
}

func adamStep(rule *UpdateRule, param *nn.Parameter, kind tensor.DeviceKind) error {
	grad := param.Grad()
	if grad == nil {
		return nil
	}
	hp := rule.Hyperparam()
	alpha, err := hp.GetFloat("alpha")
	if err != nil {
		return err
	}
	beta1, err := hp.GetFloat("beta1")
	if err != nil {
		return err
	}
	beta2, err := hp.GetFloat("beta2")
	if err != nil {
		return err
	}
	eps, err := hp.GetFloat("eps")
	if err != nil {
		return err
	}
	backend, err := tensor.BackendFor(kind)
	if err != nil {
		return err
	}
	m := rule.State()["m"].(*tensor.Array)
	v := rule.State()["v"].(*tensor.Array)
	return backend.AdamStep(param.Data(), grad, m, v, alpha, beta1, beta2, eps, lossScale(param), rule.T())
}
