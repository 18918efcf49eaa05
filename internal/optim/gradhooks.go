package optim

import (
	"math"
	"math/rand"

	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// Standalone gradient-clipping and regularization utilities. These predate
// the hook registry and are kept for compatibility: each constructor emits a
// deprecation warning and returns an ordinary pre-timing optimizer hook.

func backendForParam(param *nn.Parameter) (tensor.Backend, error) {
	return tensor.BackendFor(param.Device().Kind)
}

// WeightDecay returns a hook applying L2 regularization to gradients:
// grad += rate * data.
//
// Deprecated: register the returned hook explicitly with AddHook.
func WeightDecay(rate float64) OptimizerHook {
	warnDeprecated("WeightDecay")
	return OptimizerHook{
		Name:             "WeightDecay",
		Timing:           PreUpdate,
		CallForEachParam: true,
		ParamFunc: func(_ *UpdateRule, param *nn.Parameter) error {
			grad := param.Grad()
			if grad == nil {
				return nil
			}
			backend, err := backendForParam(param)
			if err != nil {
				return err
			}
			return backend.Axpy(grad, param.Data(), rate)
		},
	}
}

// Lasso returns a hook applying L1 regularization to gradients:
// grad += rate * sign(data).
//
// Deprecated: register the returned hook explicitly with AddHook.
func Lasso(rate float64) OptimizerHook {
	warnDeprecated("Lasso")
	return OptimizerHook{
		Name:             "Lasso",
		Timing:           PreUpdate,
		CallForEachParam: true,
		ParamFunc: func(_ *UpdateRule, param *nn.Parameter) error {
			grad := param.Grad()
			if grad == nil {
				return nil
			}
			backend, err := backendForParam(param)
			if err != nil {
				return err
			}
			return backend.SignAxpy(grad, param.Data(), rate)
		},
	}
}

// GradientClipping returns a whole-optimizer hook rescaling all gradients
// uniformly when their global L2 norm exceeds threshold.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientClipping(threshold float64) OptimizerHook {
	warnDeprecated("GradientClipping")
	return OptimizerHook{
		Name:   "GradientClipping",
		Timing: PreUpdate,
		Func: func(opt *GradientMethod) error {
			sqsum := 0.0
			for _, param := range opt.Target().Parameters() {
				grad := param.Grad()
				if grad == nil {
					continue
				}
				backend, err := backendForParam(param)
				if err != nil {
					return err
				}
				norm, err := backend.Norm(grad)
				if err != nil {
					return err
				}
				sqsum += norm * norm
			}
			norm := math.Sqrt(sqsum)
			if norm <= threshold {
				return nil
			}
			rate := threshold / norm
			for _, param := range opt.Target().Parameters() {
				grad := param.Grad()
				if grad == nil {
					continue
				}
				backend, err := backendForParam(param)
				if err != nil {
					return err
				}
				if err := backend.Scale(grad, rate); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// GradientHardClipping returns a hook clamping every gradient element to
// [lo, hi].
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientHardClipping(lo, hi float64) OptimizerHook {
	warnDeprecated("GradientHardClipping")
	return OptimizerHook{
		Name:             "GradientHardClipping",
		Timing:           PreUpdate,
		CallForEachParam: true,
		ParamFunc: func(_ *UpdateRule, param *nn.Parameter) error {
			grad := param.Grad()
			if grad == nil {
				return nil
			}
			backend, err := backendForParam(param)
			if err != nil {
				return err
			}
			return backend.Clamp(grad, lo, hi)
		},
	}
}

// GradientNoise returns a hook adding annealed gaussian noise to gradients
// with variance eta / (1+t)^0.55, where t is the rule's update count.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientNoise(eta float64) OptimizerHook {
	warnDeprecated("GradientNoise")
	return OptimizerHook{
		Name:             "GradientNoise",
		Timing:           PreUpdate,
		CallForEachParam: true,
		ParamFunc: func(rule *UpdateRule, param *nn.Parameter) error {
			grad := param.Grad()
			if grad == nil {
				return nil
			}
			sigma := math.Sqrt(eta / math.Pow(1+float64(rule.T()), 0.55))
			vals := make([]float64, grad.NumElements())
			for i := range vals {
				vals[i] = rand.NormFloat64() * sigma
			}
			noise, err := tensor.FromFloat64(vals, grad.Shape(), grad.DType())
			if err != nil {
				return err
			}
			if !grad.Device().IsHost() {
				noise, err = noise.CopyTo(grad.Device())
				if err != nil {
					return err
				}
			}
			backend, err := backendForParam(param)
			if err != nil {
				return err
			}
			return backend.Axpy(grad, noise, 1)
		},
	}
}

// GradientLARS returns a hook applying layer-wise adaptive rate scaling:
// the gradient of each parameter is rescaled by
// ||data|| / (eps + ||grad|| + weightDecay*||data||) when that local rate
// exceeds threshold, after folding in the weight-decay term.
//
// Deprecated: register the returned hook explicitly with AddHook.
func GradientLARS(threshold, weightDecay, eps float64) OptimizerHook {
	warnDeprecated("GradientLARS")
	return OptimizerHook{
		Name:             "GradientLARS",
		Timing:           PreUpdate,
		CallForEachParam: true,
		ParamFunc: func(_ *UpdateRule, param *nn.Parameter) error {
			grad := param.Grad()
			if grad == nil {
				return nil
			}
			backend, err := backendForParam(param)
			if err != nil {
				return err
			}
			pNorm, err := backend.Norm(param.Data())
			if err != nil {
				return err
			}
			gNorm, err := backend.Norm(grad)
			if err != nil {
				return err
			}
			rate := 1.0
			if pNorm > eps && gNorm > eps {
				if local := pNorm / (eps + gNorm + weightDecay*pNorm); local > threshold {
					rate = local
				}
			}
			if weightDecay != 0 {
				if err := backend.Axpy(grad, param.Data(), weightDecay); err != nil {
					return err
				}
			}
			if rate != 1 {
				return backend.Scale(grad, rate)
			}
			return nil
		},
	}
}
