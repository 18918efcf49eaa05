// Package optim implements the Descent parameter-update engine: chained
// hyperparameters, per-parameter update rules with device-aware state,
// ordered update hooks, and concrete gradient methods (SGD, MomentumSGD,
// Adam).
//
// A gradient method is bound to a target model with Setup, which attaches
// one update rule per parameter. Update then runs pre hooks, applies every
// rule in the target's parameter order, runs post hooks, and advances the
// global step counter by one.
//
// Example:
//
//	model := nn.NewChain(layer1, layer2)
//	opt := optim.NewSGD(0.01)
//	opt.Setup(model)
//
//	for range epochs {
//	    computeGradients(model)
//	    if err := opt.Update(); err != nil {
//	        return err
//	    }
//	}
//
// Execution is single-threaded and synchronous: Update and Setup carry no
// locking, and callers must not mutate the target's parameter set or the
// hook registries concurrently with an in-flight Update.
package optim

import (
	_ "github.com/descent-ml/descent/internal/backend/cpu" // host backend is always available

	"github.com/descent-ml/descent/internal/nn"
)

// GradientMethod iterates over a target's parameters and applies one update
// rule per parameter. It owns the hook registry, the rules it created during
// Setup, and the global step counter.
type GradientMethod struct {
	hyperparam *Hyperparameter
	target     nn.Module
	t          int
	epoch      int
	hooks      hookSet[OptimizerHook]
	rules      map[*nn.Parameter]*UpdateRule
	newRule    func() *UpdateRule
}

// NewGradientMethod creates an unconfigured method whose Setup attaches the
// rules produced by the factory, one call per parameter.
func NewGradientMethod(factory func() *UpdateRule) *GradientMethod {
	return &GradientMethod{
		hyperparam: NewHyperparameter(nil),
		newRule:    factory,
	}
}

// SetRuleFactory replaces the update-rule factory. Rules already attached by
// a previous Setup are unaffected.
func (g *GradientMethod) SetRuleFactory(factory func() *UpdateRule) {
	g.newRule = factory
}

// Hyperparam returns the method-level hyperparameter node that every rule's
// node chains to.
func (g *GradientMethod) Hyperparam() *Hyperparameter {
	return g.hyperparam
}

// T returns the global step counter: the number of completed Update calls.
func (g *GradientMethod) T() int {
	return g.t
}

// Epoch returns the epoch counter.
func (g *GradientMethod) Epoch() int {
	return g.epoch
}

// NewEpoch advances the epoch counter.
func (g *GradientMethod) NewEpoch() {
	g.epoch++
}

// Target returns the bound model, or nil before Setup.
func (g *GradientMethod) Target() nn.Module {
	return g.target
}

// Setup binds the target model and attaches one freshly created update rule
// to every reachable parameter. Returns the method for chaining.
func (g *GradientMethod) Setup(target nn.Module) *GradientMethod {
	g.target = target
	g.rules = map[*nn.Parameter]*UpdateRule{}
	for _, param := range target.Parameters() {
		g.rules[param] = g.newRule()
	}
	return g
}

// Rule returns the update rule attached to a parameter, or nil.
func (g *GradientMethod) Rule(param *nn.Parameter) *UpdateRule {
	return g.rules[param]
}

// AddHook registers an optimizer hook. Hooks may only be added after Setup.
// An empty name falls back to the hook's Name field; an empty timing defaults
// to PreUpdate. A hook must carry the callback matching its call shape.
func (g *GradientMethod) AddHook(hook OptimizerHook, name string) error {
	if g.target == nil {
		return ErrNotSetUp
	}
	if hook.CallForEachParam {
		if hook.ParamFunc == nil {
			return ErrHookNotCallable
		}
	} else if hook.Func == nil {
		return ErrHookNotCallable
	}
	if name == "" {
		name = hook.Name
	}
	if name == "" {
		return ErrHookName
	}
	if hook.Timing == "" {
		hook.Timing = PreUpdate
	}
	return g.hooks.add(name, hook)
}

// RemoveHook removes an optimizer hook by name.
func (g *GradientMethod) RemoveHook(name string) error {
	return g.hooks.remove(name)
}

// CallHooks invokes every hook with the given timing, in registration order,
// stopping at the first error. Whole-optimizer hooks receive the method;
// per-parameter hooks receive (rule, parameter) for every target parameter.
func (g *GradientMethod) CallHooks(timing Timing) error {
	return g.hooks.each(func(h OptimizerHook) error {
		if h.Timing != timing {
			return nil
		}
		if !h.CallForEachParam {
			return h.Func(g)
		}
		for _, param := range g.target.Parameters() {
			rule := g.rules[param]
			if rule == nil {
				continue
			}
			if err := h.ParamFunc(rule, param); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update applies one global update step: pre hooks, one rule update per
// parameter in the target's enumeration order, post hooks, then a single
// increment of the step counter regardless of parameter count. Mutations
// performed before an error are not rolled back.
func (g *GradientMethod) Update() error {
	if g.target == nil {
		return ErrNotSetUp
	}

	if err := g.CallHooks(PreUpdate); err != nil {
		return err
	}

	for _, param := range g.target.Parameters() {
		rule := g.rules[param]
		if rule == nil {
			continue
		}
		if err := rule.Update(param); err != nil {
			return err
		}
	}

	if err := g.CallHooks(PostUpdate); err != nil {
		return err
	}

	g.t++
	return nil
}
