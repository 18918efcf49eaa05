package optim

import (
	"fmt"

	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// Kernel is the device-dispatched numeric update for one parameter. The
// update rule selects the path from the parameter's current device tag:
// host-resident parameters go through UpdateHost, accelerator-resident ones
// through UpdateAccel. Kernels read and write the parameter's data and grad
// and the rule's state in place.
type Kernel interface {
	UpdateHost(rule *UpdateRule, param *nn.Parameter) error
	UpdateAccel(rule *UpdateRule, param *nn.Parameter) error
}

// StateInit seeds a rule's state from a snapshot of the parameter data at
// first update. An error aborts the update and leaves the state
// uninitialized, so the next update retries.
type StateInit func(rule *UpdateRule, data *tensor.Array) error

// UpdateRule owns the per-parameter update state and dispatches the numeric
// kernel for one parameter. One rule is attached per parameter by the owning
// gradient method.
type UpdateRule struct {
	// Enabled gates all work: a disabled rule's Update is a silent no-op.
	Enabled bool

	hyperparam *Hyperparameter
	kernel     Kernel
	state      map[string]any
	stateInit  StateInit
	hooks      hookSet[UpdateHook]
	t          int
}

// NewUpdateRule creates an enabled rule around a kernel, with its own
// hyperparameter node chained to parent (typically the gradient method's).
func NewUpdateRule(kernel Kernel, parent *Hyperparameter) *UpdateRule {
	return &UpdateRule{
		Enabled:    true,
		hyperparam: NewHyperparameter(parent),
		kernel:     kernel,
	}
}

// Hyperparam returns the rule's hyperparameter node.
func (r *UpdateRule) Hyperparam() *Hyperparameter {
	return r.hyperparam
}

// T returns the number of updates this rule has applied.
func (r *UpdateRule) T() int {
	return r.t
}

// State returns the mutable state mapping. It is nil until the first enabled
// update initializes it.
func (r *UpdateRule) State() map[string]any {
	return r.state
}

// SetStateInit installs the lazy state initializer. It runs once, on the
// first enabled update, seeded with the parameter's data array.
func (r *UpdateRule) SetStateInit(init StateInit) {
	r.stateInit = init
}

// AddHook registers a per-parameter hook. An empty name falls back to the
// hook's own Name field; a hook with neither fails with ErrHookName. Name
// collisions fail with ErrHookExists.
func (r *UpdateRule) AddHook(hook UpdateHook, name string) error {
	if hook.Func == nil {
		return fmt.Errorf("%w: update hook has no callback", ErrHookNotCallable)
	}
	if name == "" {
		name = hook.Name
	}
	if name == "" {
		return ErrHookName
	}
	return r.hooks.add(name, hook)
}

// RemoveHook removes a hook by name, failing with ErrNoSuchHook when absent.
func (r *UpdateRule) RemoveHook(name string) error {
	return r.hooks.remove(name)
}

// Update applies one update step to the parameter.
//
// A disabled rule does nothing: no state init, no hooks, no kernel. Otherwise
// the rule (1) lazily initializes state on first use, (2) relocates every
// array-valued state entry to the parameter's current device (cross-device
// copy; scalar entries are untouched), (3) runs the registered hooks in
// insertion order as hook(rule, param), and (4) dispatches the numeric kernel
// for the parameter's device kind. Device and numeric errors propagate
// unchanged.
func (r *UpdateRule) Update(param *nn.Parameter) error {
	if !r.Enabled {
		return nil
	}

	if r.state == nil {
		r.state = map[string]any{}
		if r.stateInit != nil {
			if err := r.stateInit(r, param.Data()); err != nil {
				r.state = nil
				return err
			}
		}
	}

	if err := r.syncState(param.Device()); err != nil {
		return err
	}

	r.t++

	if err := r.hooks.each(func(h UpdateHook) error {
		return h.Func(r, param)
	}); err != nil {
		return err
	}

	if param.Device().IsHost() {
		return r.kernel.UpdateHost(r, param)
	}
	return r.kernel.UpdateAccel(r, param)
}

// syncState copies array-valued state entries to dev when their device
// differs. Works for host to accelerator, accelerator to host, and between
// two accelerator indices.
func (r *UpdateRule) syncState(dev tensor.Device) error {
	for key, value := range r.state {
		arr, ok := value.(*tensor.Array)
		if !ok || arr.Device() == dev {
			continue
		}
		moved, err := arr.CopyTo(dev)
		if err != nil {
			return fmt.Errorf("optim: state %q: %w", key, err)
		}
		r.state[key] = moved
	}
	return nil
}

// lossScale returns the gradient divisor for a parameter, defaulting to 1
// when no loss scale is set.
func lossScale(param *nn.Parameter) float64 {
	if s := param.LossScale(); s != 0 {
		return s
	}
	return 1
}
