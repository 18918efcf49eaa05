package optim

import (
	"errors"
	"fmt"

	"github.com/descent-ml/descent/internal/nn"
)

// Hook-registry failure taxonomy. All failures are synchronous and leave the
// registry unmodified.
var (
	// ErrHookExists is returned when a hook name collides with an existing
	// registration.
	ErrHookExists = errors.New("optim: hook already exists")
	// ErrNoSuchHook is returned when removing a name that is not registered.
	ErrNoSuchHook = errors.New("optim: no such hook")
	// ErrHookName is returned when no hook name was given and none can be
	// derived from the hook itself.
	ErrHookName = errors.New("optim: hook name cannot be derived")
	// ErrHookNotCallable is returned when a hook carries no callback matching
	// its declared call shape.
	ErrHookNotCallable = errors.New("optim: hook is not callable")
	// ErrNotSetUp is returned when hooks are registered or updates requested
	// before Setup bound a target.
	ErrNotSetUp = errors.New("optim: optimizer is not set up")
)

// Timing tags when a hook runs relative to the parameter updates.
type Timing string

// Supported hook timings. Both are preserved in the interface; concrete
// gradient methods run pre hooks before and post hooks after the update loop.
const (
	PreUpdate  Timing = "pre"
	PostUpdate Timing = "post"
)

// OptimizerHook is a named, timing-tagged callback registered on a gradient
// method. CallForEachParam selects the call shape: false invokes Func once
// per update with the optimizer, true invokes ParamFunc once per target
// parameter with that parameter's update rule.
type OptimizerHook struct {
	Name             string
	Timing           Timing
	CallForEachParam bool
	Func             func(*GradientMethod) error
	ParamFunc        func(*UpdateRule, *nn.Parameter) error
}

// UpdateHook is a named callback registered on a single update rule, invoked
// with (rule, parameter) on every enabled update, before the numeric kernel.
type UpdateHook struct {
	Name string
	Func func(*UpdateRule, *nn.Parameter) error
}

// hookSet is an ordered, name-keyed hook registry. Insertion order defines
// invocation order.
type hookSet[H any] struct {
	names  []string
	byName map[string]H
}

func (s *hookSet[H]) add(name string, hook H) error {
	if s.byName == nil {
		s.byName = map[string]H{}
	}
	if _, ok := s.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrHookExists, name)
	}
	s.names = append(s.names, name)
	s.byName[name] = hook
	return nil
}

func (s *hookSet[H]) remove(name string) error {
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchHook, name)
	}
	delete(s.byName, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return nil
}

func (s *hookSet[H]) each(fn func(H) error) error {
	for _, name := range s.names {
		if err := fn(s.byName[name]); err != nil {
			return err
		}
	}
	return nil
}
