package optim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

func newTestMethod(t *testing.T, paramCount int) (*GradientMethod, []*nn.Parameter, *countingKernel) {
	t.Helper()
	kernel := &countingKernel{}
	method := NewGradientMethod(func() *UpdateRule {
		return NewUpdateRule(kernel, nil)
	})
	params := make([]*nn.Parameter, paramCount)
	for i := range params {
		params[i] = newTestParam(t, "p", []float64{1, 2}, tensor.Float32)
	}
	method.Setup(stubModule{params: params})
	return method, params, kernel
}

func TestSetup_OneRulePerParameter(t *testing.T) {
	factoryCalls := 0
	method := NewGradientMethod(func() *UpdateRule {
		factoryCalls++
		return NewUpdateRule(&countingKernel{}, nil)
	})

	p1 := newTestParam(t, "a", []float64{1}, tensor.Float32)
	p2 := newTestParam(t, "b", []float64{2}, tensor.Float32)
	target := stubModule{params: []*nn.Parameter{p1, p2}}

	got := method.Setup(target)
	assert.Same(t, method, got)
	assert.Equal(t, 2, factoryCalls)

	r1, r2 := method.Rule(p1), method.Rule(p2)
	require.NotNil(t, r1)
	require.NotNil(t, r2)
	assert.NotSame(t, r1, r2)
}

func TestUpdate_BeforeSetup(t *testing.T) {
	method := NewGradientMethod(func() *UpdateRule {
		return NewUpdateRule(&countingKernel{}, nil)
	})
	assert.ErrorIs(t, method.Update(), ErrNotSetUp)
}

func TestUpdate_GlobalCounterIncrementsOnce(t *testing.T) {
	method, params, kernel := newTestMethod(t, 3)

	require.NoError(t, method.Update())
	require.NoError(t, method.Update())

	// One global increment per update, regardless of parameter count.
	assert.Equal(t, 2, method.T())
	assert.Equal(t, 6, kernel.hostCalls)
	for _, p := range params {
		assert.Equal(t, 2, method.Rule(p).T())
	}
}

func TestUpdate_SkipsParametersWithoutRules(t *testing.T) {
	kernel := &countingKernel{}
	method := NewGradientMethod(func() *UpdateRule {
		return NewUpdateRule(kernel, nil)
	})
	p1 := newTestParam(t, "a", []float64{1}, tensor.Float32)
	target := &stubModule{params: []*nn.Parameter{p1}}
	method.Setup(*target)

	// A parameter added after Setup has no rule and is skipped.
	p2 := newTestParam(t, "b", []float64{2}, tensor.Float32)
	grown := stubModule{params: []*nn.Parameter{p1, p2}}
	method.target = grown

	require.NoError(t, method.Update())
	assert.Equal(t, 1, kernel.hostCalls)
	assert.Nil(t, method.Rule(p2))
}

func TestNewEpoch(t *testing.T) {
	method, _, _ := newTestMethod(t, 1)
	assert.Zero(t, method.Epoch())
	method.NewEpoch()
	method.NewEpoch()
	assert.Equal(t, 2, method.Epoch())
}

func TestAddHook_Validation(t *testing.T) {
	method, _, _ := newTestMethod(t, 1)
	noop := func(*GradientMethod) error { return nil }

	unbound := NewGradientMethod(func() *UpdateRule {
		return NewUpdateRule(&countingKernel{}, nil)
	})
	assert.ErrorIs(t, unbound.AddHook(OptimizerHook{Func: noop}, "h"), ErrNotSetUp)

	// The callback must match the declared call shape.
	assert.ErrorIs(t, method.AddHook(OptimizerHook{}, "h"), ErrHookNotCallable)
	assert.ErrorIs(t, method.AddHook(OptimizerHook{CallForEachParam: true, Func: noop}, "h"), ErrHookNotCallable)

	require.NoError(t, method.AddHook(OptimizerHook{Func: noop}, "h"))
	assert.ErrorIs(t, method.AddHook(OptimizerHook{Func: noop}, "h"), ErrHookExists)

	assert.ErrorIs(t, method.AddHook(OptimizerHook{Func: noop}, ""), ErrHookName)
	require.NoError(t, method.AddHook(OptimizerHook{Name: "self", Func: noop}, ""))

	require.NoError(t, method.RemoveHook("h"))
	assert.ErrorIs(t, method.RemoveHook("h"), ErrNoSuchHook)
}

func TestCallHooks_TimingAndOrder(t *testing.T) {
	method, params, _ := newTestMethod(t, 2)
	var order []string

	require.NoError(t, method.AddHook(OptimizerHook{
		Func: func(*GradientMethod) error {
			order = append(order, "pre1")
			return nil
		},
	}, "pre1"))
	require.NoError(t, method.AddHook(OptimizerHook{
		Timing: PostUpdate,
		Func: func(*GradientMethod) error {
			order = append(order, "post")
			return nil
		},
	}, "post"))
	require.NoError(t, method.AddHook(OptimizerHook{
		CallForEachParam: true,
		ParamFunc: func(rule *UpdateRule, p *nn.Parameter) error {
			assert.Same(t, method.Rule(p), rule)
			order = append(order, "pre2")
			return nil
		},
	}, "pre2"))

	require.NoError(t, method.Update())

	// Pre hooks run in registration order; the per-parameter hook fires once
	// per parameter; the post hook runs after the update loop.
	want := []string{"pre1"}
	for range params {
		want = append(want, "pre2")
	}
	want = append(want, "post")
	assert.Equal(t, want, order)
}

func TestUpdate_HookErrorAborts(t *testing.T) {
	method, _, kernel := newTestMethod(t, 1)
	hookErr := errors.New("pre hook failed")
	require.NoError(t, method.AddHook(OptimizerHook{
		Func: func(*GradientMethod) error { return hookErr },
	}, "boom"))

	assert.ErrorIs(t, method.Update(), hookErr)
	assert.Zero(t, kernel.hostCalls)
	assert.Zero(t, method.T())
}

func TestUpdate_DisabledRuleSkipsParameter(t *testing.T) {
	method, params, kernel := newTestMethod(t, 2)
	method.Rule(params[0]).Enabled = false

	require.NoError(t, method.Update())
	assert.Equal(t, 1, kernel.hostCalls)
	assert.Zero(t, method.Rule(params[0]).T())
	assert.Equal(t, 1, method.Rule(params[1]).T())
	assert.Equal(t, 1, method.T())
}
