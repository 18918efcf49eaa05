package optim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/descent-ml/descent/internal/nn"
	"github.com/descent-ml/descent/internal/tensor"
)

// stubModule is a fixed parameter list posing as a model.
type stubModule struct {
	params []*nn.Parameter
}

func (m stubModule) Parameters() []*nn.Parameter {
	return m.params
}

// newTestParam builds a host parameter with data and gradient set from the
// same values, in the given dtype.
func newTestParam(t *testing.T, name string, vals []float64, dtype tensor.DataType) *nn.Parameter {
	t.Helper()
	shape := tensor.Shape{len(vals)}
	data, err := tensor.FromFloat64(vals, shape, dtype)
	require.NoError(t, err)
	grad, err := tensor.FromFloat64(vals, shape, dtype)
	require.NoError(t, err)
	p := nn.NewParameter(name, data)
	p.SetGrad(grad)
	return p
}

// paramValues reads a parameter's data back as float64.
func paramValues(t *testing.T, p *nn.Parameter) []float64 {
	t.Helper()
	vals, err := p.Data().Float64s()
	require.NoError(t, err)
	return vals
}

// requireClose asserts elementwise |got-want| <= atol + rtol*|want|.
func requireClose(t *testing.T, want, got []float64, rtol, atol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		tol := atol + rtol*abs(want[i])
		require.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// countingKernel records host and accelerator dispatches.
type countingKernel struct {
	hostCalls  int
	accelCalls int
}

func (k *countingKernel) UpdateHost(rule *UpdateRule, param *nn.Parameter) error {
	k.hostCalls++
	return nil
}

func (k *countingKernel) UpdateAccel(rule *UpdateRule, param *nn.Parameter) error {
	k.accelCalls++
	return nil
}

// registerMock routes the accelerator device kind to host-backed mock
// memory for the duration of the test binary.
func registerMock() {
	tensor.Register(tensor.NewMockBackend())
}
