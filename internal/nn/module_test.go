package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/descent-ml/descent/internal/backend/cpu"
	"github.com/descent-ml/descent/internal/tensor"
)

func newParam(t *testing.T, name string, vals []float64) *Parameter {
	t.Helper()
	data, err := tensor.FromFloat64(vals, tensor.Shape{len(vals)}, tensor.Float32)
	require.NoError(t, err)
	return NewParameter(name, data)
}

func TestLinear_ParameterOrder(t *testing.T) {
	l, err := NewLinear(3, 2)
	require.NoError(t, err)

	params := l.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
	assert.True(t, tensor.Shape{2, 3}.Equal(params[0].Data().Shape()))
	assert.True(t, tensor.Shape{2}.Equal(params[1].Data().Shape()))
}

func TestChain_EnumerationOrder(t *testing.T) {
	l1, err := NewLinear(4, 3)
	require.NoError(t, err)
	l2, err := NewLinear(3, 2)
	require.NoError(t, err)

	c := NewChain(l1)
	c.Add(l2)
	require.Equal(t, 2, c.Len())
	assert.Same(t, Module(l1), c.Child(0))

	params := c.Parameters()
	require.Len(t, params, 4)
	assert.Same(t, l1.Weight, params[0])
	assert.Same(t, l1.Bias, params[1])
	assert.Same(t, l2.Weight, params[2])
	assert.Same(t, l2.Bias, params[3])
}

func TestParameter_ToDevice(t *testing.T) {
	tensor.Register(tensor.NewMockBackend())

	p := newParam(t, "x", []float64{1, 2})
	grad, err := tensor.FromFloat64([]float64{3, 4}, tensor.Shape{2}, tensor.Float32)
	require.NoError(t, err)
	p.SetGrad(grad)

	require.NoError(t, p.ToDevice(tensor.Accelerator(0)))
	assert.Equal(t, tensor.Accelerator(0), p.Device())
	assert.Equal(t, tensor.Accelerator(0), p.Grad().Device())

	require.NoError(t, p.ToHost())
	assert.Equal(t, tensor.Host, p.Device())

	vals, err := p.Data().Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, vals)
	vals, err = p.Grad().Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, vals)
}

func TestParameter_ToDeviceSameDeviceNoOp(t *testing.T) {
	p := newParam(t, "x", []float64{1})
	data := p.Data()
	require.NoError(t, p.ToDevice(tensor.Host))
	assert.Same(t, data, p.Data())
}

func TestParameter_Grad(t *testing.T) {
	p := newParam(t, "x", []float64{1, 2})
	assert.Nil(t, p.Grad())

	grad, err := tensor.FromFloat64([]float64{3, 4}, tensor.Shape{2}, tensor.Float32)
	require.NoError(t, err)
	p.SetGrad(grad)

	require.NoError(t, p.ZeroGrad())
	vals, err := p.Grad().Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, vals)

	p.ClearGrad()
	assert.Nil(t, p.Grad())
	require.NoError(t, p.ZeroGrad())
}

func TestParameter_LossScale(t *testing.T) {
	p := newParam(t, "x", []float64{1})
	assert.Equal(t, 0.0, p.LossScale())
	p.SetLossScale(16)
	assert.Equal(t, 16.0, p.LossScale())
}

func TestChain_ToDevice(t *testing.T) {
	tensor.Register(tensor.NewMockBackend())

	l, err := NewLinear(2, 2)
	require.NoError(t, err)
	c := NewChain(l)

	require.NoError(t, c.ToDevice(tensor.Accelerator(1)))
	for _, p := range c.Parameters() {
		assert.Equal(t, tensor.Accelerator(1), p.Device())
	}
}
