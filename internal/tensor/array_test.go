package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	require.NoError(t, Shape{1}.Validate())
	assert.Error(t, Shape{}.Validate())
	assert.Error(t, Shape{2, -1}.Validate())
}

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 1, Shape{1, 1, 1}.NumElements())
	assert.Equal(t, 0, Shape{2, 0}.NumElements())
}

func TestDevice_String(t *testing.T) {
	assert.Equal(t, "cpu", Host.String())
	assert.Equal(t, "webgpu:0", Accelerator(0).String())
	assert.Equal(t, "webgpu:3", Accelerator(3).String())
}

func TestDevice_IsHost(t *testing.T) {
	assert.True(t, Host.IsHost())
	assert.False(t, Accelerator(0).IsHost())
}

func TestFloat16_Roundtrip(t *testing.T) {
	// Values exactly representable in half precision survive unchanged.
	for _, v := range []float32{0, 1, -1, 0.5, 2048, 65504, -65504, 6.103515625e-05} {
		bits := Float16FromFloat32(v)
		assert.Equal(t, v, Float16ToFloat32(bits), "value %v", v)
	}
}

func TestFloat16_Special(t *testing.T) {
	inf := float32(math.Inf(1))
	assert.Equal(t, inf, Float16ToFloat32(Float16FromFloat32(inf)))
	assert.Equal(t, -inf, Float16ToFloat32(Float16FromFloat32(-inf)))
	assert.True(t, math.IsNaN(float64(Float16ToFloat32(Float16FromFloat32(float32(math.NaN()))))))

	// Overflow saturates to infinity, underflow flushes toward zero.
	assert.Equal(t, inf, Float16ToFloat32(Float16FromFloat32(1e30)))
	assert.Equal(t, float32(0), Float16ToFloat32(Float16FromFloat32(1e-30)))
}

func TestFromFloat64_Narrowing(t *testing.T) {
	vals := []float64{1.5, -2.25, 3}

	for _, dtype := range []DataType{Float16, Float32, Float64} {
		a, err := FromFloat64(vals, Shape{3}, dtype)
		require.NoError(t, err)
		assert.Equal(t, dtype, a.DType())

		got, err := a.Float64s()
		require.NoError(t, err)
		assert.Equal(t, vals, got, "dtype %s", dtype)
	}
}

func TestFromFloat32_SizeMismatch(t *testing.T) {
	_, err := FromFloat32([]float32{1, 2}, Shape{3})
	assert.Error(t, err)
}

func TestNewArray_InvalidShape(t *testing.T) {
	_, err := NewArray(Shape{-2}, Float32, Host)
	assert.Error(t, err)
}

func TestArray_TypedAccessors(t *testing.T) {
	a, err := FromFloat32([]float32{1, 2, 3}, Shape{3})
	require.NoError(t, err)

	a.AsFloat32()[1] = 5
	got, err := a.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 5, 3}, got)

	assert.Panics(t, func() { a.AsFloat64() })
	assert.Panics(t, func() { a.AsFloat16() })
}

func TestArray_CopyToAcrossDevices(t *testing.T) {
	Register(NewMockBackend())

	host, err := FromFloat64([]float64{1, -2, 3.5}, Shape{3}, Float32)
	require.NoError(t, err)

	dev0, err := host.CopyTo(Accelerator(0))
	require.NoError(t, err)
	assert.Equal(t, Accelerator(0), dev0.Device())
	assert.Panics(t, func() { dev0.AsFloat32() })

	dev1, err := dev0.CopyTo(Accelerator(1))
	require.NoError(t, err)
	assert.Equal(t, Accelerator(1), dev1.Device())

	back, err := dev1.CopyTo(Host)
	require.NoError(t, err)
	assert.Equal(t, Host, back.Device())

	vals, err := back.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2, 3.5}, vals)

	// The source is untouched by the copies.
	vals, err = host.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2, 3.5}, vals)
}

func TestArray_WriteSizeMismatch(t *testing.T) {
	a, err := NewArray(Shape{4}, Float32, Host)
	require.NoError(t, err)
	assert.Error(t, a.Write(make([]byte, 3)))
}

func TestMockBackend_Kernels(t *testing.T) {
	m := NewMockBackend()
	Register(m)

	p, err := FromFloat64([]float64{1, 2}, Shape{2}, Float32)
	require.NoError(t, err)
	pd, err := p.CopyTo(Accelerator(0))
	require.NoError(t, err)
	g, err := FromFloat64([]float64{10, 20}, Shape{2}, Float32)
	require.NoError(t, err)
	gd, err := g.CopyTo(Accelerator(0))
	require.NoError(t, err)

	require.NoError(t, m.SGDStep(pd, gd, 0.1, 1))
	vals, err := pd.Float64s()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0}, vals, 1e-6)

	norm, err := m.Norm(gd)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(500), norm, 1e-6)
}
