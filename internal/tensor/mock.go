package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a host-memory stand-in for an accelerator backend.
// It serves the WebGPU device kind with buffers that actually live on the
// host, so device-transition semantics are testable without hardware.
// All kernels are implemented naively over float64 for correctness.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Kind returns the device kind the mock pretends to serve.
func (m *MockBackend) Kind() DeviceKind {
	return WebGPU
}

// mockBuffer is host memory masquerading as accelerator memory.
type mockBuffer struct {
	data []byte
	dev  Device
}

func (mb *mockBuffer) Download(dst []byte) error {
	copy(dst, mb.data)
	return nil
}

func (mb *mockBuffer) Upload(src []byte) error {
	copy(mb.data, src)
	return nil
}

func (mb *mockBuffer) Release() {
	mb.data = nil
}

// Alloc allocates a zeroed mock buffer tagged with the requested device.
func (m *MockBackend) Alloc(nbytes int, dev Device) (Buffer, error) {
	if dev.Kind != WebGPU {
		return nil, fmt.Errorf("mock: cannot allocate on %s", dev)
	}
	return &mockBuffer{data: make([]byte, nbytes), dev: dev}, nil
}

// SGDStep applies p -= lr * (g / scale).
func (m *MockBackend) SGDStep(p, g *Array, lr, scale float64) error {
	return m.inPlace2(p, g, func(pv, gv []float64) {
		for i := range pv {
			pv[i] -= lr * gv[i] / scale
		}
	})
}

// MomentumStep applies v = momentum*v - lr*(g/scale); p += v.
func (m *MockBackend) MomentumStep(p, g, v *Array, lr, momentum, scale float64) error {
	pv, err := p.Float64s()
	if err != nil {
		return err
	}
	gv, err := g.Float64s()
	if err != nil {
		return err
	}
	vv, err := v.Float64s()
	if err != nil {
		return err
	}
	for i := range pv {
		vv[i] = momentum*vv[i] - lr*gv[i]/scale
		pv[i] += vv[i]
	}
	if err := v.SetFloat64s(vv); err != nil {
		return err
	}
	return p.SetFloat64s(pv)
}

// AdamStep applies the bias-corrected Adam update for step t.
func (m *MockBackend) AdamStep(p, g, mArr, v *Array, alpha, beta1, beta2, eps, scale float64, t int) error {
	pv, err := p.Float64s()
	if err != nil {
		return err
	}
	gv, err := g.Float64s()
	if err != nil {
		return err
	}
	mv, err := mArr.Float64s()
	if err != nil {
		return err
	}
	vv, err := v.Float64s()
	if err != nil {
		return err
	}
	c1 := 1 - math.Pow(beta1, float64(t))
	c2 := 1 - math.Pow(beta2, float64(t))
	for i := range pv {
		grad := gv[i] / scale
		mv[i] = beta1*mv[i] + (1-beta1)*grad
		vv[i] = beta2*vv[i] + (1-beta2)*grad*grad
		mHat := mv[i] / c1
		vHat := vv[i] / c2
		pv[i] -= alpha * mHat / (math.Sqrt(vHat) + eps)
	}
	if err := mArr.SetFloat64s(mv); err != nil {
		return err
	}
	if err := v.SetFloat64s(vv); err != nil {
		return err
	}
	return p.SetFloat64s(pv)
}

// Zero fills x with zeros.
func (m *MockBackend) Zero(x *Array) error {
	return x.Write(make([]byte, x.ByteSize()))
}

// Scale applies x *= alpha.
func (m *MockBackend) Scale(x *Array, alpha float64) error {
	return m.inPlace1(x, func(xv []float64) {
		for i := range xv {
			xv[i] *= alpha
		}
	})
}

// Axpy applies y += alpha * x.
func (m *MockBackend) Axpy(y, x *Array, alpha float64) error {
	return m.inPlace2(y, x, func(yv, xv []float64) {
		for i := range yv {
			yv[i] += alpha * xv[i]
		}
	})
}

// SignAxpy applies y += alpha * sign(x).
func (m *MockBackend) SignAxpy(y, x *Array, alpha float64) error {
	return m.inPlace2(y, x, func(yv, xv []float64) {
		for i := range yv {
			switch {
			case xv[i] > 0:
				yv[i] += alpha
			case xv[i] < 0:
				yv[i] -= alpha
			}
		}
	})
}

// Clamp restricts every element of x to [lo, hi].
func (m *MockBackend) Clamp(x *Array, lo, hi float64) error {
	return m.inPlace1(x, func(xv []float64) {
		for i := range xv {
			xv[i] = math.Min(math.Max(xv[i], lo), hi)
		}
	})
}

// Norm returns the L2 norm of x.
func (m *MockBackend) Norm(x *Array) (float64, error) {
	xv, err := x.Float64s()
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, v := range xv {
		sum += v * v
	}
	return math.Sqrt(sum), nil
}

func (m *MockBackend) inPlace1(x *Array, op func([]float64)) error {
	xv, err := x.Float64s()
	if err != nil {
		return err
	}
	op(xv)
	return x.SetFloat64s(xv)
}

func (m *MockBackend) inPlace2(dst, src *Array, op func(dst, src []float64)) error {
	dv, err := dst.Float64s()
	if err != nil {
		return err
	}
	sv, err := src.Float64s()
	if err != nil {
		return err
	}
	op(dv, sv)
	return dst.SetFloat64s(dv)
}
