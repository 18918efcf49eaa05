package cpu

import (
	"fmt"
	"math"

	"github.com/descent-ml/descent/internal/tensor"
)

// view exposes a host array as float64 element accessors, decoding and
// encoding half precision on the fly. All kernel arithmetic happens in
// float64 and narrows on store, which keeps the three float widths on one
// code path.
func view(a *tensor.Array) (get func(int) float64, set func(int, float64)) {
	switch a.DType() {
	case tensor.Float16:
		s := a.AsFloat16()
		get = func(i int) float64 { return float64(tensor.Float16ToFloat32(s[i])) }
		set = func(i int, v float64) { s[i] = tensor.Float16FromFloat32(float32(v)) }
	case tensor.Float32:
		s := a.AsFloat32()
		get = func(i int) float64 { return float64(s[i]) }
		set = func(i int, v float64) { s[i] = float32(v) }
	case tensor.Float64:
		s := a.AsFloat64()
		get = func(i int) float64 { return s[i] }
		set = func(i int, v float64) { s[i] = v }
	default:
		panic(fmt.Sprintf("cpu: unsupported dtype %s", a.DType()))
	}
	return get, set
}

func checkSameSize(arrays ...*tensor.Array) error {
	n := arrays[0].NumElements()
	for _, a := range arrays[1:] {
		if a.NumElements() != n {
			return fmt.Errorf("cpu: size mismatch: %s vs %s", arrays[0].Shape(), a.Shape())
		}
	}
	return nil
}

// SGDStep applies p -= lr * (g / scale).
func (b *Backend) SGDStep(p, g *tensor.Array, lr, scale float64) error {
	if err := checkSameSize(p, g); err != nil {
		return err
	}
	pGet, pSet := view(p)
	gGet, _ := view(g)
	for i := 0; i < p.NumElements(); i++ {
		pSet(i, pGet(i)-lr*gGet(i)/scale)
	}
	return nil
}

// MomentumStep applies v = momentum*v - lr*(g/scale); p += v.
func (b *Backend) MomentumStep(p, g, v *tensor.Array, lr, momentum, scale float64) error {
	if err := checkSameSize(p, g, v); err != nil {
		return err
	}
	pGet, pSet := view(p)
	gGet, _ := view(g)
	vGet, vSet := view(v)
	for i := 0; i < p.NumElements(); i++ {
		vel := momentum*vGet(i) - lr*gGet(i)/scale
		vSet(i, vel)
		pSet(i, pGet(i)+vel)
	}
	return nil
}

// AdamStep applies the bias-corrected Adam update for step t (1-based).
func (b *Backend) AdamStep(p, g, m, v *tensor.Array, alpha, beta1, beta2, eps, scale float64, t int) error {
	if err := checkSameSize(p, g, m, v); err != nil {
		return err
	}
	pGet, pSet := view(p)
	gGet, _ := view(g)
	mGet, mSet := view(m)
	vGet, vSet := view(v)
	c1 := 1 - math.Pow(beta1, float64(t))
	c2 := 1 - math.Pow(beta2, float64(t))
	for i := 0; i < p.NumElements(); i++ {
		grad := gGet(i) / scale
		m1 := beta1*mGet(i) + (1-beta1)*grad
		v1 := beta2*vGet(i) + (1-beta2)*grad*grad
		mSet(i, m1)
		vSet(i, v1)
		pSet(i, pGet(i)-alpha*(m1/c1)/(math.Sqrt(v1/c2)+eps))
	}
	return nil
}

// Zero fills x with zeros.
func (b *Backend) Zero(x *tensor.Array) error {
	return x.Write(make([]byte, x.ByteSize()))
}

// Scale applies x *= alpha.
func (b *Backend) Scale(x *tensor.Array, alpha float64) error {
	get, set := view(x)
	for i := 0; i < x.NumElements(); i++ {
		set(i, get(i)*alpha)
	}
	return nil
}

// Axpy applies y += alpha * x.
func (b *Backend) Axpy(y, x *tensor.Array, alpha float64) error {
	if err := checkSameSize(y, x); err != nil {
		return err
	}
	yGet, ySet := view(y)
	xGet, _ := view(x)
	for i := 0; i < y.NumElements(); i++ {
		ySet(i, yGet(i)+alpha*xGet(i))
	}
	return nil
}

// SignAxpy applies y += alpha * sign(x).
func (b *Backend) SignAxpy(y, x *tensor.Array, alpha float64) error {
	if err := checkSameSize(y, x); err != nil {
		return err
	}
	yGet, ySet := view(y)
	xGet, _ := view(x)
	for i := 0; i < y.NumElements(); i++ {
		switch xv := xGet(i); {
		case xv > 0:
			ySet(i, yGet(i)+alpha)
		case xv < 0:
			ySet(i, yGet(i)-alpha)
		}
	}
	return nil
}

// Clamp restricts every element of x to [lo, hi].
func (b *Backend) Clamp(x *tensor.Array, lo, hi float64) error {
	get, set := view(x)
	for i := 0; i < x.NumElements(); i++ {
		set(i, math.Min(math.Max(get(i), lo), hi))
	}
	return nil
}

// Norm returns the L2 norm of x.
func (b *Backend) Norm(x *tensor.Array) (float64, error) {
	get, _ := view(x)
	sum := 0.0
	for i := 0; i < x.NumElements(); i++ {
		v := get(i)
		sum += v * v
	}
	return math.Sqrt(sum), nil
}
