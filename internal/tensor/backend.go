package tensor

import (
	"fmt"
	"sync"
)

// Buffer is a handle to device memory holding one array's payload.
type Buffer interface {
	// Download copies the buffer contents into dst (host memory).
	Download(dst []byte) error
	// Upload copies src (host memory) into the buffer.
	Upload(src []byte) error
	// Release frees the underlying device memory.
	Release()
}

// Backend executes allocation and optimizer arithmetic for one device kind.
//
// All kernels mutate their destination arrays in place and honor the loss
// scale divisor: gradients are divided by scale before use (scale is always
// >= 1 by the time a kernel sees it).
//
// Implementations:
//   - internal/backend/cpu: host execution, always available
//   - internal/backend/webgpu: WGSL compute shaders (build tag "webgpu")
//   - MockBackend: host-memory fake accelerator for tests
type Backend interface {
	// Name returns the backend name for diagnostics.
	Name() string
	// Kind returns the device kind this backend serves.
	Kind() DeviceKind
	// Alloc allocates a zeroed buffer of nbytes on the given device.
	Alloc(nbytes int, dev Device) (Buffer, error)

	// Fused optimizer kernels.

	// SGDStep applies p -= lr * (g / scale).
	SGDStep(p, g *Array, lr, scale float64) error
	// MomentumStep applies v = momentum*v - lr*(g/scale); p += v.
	MomentumStep(p, g, v *Array, lr, momentum, scale float64) error
	// AdamStep applies the bias-corrected Adam update for step t (1-based).
	AdamStep(p, g, m, v *Array, alpha, beta1, beta2, eps, scale float64, t int) error

	// Element-wise helpers used by gradient hooks.

	// Zero fills x with zeros.
	Zero(x *Array) error
	// Scale applies x *= alpha.
	Scale(x *Array, alpha float64) error
	// Axpy applies y += alpha * x.
	Axpy(y, x *Array, alpha float64) error
	// SignAxpy applies y += alpha * sign(x).
	SignAxpy(y, x *Array, alpha float64) error
	// Clamp restricts every element of x to [lo, hi].
	Clamp(x *Array, lo, hi float64) error
	// Norm returns the L2 norm of x.
	Norm(x *Array) (float64, error)
}

var (
	backendMu sync.RWMutex
	backends  = map[DeviceKind]Backend{}
)

// Register installs a backend for its device kind, replacing any previous
// registration. The host backend registers itself on import; accelerator
// backends register from their package init or test setup.
func Register(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backends[b.Kind()] = b
}

// BackendFor returns the backend registered for the given device kind.
func BackendFor(kind DeviceKind) (Backend, error) {
	backendMu.RLock()
	defer backendMu.RUnlock()
	b, ok := backends[kind]
	if !ok {
		return nil, fmt.Errorf("tensor: no backend registered for device kind %q", kind)
	}
	return b, nil
}
