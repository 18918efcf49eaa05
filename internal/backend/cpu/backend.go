// Package cpu implements the host execution backend for the Descent
// optimizer engine. It registers itself on import and operates directly on
// host-resident array payloads through the typed accessors.
package cpu

import (
	"fmt"

	"github.com/descent-ml/descent/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

func init() {
	tensor.Register(New())
}

// Backend executes optimizer kernels on the host.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// Kind returns the device kind this backend serves.
func (b *Backend) Kind() tensor.DeviceKind {
	return tensor.CPU
}

// hostBuffer is plain host memory.
type hostBuffer struct {
	data []byte
}

func (hb *hostBuffer) Download(dst []byte) error {
	copy(dst, hb.data)
	return nil
}

func (hb *hostBuffer) Upload(src []byte) error {
	copy(hb.data, src)
	return nil
}

func (hb *hostBuffer) Release() {
	hb.data = nil
}

// Alloc allocates zeroed host memory.
func (b *Backend) Alloc(nbytes int, dev tensor.Device) (tensor.Buffer, error) {
	if !dev.IsHost() {
		return nil, fmt.Errorf("cpu: cannot allocate on %s", dev)
	}
	return &hostBuffer{data: make([]byte, nbytes)}, nil
}
