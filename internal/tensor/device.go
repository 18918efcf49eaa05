package tensor

import "fmt"

// DeviceKind identifies a class of compute device.
type DeviceKind int

// Supported device kinds.
const (
	CPU DeviceKind = iota
	WebGPU
)

// String returns a human-readable kind name.
func (k DeviceKind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case WebGPU:
		return "webgpu"
	default:
		return "unknown"
	}
}

// Device identifies a concrete memory space: a device kind plus an adapter
// index. The host is Device{CPU, 0}; accelerators of the same kind are
// distinguished by index, so moves between two adapters are expressible.
type Device struct {
	Kind  DeviceKind
	Index int
}

// Host is the CPU memory space.
var Host = Device{Kind: CPU}

// Accelerator returns the accelerator device with the given adapter index.
func Accelerator(index int) Device {
	return Device{Kind: WebGPU, Index: index}
}

// IsHost reports whether the device is the CPU.
func (d Device) IsHost() bool {
	return d.Kind == CPU
}

// String returns "cpu" or "webgpu:1".
func (d Device) String() string {
	if d.Kind == CPU {
		return "cpu"
	}
	return fmt.Sprintf("%s:%d", d.Kind, d.Index)
}
