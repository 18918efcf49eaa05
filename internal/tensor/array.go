package tensor

import (
	"fmt"
	"unsafe"
)

// hostBuffer is plain host memory. Host allocation is built into the package
// so arrays can be created without any backend registered.
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

// Array is a device-tagged numeric array. The payload lives wherever the
// device says it does; host access goes through the typed accessors, device
// access goes through the backend registry.
type Array struct {
	buf    Buffer
	shape  Shape
	dtype  DataType
	device Device
}

// NewArray allocates a zeroed array on the given device.
func NewArray(shape Shape, dtype DataType, dev Device) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	nbytes := shape.NumElements() * dtype.Size()

	var buf Buffer
	if dev.IsHost() {
		buf = &hostBuffer{data: make([]byte, nbytes)}
	} else {
		b, err := BackendFor(dev.Kind)
		if err != nil {
			return nil, err
		}
		allocated, err := b.Alloc(nbytes, dev)
		if err != nil {
			return nil, fmt.Errorf("alloc on %s: %w", dev, err)
		}
		buf = allocated
	}

	return &Array{buf: buf, shape: shape.Clone(), dtype: dtype, device: dev}, nil
}

// FromFloat32 creates a host array from a float32 slice.
func FromFloat32(vals []float32, shape Shape) (*Array, error) {
	if len(vals) != shape.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %s", len(vals), shape)
	}
	a, err := NewArray(shape, Float32, Host)
	if err != nil {
		return nil, err
	}
	copy(a.AsFloat32(), vals)
	return a, nil
}

// FromFloat64 creates a host array of the given dtype from float64 values,
// narrowing as needed.
func FromFloat64(vals []float64, shape Shape, dtype DataType) (*Array, error) {
	if len(vals) != shape.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %s", len(vals), shape)
	}
	a, err := NewArray(shape, dtype, Host)
	if err != nil {
		return nil, err
	}
	a.SetFloat64s(vals)
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's data type.
func (a *Array) DType() DataType {
	return a.dtype
}

// Device returns the memory space holding the payload.
func (a *Array) Device() Device {
	return a.device
}

// NumElements returns the total number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// ByteSize returns the payload size in bytes.
func (a *Array) ByteSize() int {
	return a.NumElements() * a.dtype.Size()
}

// Buffer returns the underlying device buffer.
func (a *Array) Buffer() Buffer {
	return a.buf
}

// Read downloads the payload into a fresh host byte slice.
func (a *Array) Read() ([]byte, error) {
	dst := make([]byte, a.ByteSize())
	if err := a.buf.Download(dst); err != nil {
		return nil, fmt.Errorf("download from %s: %w", a.device, err)
	}
	return dst, nil
}

// Write uploads host bytes into the payload.
func (a *Array) Write(src []byte) error {
	if len(src) != a.ByteSize() {
		return fmt.Errorf("got %d bytes for array of %d bytes", len(src), a.ByteSize())
	}
	if err := a.buf.Upload(src); err != nil {
		return fmt.Errorf("upload to %s: %w", a.device, err)
	}
	return nil
}

// CopyTo returns a copy of the array on the target device. The receiver is
// left untouched; transitions between two accelerators stage through host
// memory.
func (a *Array) CopyTo(dev Device) (*Array, error) {
	dst, err := NewArray(a.shape, a.dtype, dev)
	if err != nil {
		return nil, err
	}
	staging, err := a.Read()
	if err != nil {
		return nil, err
	}
	if err := dst.Write(staging); err != nil {
		return nil, err
	}
	return dst, nil
}

// hostData returns the host byte slice, panicking when the payload is not
// resident on the host. Mirrors the typed-accessor contract: device arrays
// must be downloaded or dispatched through a backend.
func (a *Array) hostData() []byte {
	hb, ok := a.buf.(*hostBuffer)
	if !ok {
		panic(fmt.Sprintf("array is on %s, not host memory", a.device))
	}
	return hb.data
}

// AsFloat32 interprets the host payload as []float32.
// Panics if the dtype is not Float32 or the array is not on the host.
func (a *Array) AsFloat32() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	data := a.hostData()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsFloat64 interprets the host payload as []float64.
// Panics if the dtype is not Float64 or the array is not on the host.
func (a *Array) AsFloat64() []float64 {
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	data := a.hostData()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsFloat16 interprets the host payload as raw half-precision bits.
// Panics if the dtype is not Float16 or the array is not on the host.
func (a *Array) AsFloat16() []uint16 {
	if a.dtype != Float16 {
		panic(fmt.Sprintf("array dtype is %s, not float16", a.dtype))
	}
	data := a.hostData()
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), a.NumElements())
}

// Float64s downloads and decodes the payload to float64, regardless of
// device or dtype.
func (a *Array) Float64s() ([]float64, error) {
	raw, err := a.Read()
	if err != nil {
		return nil, err
	}
	return decodeFloat64s(raw, a.dtype, a.NumElements()), nil
}

// SetFloat64s encodes float64 values into the array's dtype and uploads them.
func (a *Array) SetFloat64s(vals []float64) error {
	if len(vals) != a.NumElements() {
		return fmt.Errorf("got %d values for array of %d elements", len(vals), a.NumElements())
	}
	return a.Write(encodeFloat64s(vals, a.dtype))
}

func decodeFloat64s(raw []byte, dtype DataType, n int) []float64 {
	out := make([]float64, n)
	switch dtype {
	case Float16:
		src := unsafe.Slice((*uint16)(unsafe.Pointer(&raw[0])), n)
		for i, v := range src {
			out[i] = float64(Float16ToFloat32(v))
		}
	case Float32:
		src := unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), n)
		for i, v := range src {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n))
	}
	return out
}

func encodeFloat64s(vals []float64, dtype DataType) []byte {
	raw := make([]byte, len(vals)*dtype.Size())
	if len(vals) == 0 {
		return raw
	}
	switch dtype {
	case Float16:
		dst := unsafe.Slice((*uint16)(unsafe.Pointer(&raw[0])), len(vals))
		for i, v := range vals {
			dst[i] = Float16FromFloat32(float32(v))
		}
	case Float32:
		dst := unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), len(vals))
		for i, v := range vals {
			dst[i] = float32(v)
		}
	case Float64:
		copy(unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), len(vals)), vals)
	}
	return raw
}
