//go:build webgpu

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/descent-ml/descent/internal/tensor"
)

const workgroupSize = 256

// storageBuf extracts the device buffer behind an array, rejecting arrays
// that live in another backend's memory.
func storageBuf(a *tensor.Array) (*gpuBuffer, error) {
	gb, ok := a.Buffer().(*gpuBuffer)
	if !ok {
		return nil, fmt.Errorf("webgpu: array on %s is not backed by this device", a.Device())
	}
	return gb, nil
}

// checkFloat32 rejects dtypes the shaders cannot address. WGSL storage
// buffers carry f32; half and double precision stay on the host path.
func checkFloat32(arrays ...*tensor.Array) error {
	for _, a := range arrays {
		if a.DType() != tensor.Float32 {
			return fmt.Errorf("webgpu: kernels support float32 only, got %s", a.DType())
		}
	}
	return nil
}

func checkSameSize(arrays ...*tensor.Array) error {
	n := arrays[0].NumElements()
	for _, a := range arrays[1:] {
		if a.NumElements() != n {
			return fmt.Errorf("webgpu: size mismatch: %d vs %d elements", n, a.NumElements())
		}
	}
	return nil
}

// uniformArgs packs a u32 element count followed by f32 scalars, in the
// layout the shaders' Args blocks declare.
func uniformArgs(size int, scalars ...float32) []byte {
	data := make([]byte, 4+4*len(scalars))
	binary.LittleEndian.PutUint32(data[0:4], uint32(size)) //nolint:gosec // G115: integer overflow conversion int -> uint32
	for i, s := range scalars {
		binary.LittleEndian.PutUint32(data[4+4*i:8+4*i], math.Float32bits(s))
	}
	return data
}

// dispatch runs one compute pass over n elements: the arrays bind in order,
// the packed args follow as a uniform.
func (b *Backend) dispatch(name, shaderCode string, n int, args []byte, arrays ...*tensor.Array) error {
	if err := checkFloat32(arrays...); err != nil {
		return err
	}
	if err := checkSameSize(arrays...); err != nil {
		return err
	}

	shader := b.compileShader(name, shaderCode)
	pipeline := b.getOrCreatePipeline(name, shader)

	argsBuffer := b.createUniformBuffer(args)
	defer argsBuffer.Release()

	entries := make([]wgpu.BindGroupEntry, 0, len(arrays)+1)
	for i, a := range arrays {
		gb, err := storageBuf(a)
		if err != nil {
			return err
		}
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), gb.buf, 0, uint64(a.ByteSize()))) //nolint:gosec // G115: integer overflow conversion int -> uint32/uint64
	}
	alignedArgsSize := (uint64(len(args)) + 15) &^ 15
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(arrays)), argsBuffer, 0, alignedArgsSize)) //nolint:gosec // G115: integer overflow conversion int -> uint32

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	workgroups := uint32((n + workgroupSize - 1) / workgroupSize) //nolint:gosec // G115: integer overflow conversion int -> uint32
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
	return nil
}

// SGDStep applies p -= lr * g/scale.
func (b *Backend) SGDStep(p, g *tensor.Array, lr, scale float64) error {
	args := uniformArgs(p.NumElements(), float32(lr), float32(scale))
	return b.dispatch("sgd", sgdShader, p.NumElements(), args, p, g)
}

// MomentumStep applies v = momentum*v - lr*g/scale; p += v.
func (b *Backend) MomentumStep(p, g, v *tensor.Array, lr, momentum, scale float64) error {
	args := uniformArgs(p.NumElements(), float32(lr), float32(momentum), float32(scale))
	return b.dispatch("momentum", momentumShader, p.NumElements(), args, p, g, v)
}

// AdamStep applies one Adam update with bias correction folded into the step
// size on the host.
func (b *Backend) AdamStep(p, g, m, v *tensor.Array, alpha, beta1, beta2, eps, scale float64, t int) error {
	step := alpha * math.Sqrt(1-math.Pow(beta2, float64(t))) / (1 - math.Pow(beta1, float64(t)))
	args := uniformArgs(p.NumElements(),
		float32(beta1), float32(beta2), float32(eps), float32(step), float32(scale))
	return b.dispatch("adam", adamShader, p.NumElements(), args, p, g, m, v)
}

// Zero sets every element of x to zero.
func (b *Backend) Zero(x *tensor.Array) error {
	args := uniformArgs(x.NumElements())
	return b.dispatch("zero", zeroShader, x.NumElements(), args, x)
}

// Scale multiplies every element of x by alpha.
func (b *Backend) Scale(x *tensor.Array, alpha float64) error {
	args := uniformArgs(x.NumElements(), float32(alpha))
	return b.dispatch("scale", scaleShader, x.NumElements(), args, x)
}

// Axpy applies y += alpha * x.
func (b *Backend) Axpy(y, x *tensor.Array, alpha float64) error {
	args := uniformArgs(y.NumElements(), float32(alpha))
	return b.dispatch("axpy", axpyShader, y.NumElements(), args, y, x)
}

// SignAxpy applies y += alpha * sign(x).
func (b *Backend) SignAxpy(y, x *tensor.Array, alpha float64) error {
	args := uniformArgs(y.NumElements(), float32(alpha))
	return b.dispatch("sign_axpy", signAxpyShader, y.NumElements(), args, y, x)
}

// Clamp limits every element of x to [lo, hi].
func (b *Backend) Clamp(x *tensor.Array, lo, hi float64) error {
	args := uniformArgs(x.NumElements(), float32(lo), float32(hi))
	return b.dispatch("clamp", clampShader, x.NumElements(), args, x)
}

// Norm returns the L2 norm of x. The reduction runs on the host after a
// readback; optimizer norms are small and infrequent.
func (b *Backend) Norm(x *tensor.Array) (float64, error) {
	vals, err := x.Float64s()
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, v := range vals {
		sum += v * v
	}
	return math.Sqrt(sum), nil
}
