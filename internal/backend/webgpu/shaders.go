//go:build webgpu

package webgpu

// WGSL compute shaders for the optimizer kernels. Every kernel operates on
// flat f32 arrays; scalar arguments arrive through a uniform block whose
// first member is the element count.

const sgdShader = `
struct Args {
    size: u32,
    lr: f32,
    scale: f32,
}

@group(0) @binding(0) var<storage, read_write> param: array<f32>;
@group(0) @binding(1) var<storage, read> grad: array<f32>;
@group(0) @binding(2) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        param[idx] = param[idx] - args.lr * grad[idx] / args.scale;
    }
}
`

const momentumShader = `
struct Args {
    size: u32,
    lr: f32,
    momentum: f32,
    scale: f32,
}

@group(0) @binding(0) var<storage, read_write> param: array<f32>;
@group(0) @binding(1) var<storage, read> grad: array<f32>;
@group(0) @binding(2) var<storage, read_write> vel: array<f32>;
@group(0) @binding(3) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        let v = args.momentum * vel[idx] - args.lr * grad[idx] / args.scale;
        vel[idx] = v;
        param[idx] = param[idx] + v;
    }
}
`

// adamShader applies one Adam step. The host precomputes the bias-corrected
// step size c1 = alpha * sqrt(1-beta2^t) / (1-beta1^t) so the shader stays
// branch-free.
const adamShader = `
struct Args {
    size: u32,
    beta1: f32,
    beta2: f32,
    eps: f32,
    step: f32,
    scale: f32,
}

@group(0) @binding(0) var<storage, read_write> param: array<f32>;
@group(0) @binding(1) var<storage, read> grad: array<f32>;
@group(0) @binding(2) var<storage, read_write> m: array<f32>;
@group(0) @binding(3) var<storage, read_write> v: array<f32>;
@group(0) @binding(4) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        let g = grad[idx] / args.scale;
        let mi = args.beta1 * m[idx] + (1.0 - args.beta1) * g;
        let vi = args.beta2 * v[idx] + (1.0 - args.beta2) * g * g;
        m[idx] = mi;
        v[idx] = vi;
        param[idx] = param[idx] - args.step * mi / (sqrt(vi) + args.eps);
    }
}
`

const scaleShader = `
struct Args {
    size: u32,
    alpha: f32,
}

@group(0) @binding(0) var<storage, read_write> x: array<f32>;
@group(0) @binding(1) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        x[idx] = x[idx] * args.alpha;
    }
}
`

const axpyShader = `
struct Args {
    size: u32,
    alpha: f32,
}

@group(0) @binding(0) var<storage, read_write> y: array<f32>;
@group(0) @binding(1) var<storage, read> x: array<f32>;
@group(0) @binding(2) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        y[idx] = y[idx] + args.alpha * x[idx];
    }
}
`

const signAxpyShader = `
struct Args {
    size: u32,
    alpha: f32,
}

@group(0) @binding(0) var<storage, read_write> y: array<f32>;
@group(0) @binding(1) var<storage, read> x: array<f32>;
@group(0) @binding(2) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        y[idx] = y[idx] + args.alpha * sign(x[idx]);
    }
}
`

const clampShader = `
struct Args {
    size: u32,
    lo: f32,
    hi: f32,
}

@group(0) @binding(0) var<storage, read_write> x: array<f32>;
@group(0) @binding(1) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        x[idx] = clamp(x[idx], args.lo, args.hi);
    }
}
`

const zeroShader = `
struct Args {
    size: u32,
}

@group(0) @binding(0) var<storage, read_write> x: array<f32>;
@group(0) @binding(1) var<uniform> args: Args;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let idx = gid.x;
    if (idx < args.size) {
        x[idx] = 0.0;
    }
}
`
