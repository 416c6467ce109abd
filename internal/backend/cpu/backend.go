// Package cpu implements the pure Go reference backend.
// All kernels walk strides directly, so broadcast (zero-stride) views are
// computed in place without materializing a packed copy first.
package cpu

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Backend implements tensor operations on the CPU.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (c *Backend) Device() tensor.Device {
	return c.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("add", a, b, addOp)
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("sub", a, b, subOp)
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("mul", a, b, mulOp)
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binary("div", a, b, divOp)
}

// Expand broadcasts the tensor to a new shape as a zero-copy view.
func (c *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	view, err := x.Expand(shape)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}
	return view
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Non-contiguous operands (including broadcast views) are packed first.
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: incompatible shapes: %v @ %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	ac := a.Contiguous()
	bc := b.Contiguous()

	result, err := tensor.NewRaw(tensor.Shape{aShape[0], bShape[1]}, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: %v", err))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	switch a.DType() {
	case tensor.Float32:
		matmulLoop(result.AsFloat32(), ac.AsFloat32(), bc.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulLoop(result.AsFloat64(), ac.AsFloat64(), bc.AsFloat64(), m, k, n)
	case tensor.Int32:
		matmulLoop(result.AsInt32(), ac.AsInt32(), bc.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulLoop(result.AsInt64(), ac.AsInt64(), bc.AsInt64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}
