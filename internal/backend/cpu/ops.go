package cpu

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// number covers the element types the CPU kernels operate on.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// op selects the arithmetic applied by the generic binary kernel.
type op int

const (
	addOp op = iota
	subOp
	mulOp
	divOp
)

// binary performs an element-wise operation with broadcasting.
// Both operands are expanded to the output shape as views; the kernel then
// walks their strides, so zero-stride dimensions read the same memory
// repeatedly instead of forcing a copy.
func (c *Backend) binary(name string, a, b *tensor.RawTensor, o op) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	av, err := a.Expand(outShape)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	bv, err := b.Expand(outShape)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		binaryLoop(result.AsFloat32(), av.AsFloat32(), bv.AsFloat32(), outShape, av.Strides(), bv.Strides(), o)
	case tensor.Float64:
		binaryLoop(result.AsFloat64(), av.AsFloat64(), bv.AsFloat64(), outShape, av.Strides(), bv.Strides(), o)
	case tensor.Int32:
		binaryLoop(result.AsInt32(), av.AsInt32(), bv.AsInt32(), outShape, av.Strides(), bv.Strides(), o)
	case tensor.Int64:
		binaryLoop(result.AsInt64(), av.AsInt64(), bv.AsInt64(), outShape, av.Strides(), bv.Strides(), o)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// binaryLoop writes dst[i] = a(idx) <op> b(idx) for every logical index,
// resolving each operand's storage offset through its strides.
func binaryLoop[T number](dst, aData, bData []T, shape tensor.Shape, aStride, bStride []int, o op) {
	n := shape.NumElements()
	if n == 0 {
		return
	}

	idx := make([]int, len(shape))
	for i := 0; i < n; i++ {
		aOff, bOff := 0, 0
		for d, j := range idx {
			aOff += j * aStride[d]
			bOff += j * bStride[d]
		}

		x, y := aData[aOff], bData[bOff]
		switch o {
		case addOp:
			dst[i] = x + y
		case subOp:
			dst[i] = x - y
		case mulOp:
			dst[i] = x * y
		case divOp:
			dst[i] = x / y
		}

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
}

// matmulLoop computes the dense row-major product C = A @ B.
func matmulLoop[T number](dst, aData, bData []T, m, k, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for l := 0; l < k; l++ {
				sum += aData[i*k+l] * bData[l*n+j]
			}
			dst[i*n+j] = sum
		}
	}
}
