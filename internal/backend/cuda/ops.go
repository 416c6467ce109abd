package cuda

import (
	"fmt"

	"github.com/ember-ml/ember/internal/cuda"
	"github.com/ember-ml/ember/internal/tensor"
)

// MatMul performs 2D matrix multiplication on the device:
// (M, K) @ (K, N) -> (M, N), float32 only.
//
// Operand staging: the library handle is rebound to the current stream,
// zero-stride broadcast views are materialized (the library rejects them),
// then operands are copied to device memory for the library call and the
// result is copied back.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.matMul(x, y)
	if err != nil {
		panic("cuda: MatMul: " + err.Error())
	}
	return result
}

func (b *Backend) matMul(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	xShape := x.Shape()
	yShape := y.Shape()

	if len(xShape) != 2 || len(yShape) != 2 {
		return nil, fmt.Errorf("expected 2D tensors, got %v @ %v", xShape, yShape)
	}
	if xShape[1] != yShape[0] {
		return nil, fmt.Errorf("incompatible shapes: %v @ %v", xShape, yShape)
	}
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		return nil, fmt.Errorf("only float32 is supported, got %s @ %s", x.DType(), y.DType())
	}

	if err := b.ensureInit(); err != nil {
		return nil, err
	}
	if err := b.BindCurrentStream(); err != nil {
		return nil, err
	}

	xc := ContiguousIfZeroStride(x)
	yc := ContiguousIfZeroStride(y)

	m, k, n := xShape[0], xShape[1], yShape[1]

	result, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32, tensor.CUDA)
	if err != nil {
		return nil, err
	}

	dX, err := cuda.MemAlloc(xc.ByteSize())
	if err != nil {
		return nil, err
	}
	defer dX.Free()
	dY, err := cuda.MemAlloc(yc.ByteSize())
	if err != nil {
		return nil, err
	}
	defer dY.Free()
	dOut, err := cuda.MemAlloc(result.ByteSize())
	if err != nil {
		return nil, err
	}
	defer dOut.Free()

	if err := dX.CopyFromHost(xc.Data()[:xc.ByteSize()]); err != nil {
		return nil, err
	}
	if err := dY.CopyFromHost(yc.Data()[:yc.ByteSize()]); err != nil {
		return nil, err
	}

	if err := b.lib.Sgemm(dOut.Ptr(), dX.Ptr(), dY.Ptr(), m, k, n); err != nil {
		return nil, err
	}
	if err := b.runtime.CurrentStream().Synchronize(); err != nil {
		return nil, err
	}

	if err := dOut.CopyToHost(result.Data()[:result.ByteSize()]); err != nil {
		return nil, err
	}
	return result, nil
}
