package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification,
// walking strides directly so broadcast views work without copies.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// Expand broadcasts the tensor to a new shape as a zero-copy view.
func (m *MockBackend) Expand(x *RawTensor, shape Shape) *RawTensor {
	view, err := x.Expand(shape)
	if err != nil {
		panic(err)
	}
	return view
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	av := m.Expand(a, outShape)
	bv := m.Expand(b, outShape)

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	n := outShape.NumElements()
	out := toFloat64(result)
	idx := make([]int, len(outShape))
	for i := 0; i < n; i++ {
		aOff, bOff := 0, 0
		for d, j := range idx {
			aOff += j * av.stride[d]
			bOff += j * bv.stride[d]
		}
		out[i] = op(elemFloat64(av, aOff), elemFloat64(bv, bOff))

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < outShape[d] {
				break
			}
			idx[d] = 0
		}
	}

	fromFloat64(out, result)
	return result
}

// MatMul performs naive 2D matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic("MatMul only supports 2D tensors in mock backend")
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("incompatible shapes for MatMul: %v @ %v", aShape, bShape))
	}

	ac := a.Contiguous()
	bc := b.Contiguous()

	M, K := aShape[0], aShape[1]
	N := bShape[1]

	result, err := NewRaw(Shape{M, N}, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := toFloat64(ac)
	bData := toFloat64(bc)
	out := toFloat64(result)

	for i := 0; i < M; i++ {
		for j := 0; j < N; j++ {
			sum := 0.0
			for k := 0; k < K; k++ {
				sum += aData[i*K+k] * bData[k*N+j]
			}
			out[i*N+j] = sum
		}
	}

	fromFloat64(out, result)
	return result
}

// elemFloat64 reads a single element at the given relative storage offset.
func elemFloat64(r *RawTensor, off int) float64 {
	switch r.dtype {
	case Float32:
		return float64(r.AsFloat32()[off])
	case Float64:
		return r.AsFloat64()[off]
	case Int32:
		return float64(r.AsInt32()[off])
	case Int64:
		return float64(r.AsInt64()[off])
	default:
		panic("unsupported dtype")
	}
}

// toFloat64 converts a contiguous tensor's data to []float64 for generic math.
func toFloat64(r *RawTensor) []float64 {
	n := r.NumElements()
	out := make([]float64, n)
	switch r.dtype {
	case Float32:
		for i, v := range r.AsFloat32()[:n] {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64()[:n])
	case Int32:
		for i, v := range r.AsInt32()[:n] {
			out[i] = float64(v)
		}
	case Int64:
		for i, v := range r.AsInt64()[:n] {
			out[i] = float64(v)
		}
	default:
		panic("unsupported dtype")
	}
	return out
}

// fromFloat64 writes []float64 values back into a contiguous tensor.
func fromFloat64(data []float64, r *RawTensor) {
	switch r.dtype {
	case Float32:
		dst := r.AsFloat32()
		for i, v := range data {
			dst[i] = float32(v)
		}
	case Float64:
		copy(r.AsFloat64(), data)
	case Int32:
		dst := r.AsInt32()
		for i, v := range data {
			dst[i] = int32(v)
		}
	case Int64:
		dst := r.AsInt64()
		for i, v := range data {
			dst[i] = int64(v)
		}
	default:
		panic("unsupported dtype")
	}
}
