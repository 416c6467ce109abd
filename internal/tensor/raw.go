package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted shared buffer.
// Views produced by Expand share the buffer of their source tensor.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone and view operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and drops the data if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the low-level tensor representation: a view over a
// reference-counted buffer described by shape, per-dimension strides
// and an element offset.
//
// A stride of 0 in a dimension means the dimension is a broadcast view:
// every index along it aliases the same memory. Such views are produced
// by Expand and materialized by Contiguous.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Tensor dimensions
	stride []int         // Memory strides in elements (0 = broadcast dimension)
	dtype  DataType      // Runtime type information
	device Device        // Compute device
	offset int           // Element offset into the buffer (for views)
}

// NewRaw creates a new densely packed RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	numElements := shape.NumElements()
	byteSize := numElements * dtype.Size()

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides, in elements.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the element offset of this view into the shared buffer.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of logical elements.
// For broadcast views this can exceed the number of stored elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the logical memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// IsContiguous reports whether the view is a dense row-major layout
// starting at the beginning of its buffer.
func (r *RawTensor) IsContiguous() bool {
	if r.offset != 0 {
		return false
	}
	dense := r.shape.ComputeStrides()
	for i, s := range r.stride {
		if s != dense[i] {
			return false
		}
	}
	return true
}

// Expand returns a zero-copy broadcast view of the tensor with the given shape.
//
// newShape must have at least as many dimensions as the tensor. Aligning from
// the right, every existing dimension must either equal the target size or be
// 1; size-1 dimensions (and newly added leading dimensions) are broadcast by
// setting their stride to 0. The view shares the receiver's buffer.
func (r *RawTensor) Expand(newShape Shape) (*RawTensor, error) {
	if err := newShape.Validate(); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}
	if len(newShape) < len(r.shape) {
		return nil, fmt.Errorf("expand: new shape %v has fewer dimensions than %v", newShape, r.shape)
	}

	pad := len(newShape) - len(r.shape)
	stride := make([]int, len(newShape))
	for i := range newShape {
		if i < pad {
			stride[i] = 0
			continue
		}
		dim := r.shape[i-pad]
		switch {
		case dim == newShape[i]:
			stride[i] = r.stride[i-pad]
		case dim == 1:
			stride[i] = 0
		default:
			return nil, fmt.Errorf("expand: cannot expand dimension %d from %d to %d", i-pad, dim, newShape[i])
		}
	}

	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  newShape.Clone(),
		stride: stride,
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}, nil
}

// Contiguous returns a densely packed row-major tensor with the same shape
// and element values.
//
// If the view is already contiguous the receiver is returned unchanged (no
// copy, shared ownership as before). Otherwise a fresh buffer is allocated
// and exclusively owned by the result; broadcast (zero-stride) dimensions
// are materialized.
func (r *RawTensor) Contiguous() *RawTensor {
	if r.IsContiguous() {
		return r
	}

	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("contiguous: %v", err))
	}

	n := r.shape.NumElements()
	if n == 0 {
		return out
	}

	es := r.dtype.Size()
	src := r.buffer.data
	dst := out.buffer.data
	idx := make([]int, len(r.shape))
	for i := 0; i < n; i++ {
		off := r.offset
		for d, j := range idx {
			off += j * r.stride[d]
		}
		copy(dst[i*es:(i+1)*es], src[off*es:(off+1)*es])

		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < r.shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}

// ElemOffset computes the storage offset, in elements, of the given indices.
// Panics if the number of indices does not match the number of dimensions or
// an index is out of bounds.
func (r *RawTensor) ElemOffset(indices ...int) int {
	if len(indices) != len(r.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(r.shape), len(indices)))
	}
	off := r.offset
	for i, idx := range indices {
		if idx < 0 || idx >= r.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, r.shape[i]))
		}
		off += idx * r.stride[i]
	}
	return off
}

// Data returns the raw byte slice of the view's storage, starting at the
// view offset.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data[r.offset*r.dtype.Size():]
}

// storage reinterprets the tensor's buffer as []T, starting at the view
// offset. For contiguous tensors the slice holds NumElements() values in
// logical order; for views it is storage-order data to be indexed with
// Strides() and ElemOffset().
func storage[T DType](r *RawTensor) []T {
	if len(r.buffer.data) == 0 {
		return nil
	}
	var zero T
	total := len(r.buffer.data) / int(unsafe.Sizeof(zero))
	//nolint:gosec // zero-copy reinterpretation, length derived from the buffer itself
	s := unsafe.Slice((*T)(unsafe.Pointer(&r.buffer.data[0])), total)
	return s[r.offset:]
}

// AsFloat32 interprets the storage as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return storage[float32](r)
}

// AsFloat64 interprets the storage as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return storage[float64](r)
}

// AsInt32 interprets the storage as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	return storage[int32](r)
}

// AsInt64 interprets the storage as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	return storage[int64](r)
}

// Clone creates a shallow copy of the RawTensor sharing the same buffer via
// reference counting.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}
}

// SharesBufferWith reports whether two tensors alias the same storage.
func (r *RawTensor) SharesBufferWith(other *RawTensor) bool {
	return r.buffer == other.buffer
}

// Release decrements the reference count and deallocates if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to its buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// String returns a short description of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
