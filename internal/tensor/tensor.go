package tensor

import "fmt"

// Tensor is a generic tensor with type T and backend B.
// It provides type-safe operations over multi-dimensional arrays.
//
// Type Parameters:
//   - T: Data type (must satisfy DType constraint)
//   - B: Computation backend (must implement Backend interface)
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	result := t.Add(t) // Type-safe addition
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		return nil, err
	}

	t := New[T, B](raw, b)
	copy(storage[T](raw), data)

	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// Strides returns the tensor's memory strides, in elements.
func (t *Tensor[T, B]) Strides() []int {
	return t.raw.Strides()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns a typed slice of the tensor's elements in logical order.
// The slice directly accesses the underlying memory (zero-copy).
// Panics for non-contiguous views; call Contiguous() first.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor[T, B]) Data() []T {
	if !t.raw.IsContiguous() {
		panic("Data() requires a contiguous tensor, call Contiguous() first")
	}
	return storage[T](t.raw)[:t.raw.NumElements()]
}

// Item returns the scalar value of a 0-D tensor.
// Panics if the tensor is not a scalar.
func (t *Tensor[T, B]) Item() T {
	if len(t.Shape()) != 0 || t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for scalar tensors, got shape %v", t.Shape()))
	}
	return storage[T](t.raw)[0]
}

// At returns the element at the given indices.
// Works on any view, including broadcast (zero-stride) ones.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) At(indices ...int) T {
	off := t.raw.ElemOffset(indices...)
	return storage[T](t.raw)[off-t.raw.Offset()]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	off := t.raw.ElemOffset(indices...)
	storage[T](t.raw)[off-t.raw.Offset()] = value
}

// Expand returns a zero-copy broadcast view of the tensor.
// Expanded dimensions share memory with the receiver (stride 0).
//
// Example:
//
//	row, _ := tensor.FromSlice([]float32{1, 2, 3}, Shape{1, 3}, backend)
//	grid := row.Expand(Shape{4, 3}) // 4 aliased copies of the row
func (t *Tensor[T, B]) Expand(shape Shape) *Tensor[T, B] {
	return New[T, B](t.backend.Expand(t.raw, shape), t.backend)
}

// Contiguous returns a tensor with a densely packed row-major layout.
// If the receiver is already contiguous it is returned unchanged;
// otherwise the result owns a fresh copy of the data.
func (t *Tensor[T, B]) Contiguous() *Tensor[T, B] {
	raw := t.raw.Contiguous()
	if raw == t.raw {
		return t
	}
	return New[T, B](raw, t.backend)
}

// Clone creates a copy of the tensor sharing the underlying buffer.
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T, B](t.raw.Clone(), t.backend)
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.raw.DType(), t.raw.Shape(), t.raw.Device())
}
