package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go reference backend, stride-aware
//   - backend/cuda: NVIDIA GPU via the CUDA driver API and cuBLAS
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Expand broadcasts the tensor to a larger shape.
	// Expanded dimensions are views (stride 0), not copies.
	Expand(x *RawTensor, shape Shape) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
