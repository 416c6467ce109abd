package cublas

import "unsafe"

// Handle is a cuBLAS library context: the per-device session object that
// tracks configuration, including which stream library calls enqueue on.
type Handle struct {
	handle rawHandle
}

// NewHandle loads the library if needed and creates a library context.
func NewHandle() (*Handle, error) {
	if err := load(); err != nil {
		return nil, err
	}
	h := &Handle{}
	if err := libErr("cublasCreate_v2", cublasCreate(&h.handle)); err != nil {
		return nil, err
	}
	return h, nil
}

// SetStream associates the library context with a device stream; subsequent
// library calls on this handle enqueue their work there. The library
// defaults to an implementation-defined stream until this is called.
func (h *Handle) SetStream(stream uintptr) error {
	return libErr("cublasSetStream_v2", cublasSetStream(h.handle, stream))
}

// Version returns the library version.
func (h *Handle) Version() (int, error) {
	var v int32
	if err := libErr("cublasGetVersion_v2", cublasGetVersion(h.handle, &v)); err != nil {
		return 0, err
	}
	return int(v), nil
}

// Sgemm computes C = A @ B for row-major float32 matrices.
// A: [M, K], B: [K, N], C: [M, N]; all pointers are device memory.
//
// cuBLAS is column-major, so the call is phrased as C^T = B^T @ A^T by
// swapping the operand order and dimensions.
func (h *Handle) Sgemm(dst, a, b uintptr, m, k, n int) error {
	alpha := float32(1.0)
	beta := float32(0.0)
	status := cublasSgemm(
		h.handle,
		opN, opN,
		int32(n), int32(m), int32(k),
		unsafe.Pointer(&alpha),
		b, int32(n),
		a, int32(k),
		unsafe.Pointer(&beta),
		dst, int32(n),
	)
	return libErr("cublasSgemm_v2", status)
}

// Destroy releases the library context.
func (h *Handle) Destroy() {
	if h.handle != 0 {
		cublasDestroy(h.handle)
		h.handle = 0
	}
}
