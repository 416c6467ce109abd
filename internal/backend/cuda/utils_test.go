package cuda

import (
	"errors"
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
	"github.com/ember-ml/ember/internal/cublas"
	"github.com/ember-ml/ember/internal/cuda"
	"github.com/ember-ml/ember/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLib simulates the math library without touching a device.
type fakeLib struct {
	setStreamErr error
	boundStreams []uintptr
	sgemmCalls   int
}

func (f *fakeLib) SetStream(stream uintptr) error {
	if f.setStreamErr != nil {
		return f.setStreamErr
	}
	f.boundStreams = append(f.boundStreams, stream)
	return nil
}

func (f *fakeLib) Sgemm(dst, a, b uintptr, m, k, n int) error {
	f.sgemmCalls++
	return nil
}

func (f *fakeLib) Destroy() {}

// testBackend builds an initialized backend around a fake library and a
// runtime whose current stream is the given handle.
func testBackend(lib mathLib, stream uintptr) *Backend {
	rt := &cuda.Runtime{}
	rt.SetCurrentStream(cuda.StreamFromHandle(stream))
	return &Backend{
		initialized: true,
		runtime:     rt,
		lib:         lib,
		host:        cpu.New(),
	}
}

func TestBindCurrentStream(t *testing.T) {
	lib := &fakeLib{}
	b := testBackend(lib, 0xAB)

	require.NoError(t, b.BindCurrentStream())
	assert.Equal(t, []uintptr{0xAB}, lib.boundStreams)

	// Rebinding after a stream swap picks up the new current stream.
	b.Runtime().SetCurrentStream(cuda.StreamFromHandle(0xCD))
	require.NoError(t, b.BindCurrentStream())
	assert.Equal(t, []uintptr{0xAB, 0xCD}, lib.boundStreams)
}

func TestBindCurrentStreamFailure(t *testing.T) {
	lib := &fakeLib{
		setStreamErr: &cublas.LibraryError{Op: "cublasSetStream_v2", Status: cublas.StatusExecFailed},
	}
	b := testBackend(lib, 0xAB)

	err := b.BindCurrentStream()
	require.Error(t, err)

	var le *cublas.LibraryError
	require.True(t, errors.As(err, &le), "failure must surface as a LibraryError")
	assert.Equal(t, cublas.StatusExecFailed, le.Status)
}

func TestMatMulAbortsWhenBindFails(t *testing.T) {
	lib := &fakeLib{
		setStreamErr: &cublas.LibraryError{Op: "cublasSetStream_v2", Status: cublas.StatusNotInitialized},
	}
	b := testBackend(lib, 0xAB)

	x, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CUDA)
	require.NoError(t, err)
	y, err := tensor.NewRaw(tensor.Shape{3, 2}, tensor.Float32, tensor.CUDA)
	require.NoError(t, err)

	assert.PanicsWithValue(t,
		"cuda: MatMul: bind current stream: cublasSetStream_v2: CUBLAS_STATUS_NOT_INITIALIZED",
		func() { b.MatMul(x, y) })

	assert.Equal(t, 0, lib.sgemmCalls, "no further library calls after a failed stream binding")
}

func TestContiguousIfZeroStrideFastPath(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{4, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	got := ContiguousIfZeroStride(raw)
	assert.Same(t, raw, got, "tensors without zero strides must pass through unchanged")
}

func TestContiguousIfZeroStrideScalar(t *testing.T) {
	scalar, err := tensor.NewRaw(tensor.Shape{}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.Same(t, scalar, ContiguousIfZeroStride(scalar))
}

func TestContiguousIfZeroStrideMaterializes(t *testing.T) {
	src, err := tensor.NewRaw(tensor.Shape{1, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(src.AsFloat32(), []float32{1, 2, 3})

	view, err := src.Expand(tensor.Shape{4, 3})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, view.Strides())

	packed := ContiguousIfZeroStride(view)

	assert.Equal(t, tensor.Shape{4, 3}, packed.Shape())
	assert.Equal(t, []int{3, 1}, packed.Strides())
	assert.NotContains(t, packed.Strides(), 0)
	assert.False(t, packed.SharesBufferWith(src), "materialized copy must own its storage")

	data := packed.AsFloat32()[:packed.NumElements()]
	assert.Equal(t, []float32{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3}, data)
}

func TestContiguousIfZeroStrideIdempotent(t *testing.T) {
	src, err := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	view, err := src.Expand(tensor.Shape{3, 2})
	require.NoError(t, err)

	once := ContiguousIfZeroStride(view)
	twice := ContiguousIfZeroStride(once)
	assert.Same(t, once, twice, "second pass must be the no-copy fast path")
}
