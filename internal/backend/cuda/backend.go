// Package cuda implements the CUDA backend.
//
// Architecture:
//   - MatMul -> cuBLAS Sgemm, with operands staged to device memory per call
//   - Element-wise ops -> host fallback until dedicated kernels land
//   - Driver access -> CUDA Driver API via purego (zero cgo)
//
// The backend owns a per-device runtime (driver context + current stream)
// and a lazily created math-library handle. The handle is shared library
// state with no stream affinity of its own, so every operation rebinds it
// to the runtime's current stream before issuing work; see utils.go.
package cuda

import (
	"fmt"
	"sync"

	"github.com/ember-ml/ember/internal/backend/cpu"
	"github.com/ember-ml/ember/internal/cublas"
	"github.com/ember-ml/ember/internal/cuda"
	"github.com/ember-ml/ember/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// mathLib is the slice of the cuBLAS surface the backend calls.
// *cublas.Handle implements it; tests substitute a simulated library.
type mathLib interface {
	SetStream(stream uintptr) error
	Sgemm(dst, a, b uintptr, m, k, n int) error
	Destroy()
}

var _ mathLib = (*cublas.Handle)(nil)

// Backend implements tensor operations on NVIDIA GPUs.
type Backend struct {
	mu          sync.Mutex
	initialized bool

	deviceIdx int
	runtime   *cuda.Runtime
	info      *cuda.DeviceInfo
	lib       mathLib

	// Host backend for operations without device kernels yet.
	// Their results live in host memory like every staged tensor here.
	host *cpu.Backend
}

// New creates a CUDA backend for device 0.
// Driver and library initialization happen lazily on first use.
func New() *Backend {
	return NewForDevice(0)
}

// NewForDevice creates a CUDA backend for the given device ordinal.
func NewForDevice(deviceIdx int) *Backend {
	return &Backend{
		deviceIdx: deviceIdx,
		host:      cpu.New(),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	if b.info != nil {
		return fmt.Sprintf("CUDA (%s)", b.info.Name)
	}
	return "CUDA"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.CUDA
}

// ensureInit performs lazy initialization on first use: driver context,
// current stream, device info and the math-library handle, which is bound
// to the current stream once here and rebound per operation afterwards.
func (b *Backend) ensureInit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return b.runtime.MakeCurrent()
	}

	rt, err := cuda.NewRuntime(b.deviceIdx)
	if err != nil {
		return err
	}

	info, err := cuda.QueryDevice(b.deviceIdx)
	if err != nil {
		rt.Close()
		return fmt.Errorf("query device %d: %w", b.deviceIdx, err)
	}

	lib, err := cublas.NewHandle()
	if err != nil {
		rt.Close()
		return fmt.Errorf("create library handle: %w", err)
	}
	if err := lib.SetStream(rt.CurrentStream().Handle()); err != nil {
		lib.Destroy()
		rt.Close()
		return err
	}

	b.runtime = rt
	b.info = info
	b.lib = lib
	b.initialized = true
	fmt.Printf("[ember] CUDA backend initialized: %s\n", info)
	return nil
}

// Runtime returns the device runtime (after initialization).
// The caller that swaps the current stream owns the serialization of the
// swap; the backend only rebinds the library handle on each operation.
func (b *Backend) Runtime() *cuda.Runtime {
	return b.runtime
}

// Info returns device information (after initialization).
func (b *Backend) Info() *cuda.DeviceInfo {
	return b.info
}

// Close releases the library handle and the device runtime.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return nil
	}
	b.lib.Destroy()
	if err := b.runtime.Close(); err != nil {
		return err
	}
	b.initialized = false
	return nil
}

// Add performs element-wise addition on the host backend.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Add(x, y)
}

// Sub performs element-wise subtraction on the host backend.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Sub(x, y)
}

// Mul performs element-wise multiplication on the host backend.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Mul(x, y)
}

// Div performs element-wise division on the host backend.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Div(x, y)
}

// Expand broadcasts the tensor to a new shape as a zero-copy view.
func (b *Backend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	return b.host.Expand(x, shape)
}
