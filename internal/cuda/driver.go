// Package cuda wraps the subset of the CUDA Driver API that the Ember CUDA
// backend needs. The driver is loaded at runtime via purego (dlopen), so the
// package compiles and links on machines without an NVIDIA driver; every
// entry point reports a load failure instead.
package cuda

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Result is a CUDA Driver API status code (CUresult).
type Result int32

// Status codes we care about.
const (
	Success           Result = 0
	ErrInvalidValue   Result = 1
	ErrOutOfMemory    Result = 2
	ErrNotInitialized Result = 3
	ErrNoDevice       Result = 100
	ErrInvalidContext Result = 201
	ErrInvalidHandle  Result = 400
	ErrNotReady       Result = 600
	ErrLaunchFailed   Result = 719
)

// Error implements the error interface for non-success results.
func (r Result) Error() string {
	if r == Success {
		return "CUDA_SUCCESS"
	}
	names := map[Result]string{
		1: "INVALID_VALUE", 2: "OUT_OF_MEMORY", 3: "NOT_INITIALIZED",
		100: "NO_DEVICE", 201: "INVALID_CONTEXT", 400: "INVALID_HANDLE",
		600: "NOT_READY", 719: "LAUNCH_FAILED",
	}
	if name, ok := names[r]; ok {
		return fmt.Sprintf("CUDA_ERROR_%s (%d)", name, r)
	}
	return fmt.Sprintf("CUDA_ERROR(%d)", r)
}

// Device attribute codes we need.
const (
	attrMaxThreadsPerBlock   = 1
	attrWarpSize             = 10
	attrMultiprocessorCount  = 16
	attrComputeCapabilityMaj = 75
	attrComputeCapabilityMin = 76
)

// StreamNonBlocking is the flag for streams that do not synchronize with the
// legacy default stream.
const StreamNonBlocking = 1

// Driver function pointers, populated by initDriver.
var (
	driverOnce sync.Once
	driverErr  error

	cuInit func(flags uint32) Result

	cuDeviceGetCount     func(count *int32) Result
	cuDeviceGet          func(device *int32, ordinal int32) Result
	cuDeviceGetName      func(name *byte, len int32, dev int32) Result
	cuDeviceGetAttribute func(pi *int32, attrib int32, dev int32) Result
	cuDeviceTotalMem     func(bytes *uint64, dev int32) Result

	cuCtxCreate     func(pctx *uintptr, flags uint32, dev int32) Result
	cuCtxSetCurrent func(ctx uintptr) Result
	cuCtxDestroy    func(ctx uintptr) Result

	cuMemAlloc   func(dptr *uintptr, bytesize uint64) Result
	cuMemFree    func(dptr uintptr) Result
	cuMemcpyHtoD func(dstDevice uintptr, srcHost unsafe.Pointer, byteCount uint64) Result
	cuMemcpyDtoH func(dstHost unsafe.Pointer, srcDevice uintptr, byteCount uint64) Result

	cuStreamCreate      func(phStream *uintptr, flags uint32) Result
	cuStreamSynchronize func(hStream uintptr) Result
	cuStreamDestroy     func(hStream uintptr) Result
)

// initDriver loads libcuda.so and registers all function pointers.
func initDriver() error {
	driverOnce.Do(func() {
		var lib uintptr
		lib, driverErr = purego.Dlopen("libcuda.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if driverErr != nil {
			lib, driverErr = purego.Dlopen("libcuda.so", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
			if driverErr != nil {
				driverErr = fmt.Errorf("cannot load libcuda.so: %w (is the NVIDIA driver installed?)", driverErr)
				return
			}
		}

		purego.RegisterLibFunc(&cuInit, lib, "cuInit")
		purego.RegisterLibFunc(&cuDeviceGetCount, lib, "cuDeviceGetCount")
		purego.RegisterLibFunc(&cuDeviceGet, lib, "cuDeviceGet")
		purego.RegisterLibFunc(&cuDeviceGetName, lib, "cuDeviceGetName")
		purego.RegisterLibFunc(&cuDeviceGetAttribute, lib, "cuDeviceGetAttribute")
		purego.RegisterLibFunc(&cuDeviceTotalMem, lib, "cuDeviceTotalMem_v2")
		purego.RegisterLibFunc(&cuCtxCreate, lib, "cuCtxCreate_v2")
		purego.RegisterLibFunc(&cuCtxSetCurrent, lib, "cuCtxSetCurrent")
		purego.RegisterLibFunc(&cuCtxDestroy, lib, "cuCtxDestroy_v2")
		purego.RegisterLibFunc(&cuMemAlloc, lib, "cuMemAlloc_v2")
		purego.RegisterLibFunc(&cuMemFree, lib, "cuMemFree_v2")
		purego.RegisterLibFunc(&cuMemcpyHtoD, lib, "cuMemcpyHtoD_v2")
		purego.RegisterLibFunc(&cuMemcpyDtoH, lib, "cuMemcpyDtoH_v2")
		purego.RegisterLibFunc(&cuStreamCreate, lib, "cuStreamCreate")
		purego.RegisterLibFunc(&cuStreamSynchronize, lib, "cuStreamSynchronize")
		purego.RegisterLibFunc(&cuStreamDestroy, lib, "cuStreamDestroy_v2")
	})
	return driverErr
}

// check converts a non-success result into an error naming the failed call.
func check(r Result, op string) error {
	if r != Success {
		return fmt.Errorf("%s: %w", op, r)
	}
	return nil
}
