package cublas

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// rawHandle is the opaque cublasHandle_t.
type rawHandle uintptr

// operation is cublasOperation_t.
type operation int32

const (
	opN operation = 0
	opT operation = 1
)

// Library function pointers, populated by load.
var (
	loadOnce sync.Once
	loadErr  error

	cublasCreate     func(handle *rawHandle) Status
	cublasDestroy    func(handle rawHandle) Status
	cublasSetStream  func(handle rawHandle, stream uintptr) Status
	cublasGetVersion func(handle rawHandle, version *int32) Status

	// cublasSgemm_v2: 14 args, directly callable through purego.
	cublasSgemm func(
		handle rawHandle,
		transa, transb operation,
		m, n, k int32,
		alpha unsafe.Pointer,
		a uintptr, lda int32,
		b uintptr, ldb int32,
		beta unsafe.Pointer,
		c uintptr, ldc int32,
	) Status
)

// load dlopens libcublas and registers the entry points.
func load() error {
	loadOnce.Do(func() {
		var lib uintptr
		for _, name := range []string{"libcublas.so.12", "libcublas.so.11", "libcublas.so"} {
			lib, loadErr = purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
			if loadErr == nil {
				break
			}
		}
		if loadErr != nil {
			loadErr = fmt.Errorf("cannot load libcublas.so: %w", loadErr)
			return
		}

		purego.RegisterLibFunc(&cublasCreate, lib, "cublasCreate_v2")
		purego.RegisterLibFunc(&cublasDestroy, lib, "cublasDestroy_v2")
		purego.RegisterLibFunc(&cublasSetStream, lib, "cublasSetStream_v2")
		purego.RegisterLibFunc(&cublasGetVersion, lib, "cublasGetVersion_v2")
		purego.RegisterLibFunc(&cublasSgemm, lib, "cublasSgemm_v2")
	})
	return loadErr
}
