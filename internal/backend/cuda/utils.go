package cuda

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// BindCurrentStream associates the math-library handle with the runtime's
// current stream, so that subsequent library calls enqueue their work there.
//
// The library context is shared state with no automatic stream affinity:
// the binding must be re-issued on every entry point that might run on a
// different stream than the last call. Centralizing it here keeps the
// status-check boilerplate out of the call sites.
//
// A failure is fatal to the enclosing operation and is not retried; it
// means the device or library state is suspect and the caller must abort.
func (b *Backend) BindCurrentStream() error {
	if err := b.lib.SetStream(b.runtime.CurrentStream().Handle()); err != nil {
		return fmt.Errorf("bind current stream: %w", err)
	}
	return nil
}

// ContiguousIfZeroStride returns a densely packed copy of t if any dimension
// has a zero stride, and t itself (no copy) otherwise.
//
// The math library has a buggy contiguity check: it inspects strides
// directly and rejects zero-stride broadcast views as "non-contiguous"
// even though the data is well formed. Materializing the broadcast trades
// a copy for compatibility, only on the rare path that needs it.
//
// The returned tensor always has the input's shape and element values.
// When a copy is made its storage is exclusively owned and has no zero
// strides, so a second pass is always the no-copy fast path.
func ContiguousIfZeroStride(t *tensor.RawTensor) *tensor.RawTensor {
	for _, s := range t.Strides() {
		if s == 0 {
			return t.Contiguous()
		}
	}
	return t
}
