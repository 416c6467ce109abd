package cuda

import "fmt"

// Runtime is the per-device session object: it owns the driver context and
// tracks the stream that device work is currently enqueued on.
//
// The current stream is deliberately explicit state on the Runtime rather
// than ambient process state, so the serialization obligation is visible at
// call sites. Runtime adds no locking of its own: callers that rebind the
// current stream from multiple goroutines must serialize themselves, the
// association is last-writer-wins.
type Runtime struct {
	device  int32
	ctx     uintptr
	current Stream
}

// NewRuntime initializes the driver, creates a context on the given device
// and a non-blocking stream that becomes the current stream.
func NewRuntime(deviceIdx int) (*Runtime, error) {
	if err := initDriver(); err != nil {
		return nil, err
	}
	if err := check(cuInit(0), "cuInit"); err != nil {
		return nil, err
	}

	rt := &Runtime{}
	if err := check(cuDeviceGet(&rt.device, int32(deviceIdx)), "cuDeviceGet"); err != nil {
		return nil, fmt.Errorf("device %d: %w", deviceIdx, err)
	}
	if err := check(cuCtxCreate(&rt.ctx, 0, rt.device), "cuCtxCreate"); err != nil {
		return nil, err
	}

	stream, err := NewStream()
	if err != nil {
		cuCtxDestroy(rt.ctx)
		return nil, err
	}
	rt.current = stream
	return rt, nil
}

// CurrentStream returns the stream device work is currently enqueued on.
func (rt *Runtime) CurrentStream() Stream {
	return rt.current
}

// SetCurrentStream makes s the current stream for subsequent device work.
// Library handles bound to the previous stream must be rebound by the caller.
func (rt *Runtime) SetCurrentStream(s Stream) {
	rt.current = s
}

// MakeCurrent binds the runtime's context to the calling thread.
// A runtime without a driver context is a no-op.
func (rt *Runtime) MakeCurrent() error {
	if rt.ctx == 0 {
		return nil
	}
	return check(cuCtxSetCurrent(rt.ctx), "cuCtxSetCurrent")
}

// Close destroys the current stream and the context.
func (rt *Runtime) Close() error {
	if rt.current.handle != 0 {
		if err := rt.current.Destroy(); err != nil {
			return err
		}
		rt.current = Stream{}
	}
	if rt.ctx != 0 {
		if err := check(cuCtxDestroy(rt.ctx), "cuCtxDestroy"); err != nil {
			return err
		}
		rt.ctx = 0
	}
	return nil
}
