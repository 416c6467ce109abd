package cuda

// Stream is an opaque handle to a CUDA execution stream: an ordered queue
// onto which device work is enqueued asynchronously relative to the host.
type Stream struct {
	handle uintptr
}

// NewStream creates a non-blocking stream on the current context.
func NewStream() (Stream, error) {
	if err := initDriver(); err != nil {
		return Stream{}, err
	}
	var h uintptr
	if err := check(cuStreamCreate(&h, StreamNonBlocking), "cuStreamCreate"); err != nil {
		return Stream{}, err
	}
	return Stream{handle: h}, nil
}

// StreamFromHandle wraps a raw driver stream handle.
// Useful for interop with externally created streams and for tests.
func StreamFromHandle(h uintptr) Stream {
	return Stream{handle: h}
}

// Handle returns the raw driver handle for passing to foreign APIs.
func (s Stream) Handle() uintptr {
	return s.handle
}

// Synchronize blocks until all work enqueued on the stream has completed.
func (s Stream) Synchronize() error {
	return check(cuStreamSynchronize(s.handle), "cuStreamSynchronize")
}

// Destroy releases the stream.
func (s Stream) Destroy() error {
	return check(cuStreamDestroy(s.handle), "cuStreamDestroy")
}
