package cuda

import (
	"fmt"
	"unsafe"
)

// Buffer is a device memory allocation.
type Buffer struct {
	ptr  uintptr
	size int
}

// MemAlloc allocates size bytes of device memory.
func MemAlloc(size int) (*Buffer, error) {
	if err := initDriver(); err != nil {
		return nil, err
	}
	b := &Buffer{size: size}
	if size == 0 {
		return b, nil
	}
	if err := check(cuMemAlloc(&b.ptr, uint64(size)), "cuMemAlloc"); err != nil {
		return nil, err
	}
	return b, nil
}

// Ptr returns the raw device pointer.
func (b *Buffer) Ptr() uintptr {
	return b.ptr
}

// Size returns the allocation size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// CopyFromHost copies host bytes into the device buffer.
func (b *Buffer) CopyFromHost(src []byte) error {
	if len(src) > b.size {
		return fmt.Errorf("cuMemcpyHtoD: %d bytes exceed buffer size %d", len(src), b.size)
	}
	if len(src) == 0 {
		return nil
	}
	return check(cuMemcpyHtoD(b.ptr, unsafe.Pointer(&src[0]), uint64(len(src))), "cuMemcpyHtoD")
}

// CopyToHost copies the device buffer into host bytes.
func (b *Buffer) CopyToHost(dst []byte) error {
	if len(dst) > b.size {
		return fmt.Errorf("cuMemcpyDtoH: %d bytes exceed buffer size %d", len(dst), b.size)
	}
	if len(dst) == 0 {
		return nil
	}
	return check(cuMemcpyDtoH(unsafe.Pointer(&dst[0]), b.ptr, uint64(len(dst))), "cuMemcpyDtoH")
}

// Free releases the device memory.
func (b *Buffer) Free() {
	if b.ptr != 0 {
		cuMemFree(b.ptr)
		b.ptr = 0
	}
}
