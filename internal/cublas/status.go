// Package cublas wraps the handful of cuBLAS entry points the Ember CUDA
// backend calls. Like the driver package it binds via purego at runtime,
// so no cgo and no link-time dependency on the library.
package cublas

import "fmt"

// Status is a cuBLAS status code (cublasStatus_t).
type Status int32

// Status codes.
const (
	StatusSuccess        Status = 0
	StatusNotInitialized Status = 1
	StatusAllocFailed    Status = 3
	StatusInvalidValue   Status = 7
	StatusArchMismatch   Status = 8
	StatusExecFailed     Status = 13
	StatusInternalError  Status = 14
	StatusNotSupported   Status = 15
)

// Error implements the error interface for non-success statuses.
func (s Status) Error() string {
	names := map[Status]string{
		0: "SUCCESS", 1: "NOT_INITIALIZED", 3: "ALLOC_FAILED",
		7: "INVALID_VALUE", 8: "ARCH_MISMATCH", 13: "EXECUTION_FAILED",
		14: "INTERNAL_ERROR", 15: "NOT_SUPPORTED",
	}
	if name, ok := names[s]; ok {
		return fmt.Sprintf("CUBLAS_STATUS_%s", name)
	}
	return fmt.Sprintf("CUBLAS_ERROR(%d)", s)
}

// LibraryError is the single error kind for failed library calls: it names
// the foreign entry point and carries its status code. A LibraryError is
// fatal to the operation that triggered it and is never retried; a failed
// handle or stream call means the device or library state is suspect.
type LibraryError struct {
	Op     string
	Status Status
}

// Error implements the error interface.
func (e *LibraryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Status.Error())
}

// Unwrap exposes the underlying status for errors.Is/errors.As.
func (e *LibraryError) Unwrap() error {
	return e.Status
}

// libErr converts a status code into an error, nil on success.
func libErr(op string, s Status) error {
	if s == StatusSuccess {
		return nil
	}
	return &LibraryError{Op: op, Status: s}
}
