// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cuda

import (
	internalcuda "github.com/ember-ml/ember/internal/backend/cuda"
	"github.com/ember-ml/ember/tensor"
)

// Backend represents the CUDA backend implementation.
type Backend = internalcuda.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CUDA backend for device 0.
// Driver and library initialization happen lazily on first use.
func New() *Backend {
	return internalcuda.New()
}

// NewForDevice creates a CUDA backend for the given device ordinal.
func NewForDevice(deviceIdx int) *Backend {
	return internalcuda.NewForDevice(deviceIdx)
}
