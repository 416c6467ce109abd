// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the Ember ML framework.
//
// # Overview
//
// Tensors are the fundamental data structure in Ember. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting via zero-stride views
//   - Zero-copy operations where possible
//   - Device abstraction (CPU, CUDA)
//
// # Basic Usage
//
//	import (
//	    "github.com/ember-ml/ember/tensor"
//	    "github.com/ember-ml/ember/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	    result := x.MatMul(y)
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32, int64 (signed integers)
//
// # Views and Materialization
//
// Expand produces broadcast views that share storage with their base tensor;
// an expanded dimension is marked by a stride of 0. Contiguous materializes
// any such view into a packed row-major copy. Backends that hand tensors to
// external libraries use this pair to normalize layouts the library cannot
// describe.
package tensor
