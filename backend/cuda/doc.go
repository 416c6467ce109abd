// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cuda provides an NVIDIA GPU backend for tensor operations.
//
// # Overview
//
// This package implements a CUDA backend with:
//   - Runtime loading of libcuda and libcublas via dlopen (no CGO)
//   - Lazy initialization: the driver, context and cuBLAS handle are
//     created on first use, so importing the package is free on machines
//     without a GPU
//   - cuBLAS-backed matrix multiplication bound to the current stream
//   - Automatic materialization of broadcast views before library calls
//
// # Basic Usage
//
//	import (
//	    "github.com/ember-ml/ember/backend/cuda"
//	    "github.com/ember-ml/ember/tensor"
//	)
//
//	func main() {
//	    backend := cuda.New()
//	    defer backend.Close()
//
//	    x := tensor.Ones[float32](tensor.Shape{128, 256}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{256, 64}, backend)
//	    z := x.MatMul(y)
//	}
package cuda
