// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the data containers the Normalize layer works on.
//
// # Overview
//
// A Blob pairs two RawTensors of one shape: Data holds the values
// flowing forward and Diff holds the gradient flowing backward. The
// leading dimension of a Blob is the batch (Num); every other dimension
// belongs to one sample.
//
// # Basic Usage
//
//	import "github.com/born-ml/normalize/tensor"
//
//	func main() {
//	    x, err := tensor.NewBlobFromSlice([]float32{3, 4, 0, 2}, tensor.Shape{2, 2})
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(x.Num(), x.CountFrom(1)) // 2 2
//	}
//
// # Supported Data Types
//
//   - Float32
//   - Float64
//
// Storage is contiguous row-major on the CPU. Reshape keeps the existing
// buffer when it is large enough, so a blob can be reused across batches
// of different size without reallocating.
package tensor
