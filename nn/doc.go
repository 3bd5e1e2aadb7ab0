// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the Normalize layer and the Layer interface it
// implements.
//
// # Overview
//
// Normalize rescales every sample of a batch to unit Euclidean norm:
//
//	y = x / ||x||
//
// Its backward pass projects the upstream gradient onto the tangent
// space of the unit sphere and rescales it:
//
//	dx = (dy - y * <dy, y>) / ||x||
//
// The per-sample squared norms are cached by Forward and reused by
// Backward, so one layer instance serves one batch at a time.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/normalize/backend/cpu"
//	    "github.com/born-ml/normalize/nn"
//	    "github.com/born-ml/normalize/tensor"
//	)
//
//	func main() {
//	    layer := nn.NewNormalize(cpu.New())
//
//	    x, _ := tensor.NewBlobFromSlice([]float32{3, 4}, tensor.Shape{1, 2})
//	    y := tensor.NewBlob(tensor.Float32)
//	    if err := nn.Forward(layer, []*tensor.Blob{x}, []*tensor.Blob{y}); err != nil {
//	        panic(err)
//	    }
//	    // y = [0.6 0.8]
//	}
//
// # Zero vectors
//
// By default an all-zero sample divides by zero and yields NaN. Use
// WithEpsilon to clamp the norm from below instead.
package nn
