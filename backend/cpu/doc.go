// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go reference backend.
//
// # Overview
//
// This package implements the layer kernels with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Optional sample-level parallelism
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/normalize/backend/cpu"
//	    "github.com/born-ml/normalize/nn"
//	)
//
//	func main() {
//	    backend := cpu.NewWithConfig(cpu.DefaultConfig())
//	    defer backend.Close()
//
//	    layer := nn.NewNormalize(backend)
//	    _ = layer
//	}
package cpu
