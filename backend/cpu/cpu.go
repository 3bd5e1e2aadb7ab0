// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/normalize/internal/backend/cpu"
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/tensor"
)

// Backend represents the CPU backend implementation.
//
// CPU backend provides scalar reference kernels. They are the numeric
// baseline other backends are tested against.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Config controls how samples are spread across workers.
type Config = parallel.Config

// DefaultConfig returns a parallel configuration using all CPUs.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// New creates a new sequential CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/normalize/backend/cpu"
//	    "github.com/born-ml/normalize/nn"
//	)
//
//	func main() {
//	    layer := nn.NewNormalize(cpu.New())
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend that runs samples on a worker pool.
// Call Close to release the workers.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}
