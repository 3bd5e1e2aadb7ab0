// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package simd provides a vectorized CPU backend built on go-highway.
//
// Results match backend/cpu to within floating-point reassociation error.
// Use it where throughput matters; use backend/cpu as the reference.
package simd

import (
	internalsimd "github.com/born-ml/normalize/internal/backend/simd"
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/tensor"
)

// Backend represents the vectorized backend.
type Backend = internalsimd.SIMDBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Config controls how samples are spread across workers.
type Config = parallel.Config

// DefaultConfig returns a parallel configuration using all CPUs.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// New creates a new sequential SIMD backend.
func New() *Backend {
	return internalsimd.New()
}

// NewWithConfig creates a SIMD backend that runs samples on a worker pool.
// Call Close to release the workers.
func NewWithConfig(cfg Config) *Backend {
	return internalsimd.NewWithConfig(cfg)
}
