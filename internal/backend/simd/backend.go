// Package simd implements a vectorized CPU backend on top of go-highway.
//
// Kernels use the portable hwy vector primitives, which lower to AVX2,
// AVX-512 or NEON when the toolchain enables them and to scalar code
// otherwise. Results match the cpu reference backend up to the rounding
// differences of multiplying by a reciprocal and of lane-wise summation.
package simd

import (
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// SIMDBackend is the vectorized counterpart of cpu.CPUBackend.
type SIMDBackend struct {
	device tensor.Device
	pool   *parallel.Pool
}

var _ tensor.Backend = (*SIMDBackend)(nil)

// New creates a SIMD backend that runs samples sequentially.
func New() *SIMDBackend {
	return NewWithConfig(parallel.Sequential())
}

// NewWithConfig creates a SIMD backend that also splits batches across
// workers according to cfg.
func NewWithConfig(cfg parallel.Config) *SIMDBackend {
	return &SIMDBackend{
		device: tensor.CPU,
		pool:   parallel.NewPool(cfg),
	}
}

// Name returns the backend name.
func (b *SIMDBackend) Name() string {
	return "SIMD"
}

// Device returns the compute device.
func (b *SIMDBackend) Device() tensor.Device {
	return b.device
}

// Close releases the worker pool, if any.
func (b *SIMDBackend) Close() {
	b.pool.Close()
}
