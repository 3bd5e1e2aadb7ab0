// Package cpu implements the reference CPU backend.
package cpu

import (
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// CPUBackend implements the layer kernels with plain scalar loops. It is the
// numeric reference every other backend is tested against.
type CPUBackend struct {
	device tensor.Device
	pool   *parallel.Pool
}

var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a CPU backend that runs samples sequentially.
func New() *CPUBackend {
	return NewWithConfig(parallel.Sequential())
}

// NewWithConfig creates a CPU backend that splits batches across workers
// according to cfg. Results are identical to the sequential backend since
// samples never share an accumulator.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		pool:   parallel.NewPool(cfg),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Close releases the worker pool, if any.
func (cpu *CPUBackend) Close() {
	cpu.pool.Close()
}
