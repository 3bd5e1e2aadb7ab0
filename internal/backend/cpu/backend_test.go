package cpu

import (
	"testing"

	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

// Helper to create a raw tensor from values.
func rawFrom[T tensor.Float](t *testing.T, data []T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	b, err := tensor.NewBlobFromSlice(data, shape)
	if err != nil {
		t.Fatalf("NewBlobFromSlice: %v", err)
	}
	return b.Data()
}

// Helper to allocate a zeroed raw tensor.
func rawZeros(t *testing.T, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	return r
}

// TestCPUBackend_New tests backend creation.
func TestCPUBackend_New(t *testing.T) {
	backend := New()
	if backend == nil {
		t.Fatal("New() returned nil")
	}
	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected device CPU, got %v", backend.Device())
	}
	backend.Close()
}

func TestCPUBackend_NewWithConfig(t *testing.T) {
	backend := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 2, MinChunkSize: 1})
	defer backend.Close()

	if backend.Name() != "CPU" {
		t.Errorf("Expected name 'CPU', got '%s'", backend.Name())
	}
}
