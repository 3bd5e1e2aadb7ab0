// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/normalize/internal/tensor"
)

// Float is a constraint for the element types kernels support.
type Float = tensor.Float

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// ParseDataType parses "float32"/"f32" or "float64"/"f64".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// Device represents the device where tensor data resides.
type Device = tensor.Device

// CPU is the only device.
const CPU Device = tensor.CPU

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Blob is a data/gradient pair sharing one shape.
type Blob = tensor.Blob

// Backend computes layer kernels.
//
// Implementations:
//   - backend/cpu: scalar reference kernels
//   - backend/simd: vectorized kernels via go-highway
type Backend = tensor.Backend

// NewBlob creates an unshaped blob of the given type.
// Call Reshape (or let a layer do it) before use.
func NewBlob(dtype DataType) *Blob {
	return tensor.NewBlob(dtype)
}

// NewBlobWithShape creates a zeroed blob.
func NewBlobWithShape(shape Shape, dtype DataType) (*Blob, error) {
	return tensor.NewBlobWithShape(shape, dtype)
}

// NewBlobFromSlice creates a blob whose data is a copy of data.
//
// Example:
//
//	x, err := tensor.NewBlobFromSlice([]float64{1, 1, 1}, tensor.Shape{1, 3})
func NewBlobFromSlice[T Float](data []T, shape Shape) (*Blob, error) {
	return tensor.NewBlobFromSlice(data, shape)
}

// DataAs returns the typed view of b's data.
func DataAs[T Float](b *Blob) []T {
	return tensor.DataAs[T](b)
}

// DiffAs returns the typed view of b's gradient.
func DiffAs[T Float](b *Blob) []T {
	return tensor.DiffAs[T](b)
}
