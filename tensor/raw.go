// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/normalize/internal/tensor"
)

// RawTensor is a contiguous buffer with a shape and a data type.
//
// Typed views are returned by AsFloat32 and AsFloat64 and alias the
// underlying storage.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32() // len 6, writes go to raw
//	clone := raw.Clone()    // independent copy
type RawTensor = tensor.RawTensor

// NewRaw allocates a zeroed RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Values returns the typed view of r. T must match r's data type.
func Values[T Float](r *RawTensor) []T {
	return tensor.Values[T](r)
}
