package tensor

import "fmt"

// Blob is the array handle layers read from and write to. It pairs a data
// buffer with a gradient (diff) buffer; both always have the same shape.
//
// Example:
//
//	x, _ := tensor.NewBlobFromSlice([]float32{1, 1, 1}, tensor.Shape{1, 3})
//	y := tensor.NewBlob(tensor.Float32)
//	_ = y.ReshapeLike(x)
type Blob struct {
	data *RawTensor
	diff *RawTensor
}

// NewBlob creates an unshaped blob. Call Reshape before using its buffers.
func NewBlob(dtype DataType) *Blob {
	return &Blob{
		data: newEmptyRaw(dtype, CPU),
		diff: newEmptyRaw(dtype, CPU),
	}
}

// NewBlobWithShape creates a zero-filled blob of the given shape.
func NewBlobWithShape(shape Shape, dtype DataType) (*Blob, error) {
	b := NewBlob(dtype)
	if err := b.Reshape(shape); err != nil {
		return nil, err
	}
	return b, nil
}

// NewBlobFromSlice creates a blob whose data buffer holds a copy of data.
// The diff buffer is zero-filled.
func NewBlobFromSlice[T Float](data []T, shape Shape) (*Blob, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	b, err := NewBlobWithShape(shape, dataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(Values[T](b.data), data)
	return b, nil
}

// Reshape resizes both buffers. Existing allocations are reused when large
// enough, so contents are only preserved when the element count does not grow.
func (b *Blob) Reshape(shape Shape) error {
	if err := b.data.Reshape(shape); err != nil {
		return err
	}
	return b.diff.Reshape(shape)
}

// ReshapeLike gives b the same shape as other.
func (b *Blob) ReshapeLike(other *Blob) error {
	if other.Shape() == nil {
		return fmt.Errorf("reshape like: source blob has no shape")
	}
	return b.Reshape(other.Shape())
}

// Shape returns the blob's shape (nil before the first Reshape).
func (b *Blob) Shape() Shape {
	return b.data.Shape()
}

// DType returns the element type of both buffers.
func (b *Blob) DType() DataType {
	return b.data.DType()
}

// Num returns the size of the leading (batch) dimension.
func (b *Blob) Num() int {
	s := b.Shape()
	if s == nil {
		return 0
	}
	if len(s) == 0 {
		return 1
	}
	return s[0]
}

// Count returns the total number of elements.
func (b *Blob) Count() int {
	return b.data.NumElements()
}

// CountFrom returns the product of the dimensions starting at axis.
func (b *Blob) CountFrom(axis int) int {
	return b.Shape().CountFrom(axis)
}

// Data returns the data buffer.
func (b *Blob) Data() *RawTensor {
	return b.data
}

// Diff returns the gradient buffer.
func (b *Blob) Diff() *RawTensor {
	return b.diff
}

// DataAs returns the typed data buffer of b.
func DataAs[T Float](b *Blob) []T {
	return Values[T](b.data)
}

// DiffAs returns the typed gradient buffer of b.
func DiffAs[T Float](b *Blob) []T {
	return Values[T](b.diff)
}
