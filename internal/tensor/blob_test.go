package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobFromSlice(t *testing.T) {
	b, err := NewBlobFromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 1, 3})
	require.NoError(t, err)

	assert.Equal(t, Float32, b.DType())
	assert.Equal(t, 2, b.Num())
	assert.Equal(t, 6, b.Count())
	assert.Equal(t, 3, b.CountFrom(1))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, DataAs[float32](b))
	assert.Equal(t, make([]float32, 6), DiffAs[float32](b))
}

func TestNewBlobFromSliceLengthMismatch(t *testing.T) {
	_, err := NewBlobFromSlice([]float64{1, 2}, Shape{3})
	require.Error(t, err)
}

func TestBlobReshapeKeepsBuffersInStep(t *testing.T) {
	b := NewBlob(Float64)
	assert.Nil(t, b.Shape())
	assert.Equal(t, 0, b.Num())
	assert.Equal(t, 0, b.Count())

	require.NoError(t, b.Reshape(Shape{4, 2}))
	assert.Equal(t, Shape{4, 2}, b.Shape())
	assert.Equal(t, Shape{4, 2}, b.Diff().Shape())
	assert.Len(t, DiffAs[float64](b), 8)

	require.Error(t, b.Reshape(Shape{0, 2}))
}

func TestBlobReshapeLike(t *testing.T) {
	src, err := NewBlobWithShape(Shape{3, 5}, Float32)
	require.NoError(t, err)

	dst := NewBlob(Float32)
	require.NoError(t, dst.ReshapeLike(src))
	assert.True(t, dst.Shape().Equal(src.Shape()))

	// The returned shape is a copy, not an alias.
	src.Shape()[0] = 1
	assert.Equal(t, 3, dst.Num())

	require.Error(t, dst.ReshapeLike(NewBlob(Float32)))
}

func TestBlobTypedAccessMismatch(t *testing.T) {
	b, err := NewBlobWithShape(Shape{2}, Float32)
	require.NoError(t, err)
	assert.Panics(t, func() { DataAs[float64](b) })
}
