package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level, contiguous, row-major buffer used by backends.
//
// Unlike a view it owns its memory outright: Reshape may reuse the existing
// allocation when it is large enough, and grows it otherwise.
type RawTensor struct {
	data   []byte   // Backing storage; len(data) is the capacity in bytes
	shape  Shape    // Tensor dimensions
	dtype  DataType // Runtime type information
	device Device   // Compute device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		dtype:  dtype,
		device: device,
	}, nil
}

// newEmptyRaw creates a RawTensor with no shape and no storage.
func newEmptyRaw(dtype DataType, device Device) *RawTensor {
	return &RawTensor{dtype: dtype, device: device}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements, or 0 before the first
// Reshape of an empty tensor.
func (r *RawTensor) NumElements() int {
	if r.shape == nil {
		return 0
	}
	return r.shape.NumElements()
}

// ByteSize returns the used memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Capacity returns how many elements fit in the current allocation.
func (r *RawTensor) Capacity() int {
	return len(r.data) / r.dtype.Size()
}

// Data returns the raw byte slice covering the used elements.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data[:r.ByteSize()]
}

// Reshape changes the tensor's shape in place. The allocation is kept when
// it can hold the new element count; otherwise a new zeroed one replaces it
// and previous contents are lost.
func (r *RawTensor) Reshape(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	need := shape.NumElements() * r.dtype.Size()
	if need > len(r.data) {
		r.data = make([]byte, need)
	}
	r.shape = shape.Clone()
	return nil
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), n)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), n)
}

// Values returns the typed view of r. T must match r's dtype.
func Values[T Float](r *RawTensor) []T {
	if want := dataTypeOf[T](); r.dtype != want {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, want))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&r.data[0])), n)
}

// Zero sets every used element to zero.
func (r *RawTensor) Zero() {
	clear(r.Data())
}

// CopyFrom copies src's contents into r. Shapes must hold the same number
// of elements and dtypes must match.
func (r *RawTensor) CopyFrom(src *RawTensor) {
	if r.dtype != src.dtype {
		panic(fmt.Sprintf("copy: dtype mismatch %s vs %s", r.dtype, src.dtype))
	}
	if r.NumElements() != src.NumElements() {
		panic(fmt.Sprintf("copy: element count mismatch %d vs %d", r.NumElements(), src.NumElements()))
	}
	copy(r.Data(), src.Data())
}

// Clone returns a deep copy of r with a tight allocation.
func (r *RawTensor) Clone() *RawTensor {
	c := &RawTensor{
		data:   make([]byte, r.ByteSize()),
		dtype:  r.dtype,
		device: r.device,
	}
	if r.shape != nil {
		c.shape = r.shape.Clone()
	}
	copy(c.data, r.Data())
	return c
}
