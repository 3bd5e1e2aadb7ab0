// Package tensor provides the buffers and shapes that layers exchange with
// the enclosing framework.
package tensor

import "fmt"

// Float is the constraint for element types a Blob can hold.
type Float interface {
	~float32 | ~float64
}

// DataType represents runtime type information for buffers.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseDataType maps "float32" / "float64" to a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "float32", "f32":
		return Float32, nil
	case "float64", "f64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("unsupported data type %q (want float32 or float64)", s)
	}
}

// dataTypeOf infers DataType from a generic type T.
func dataTypeOf[T Float]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported type")
	}
}
