package tensor

import "fmt"

// Backend defines the kernels a compute backend provides to the Normalize
// layer. Every implementation must produce the same numbers as the CPU
// reference backend, up to floating-point reassociation.
//
// Implementations:
//   - cpu: scalar reference kernels, optionally parallel over samples
//   - simd: vectorized kernels built on go-highway
type Backend interface {
	// Name returns a short identifier such as "CPU".
	Name() string

	// Device returns the device the backend computes on.
	Device() Device

	// L2NormalizeForward normalizes each of the num samples of x to unit L2
	// norm, writing the result to y and each sample's sum of squares to
	// squared (num elements). eps > 0 clamps the norm from below; eps == 0
	// divides by the raw norm.
	L2NormalizeForward(x, y, squared *RawTensor, num int, eps float64)

	// L2NormalizeBackward writes dx = (dy - y*<dy,y>) / norm for every sample
	// i with propagate[i] set, where norm is recovered from squared. Samples
	// with the flag clear, or beyond len(propagate), are left untouched. A
	// nil propagate slice selects every sample.
	L2NormalizeBackward(y, dy, squared *RawTensor, propagate []bool, dx *RawTensor, num int, eps float64)
}

// Propagates reports whether sample i is selected by a per-sample
// propagate-down slice. nil selects everything; indices past the end are
// not selected.
func Propagates(flags []bool, i int) bool {
	if flags == nil {
		return true
	}
	return i < len(flags) && flags[i]
}

// SampleDim checks the buffers handed to a per-sample kernel and returns the
// number of elements per sample. Contract violations panic, prefixed by op.
func SampleDim(op string, a, b, squared *RawTensor, num int) int {
	if num <= 0 {
		panic(fmt.Sprintf("%s: sample count must be positive, got %d", op, num))
	}
	if a.DType() != b.DType() || a.DType() != squared.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s / %s / %s", op, a.DType(), b.DType(), squared.DType()))
	}
	count := a.NumElements()
	if b.NumElements() != count {
		panic(fmt.Sprintf("%s: element count mismatch %d vs %d", op, count, b.NumElements()))
	}
	if count%num != 0 {
		panic(fmt.Sprintf("%s: %d elements do not split into %d samples", op, count, num))
	}
	if squared.NumElements() < num {
		panic(fmt.Sprintf("%s: squared-norm buffer holds %d entries, need %d", op, squared.NumElements(), num))
	}
	return count / num
}
