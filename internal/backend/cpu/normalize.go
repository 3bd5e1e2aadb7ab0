package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// L2NormalizeForward computes y[i] = x[i] / ||x[i]|| for every sample i and
// stores Σ_j x[i,j]² in squared[i].
//
// With eps == 0 an all-zero sample divides by zero and yields NaN; eps > 0
// uses max(||x[i]||, eps) as the denominator instead.
//
// x and y may be the same tensor.
func (cpu *CPUBackend) L2NormalizeForward(x, y, squared *tensor.RawTensor, num int, eps float64) {
	dim := tensor.SampleDim("L2NormalizeForward", x, y, squared, num)

	switch x.DType() {
	case tensor.Float32:
		l2NormalizeForward(cpu.pool, x.AsFloat32(), y.AsFloat32(), squared.AsFloat32(), num, dim, float32(eps))
	case tensor.Float64:
		l2NormalizeForward(cpu.pool, x.AsFloat64(), y.AsFloat64(), squared.AsFloat64(), num, dim, eps)
	default:
		panic(fmt.Sprintf("L2NormalizeForward: unsupported dtype %s", x.DType()))
	}
}

// L2NormalizeBackward computes, for every selected sample i,
//
//	dx[i,j] = (dy[i,j] - y[i,j] * Σ_k dy[i,k]*y[i,k]) / ||x[i]||
//
// where ||x[i]|| = sqrt(squared[i]) from the matching forward call. When the
// norm was clamped to eps the forward map is x/eps and dx = dy/eps.
//
// dx may alias dy.
func (cpu *CPUBackend) L2NormalizeBackward(y, dy, squared *tensor.RawTensor, propagate []bool, dx *tensor.RawTensor, num int, eps float64) {
	dim := tensor.SampleDim("L2NormalizeBackward", y, dy, squared, num)
	if dx.DType() != y.DType() || dx.NumElements() != y.NumElements() {
		panic(fmt.Sprintf("L2NormalizeBackward: dx is %s[%d], want %s[%d]",
			dx.DType(), dx.NumElements(), y.DType(), y.NumElements()))
	}

	switch y.DType() {
	case tensor.Float32:
		l2NormalizeBackward(cpu.pool, y.AsFloat32(), dy.AsFloat32(), squared.AsFloat32(), propagate, dx.AsFloat32(), num, dim, float32(eps))
	case tensor.Float64:
		l2NormalizeBackward(cpu.pool, y.AsFloat64(), dy.AsFloat64(), squared.AsFloat64(), propagate, dx.AsFloat64(), num, dim, eps)
	default:
		panic(fmt.Sprintf("L2NormalizeBackward: unsupported dtype %s", y.DType()))
	}
}

func l2NormalizeForward[T tensor.Float](pool *parallel.Pool, x, y, squared []T, num, dim int, eps T) {
	pool.For(num, dim, func(start, end int) {
		for i := start; i < end; i++ {
			xi := x[i*dim : (i+1)*dim]
			yi := y[i*dim : (i+1)*dim]

			var sum T
			for _, v := range xi {
				sum += v * v
			}
			squared[i] = sum

			norm := clampNorm(T(math.Sqrt(float64(sum))), eps)
			for j, v := range xi {
				yi[j] = v / norm
			}
		}
	})
}

func l2NormalizeBackward[T tensor.Float](pool *parallel.Pool, y, dy, squared []T, propagate []bool, dx []T, num, dim int, eps T) {
	pool.For(num, dim, func(start, end int) {
		for i := start; i < end; i++ {
			if !tensor.Propagates(propagate, i) {
				continue
			}
			yi := y[i*dim : (i+1)*dim]
			dyi := dy[i*dim : (i+1)*dim]
			dxi := dx[i*dim : (i+1)*dim]

			norm := T(math.Sqrt(float64(squared[i])))
			if eps > 0 && norm < eps {
				for j, g := range dyi {
					dxi[j] = g / eps
				}
				continue
			}

			var dot T
			for j, g := range dyi {
				dot += g * yi[j]
			}
			for j, g := range dyi {
				dxi[j] = (g - yi[j]*dot) / norm
			}
		}
	})
}

// clampNorm applies the optional lower bound. NaN passes through.
func clampNorm[T tensor.Float](norm, eps T) T {
	if eps > 0 && norm < eps {
		return eps
	}
	return norm
}
