package simd

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/vec"

	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// L2NormalizeForward is the vectorized form of cpu.L2NormalizeForward.
func (b *SIMDBackend) L2NormalizeForward(x, y, squared *tensor.RawTensor, num int, eps float64) {
	dim := tensor.SampleDim("L2NormalizeForward", x, y, squared, num)

	switch x.DType() {
	case tensor.Float32:
		l2NormalizeForward(b.pool, x.AsFloat32(), y.AsFloat32(), squared.AsFloat32(), num, dim, float32(eps))
	case tensor.Float64:
		l2NormalizeForward(b.pool, x.AsFloat64(), y.AsFloat64(), squared.AsFloat64(), num, dim, eps)
	default:
		panic(fmt.Sprintf("L2NormalizeForward: unsupported dtype %s", x.DType()))
	}
}

// L2NormalizeBackward is the vectorized form of cpu.L2NormalizeBackward.
func (b *SIMDBackend) L2NormalizeBackward(y, dy, squared *tensor.RawTensor, propagate []bool, dx *tensor.RawTensor, num int, eps float64) {
	dim := tensor.SampleDim("L2NormalizeBackward", y, dy, squared, num)
	if dx.DType() != y.DType() || dx.NumElements() != y.NumElements() {
		panic(fmt.Sprintf("L2NormalizeBackward: dx is %s[%d], want %s[%d]",
			dx.DType(), dx.NumElements(), y.DType(), y.NumElements()))
	}

	switch y.DType() {
	case tensor.Float32:
		l2NormalizeBackward(b.pool, y.AsFloat32(), dy.AsFloat32(), squared.AsFloat32(), propagate, dx.AsFloat32(), num, dim, float32(eps))
	case tensor.Float64:
		l2NormalizeBackward(b.pool, y.AsFloat64(), dy.AsFloat64(), squared.AsFloat64(), propagate, dx.AsFloat64(), num, dim, eps)
	default:
		panic(fmt.Sprintf("L2NormalizeBackward: unsupported dtype %s", y.DType()))
	}
}

func l2NormalizeForward[T hwy.Floats](pool *parallel.Pool, x, y, squared []T, num, dim int, eps T) {
	pool.For(num, dim, func(start, end int) {
		for i := start; i < end; i++ {
			xi := x[i*dim : (i+1)*dim]
			yi := y[i*dim : (i+1)*dim]

			sum := vec.BaseSquaredNorm(xi)
			squared[i] = sum

			// 1/0 = +Inf and 0*Inf = NaN, so a zero sample still yields NaN.
			norm := clampNorm(T(math.Sqrt(float64(sum))), eps)
			vec.BaseScaleTo(yi, 1/norm, xi)
		}
	})
}

func l2NormalizeBackward[T hwy.Floats](pool *parallel.Pool, y, dy, squared []T, propagate []bool, dx []T, num, dim int, eps T) {
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
				vec.BaseScaleTo(dxi, 1/eps, dyi)
				continue
			}

			dot := vec.BaseDot(dyi, yi)
			copy(dxi, dyi)
			vec.BaseMulConstAddTo(dxi, -dot, yi)
			vec.BaseScale(1/norm, dxi)
		}
	})
}

func clampNorm[T hwy.Floats](norm, eps T) T {
	if eps > 0 && norm < eps {
		return eps
	}
	return norm
}
