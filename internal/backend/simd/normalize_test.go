package simd

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/born-ml/normalize/internal/backend/cpu"
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kernels interface {
	L2NormalizeForward(x, y, squared *tensor.RawTensor, num int, eps float64)
	L2NormalizeBackward(y, dy, squared *tensor.RawTensor, propagate []bool, dx *tensor.RawTensor, num int, eps float64)
}

type result[T tensor.Float] struct {
	y, dx, squared []T
}

func run[T tensor.Float](t *testing.T, k kernels, xs, gs []T, shape tensor.Shape, propagate []bool, eps float64) result[T] {
	t.Helper()
	num := shape[0]

	x, err := tensor.NewBlobFromSlice(xs, shape)
	require.NoError(t, err)
	y, err := tensor.NewBlobFromSlice(make([]T, len(xs)), shape)
	require.NoError(t, err)
	copy(tensor.DiffAs[T](y), gs)
	sq, err := tensor.NewBlobWithShape(tensor.Shape{num}, x.DType())
	require.NoError(t, err)

	k.L2NormalizeForward(x.Data(), y.Data(), sq.Data(), num, eps)
	k.L2NormalizeBackward(y.Data(), y.Diff(), sq.Data(), propagate, x.Diff(), num, eps)

	return result[T]{
		y:       append([]T(nil), tensor.DataAs[T](y)...),
		dx:      append([]T(nil), tensor.DiffAs[T](x)...),
		squared: append([]T(nil), tensor.DataAs[T](sq)...),
	}
}

func randomSlice[T tensor.Float](rng *rand.Rand, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(rng.NormFloat64())
	}
	return out
}

// assertClose compares with a tolerance relative to the magnitude involved.
func assertClose[T tensor.Float](t *testing.T, want, got []T, rel float64, what string) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := float64(want[i]), float64(got[i])
		tol := math.Max(math.Abs(w)*rel, rel)
		if math.Abs(w-g) > tol {
			t.Fatalf("%s[%d]: simd %v, reference %v (tol %g)", what, i, g, w, tol)
		}
	}
}

func TestSIMDMatchesReference_Float32(t *testing.T) {
	rng := rand.New(rand.NewPCG(1701, 1))
	ref := cpu.New()
	vb := New()

	// Dimensions straddle common lane counts so both vector and tail paths run.
	for _, dim := range []int{1, 3, 4, 7, 8, 15, 16, 17, 33, 257} {
		shape := tensor.Shape{6, dim}
		xs := randomSlice[float32](rng, 6*dim)
		gs := randomSlice[float32](rng, 6*dim)

		want := run(t, ref, xs, gs, shape, nil, 0)
		got := run(t, vb, xs, gs, shape, nil, 0)

		assertClose(t, want.squared, got.squared, 1e-5, "squared")
		assertClose(t, want.y, got.y, 1e-5, "y")
		assertClose(t, want.dx, got.dx, 1e-4, "dx")
	}
}

func TestSIMDMatchesReference_Float64(t *testing.T) {
	rng := rand.New(rand.NewPCG(1701, 2))
	ref := cpu.New()
	vb := New()

	shape := tensor.Shape{9, 2, 13}
	xs := randomSlice[float64](rng, shape.NumElements())
	gs := randomSlice[float64](rng, shape.NumElements())

	want := run(t, ref, xs, gs, shape, nil, 0)
	got := run(t, vb, xs, gs, shape, nil, 0)

	assertClose(t, want.squared, got.squared, 1e-12, "squared")
	assertClose(t, want.y, got.y, 1e-12, "y")
	assertClose(t, want.dx, got.dx, 1e-11, "dx")
}

func TestSIMDFixtures(t *testing.T) {
	vb := New()

	eq := run(t, vb, []float32{1, 1, 1}, []float32{0, 0, 0}, tensor.Shape{1, 1, 3}, nil, 0)
	for i, v := range eq.y {
		assert.InDelta(t, 0.577350269, float64(v), 1e-5, "element %d", i)
	}

	grad := run(t, vb, []float32{1, 0, 0}, []float32{-1, 5, 1}, tensor.Shape{1, 1, 3}, []bool{true}, 0)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, grad.y, 1e-6)
	assert.InDeltaSlice(t, []float32{0, 5, 1}, grad.dx, 1e-5)
}

func TestSIMDZeroNormAndClamp(t *testing.T) {
	vb := New()
	ref := cpu.New()

	xs := []float64{0, 0, 0, 0, 1e-5, 0}
	gs := []float64{1, 2, 3, 4, 5, 6}
	shape := tensor.Shape{2, 3}

	plain := run(t, vb, xs, gs, shape, nil, 0)
	for j := 0; j < 3; j++ {
		assert.True(t, math.IsNaN(plain.y[j]), "zero sample must produce NaN, got %v", plain.y[j])
	}

	want := run(t, ref, xs, gs, shape, nil, 1e-3)
	got := run(t, vb, xs, gs, shape, nil, 1e-3)
	assertClose(t, want.y, got.y, 1e-12, "clamped y")
	assertClose(t, want.dx, got.dx, 1e-12, "clamped dx")
}

func TestSIMDSelectivePropagation(t *testing.T) {
	vb := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1})
	defer vb.Close()

	shape := tensor.Shape{3, 4}
	x, err := tensor.NewBlobFromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, shape)
	require.NoError(t, err)
	y, err := tensor.NewBlobWithShape(shape, tensor.Float32)
	require.NoError(t, err)
	sq, err := tensor.NewBlobWithShape(tensor.Shape{3}, tensor.Float32)
	require.NoError(t, err)

	vb.L2NormalizeForward(x.Data(), y.Data(), sq.Data(), 3, 0)
	copy(tensor.DiffAs[float32](y), []float32{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3})
	copy(tensor.DiffAs[float32](x), []float32{9, 9, 9, 9, 8, 8, 8, 8, 7, 7, 7, 7})

	vb.L2NormalizeBackward(y.Data(), y.Diff(), sq.Data(), []bool{false, true, false}, x.Diff(), 3, 0)

	dx := tensor.DiffAs[float32](x)
	assert.Equal(t, []float32{9, 9, 9, 9}, dx[:4])
	assert.Equal(t, []float32{7, 7, 7, 7}, dx[8:])
	assert.NotEqual(t, []float32{8, 8, 8, 8}, dx[4:8])
}

func TestSIMDBackendIdentity(t *testing.T) {
	vb := New()
	defer vb.Close()
	assert.Equal(t, "SIMD", vb.Name())
	assert.Equal(t, tensor.CPU, vb.Device())
}
