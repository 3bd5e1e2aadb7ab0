// Package gradcheck verifies a layer's Backward against central finite
// differences of its Forward.
package gradcheck

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/multierr"

	"github.com/born-ml/normalize/internal/nn"
	"github.com/born-ml/normalize/internal/tensor"
)

// Checker holds the finite-difference settings.
//
// The scalar objective is L = Σ_k w_k * y_k with fixed random weights w, so
// dL/dy = w is fed to Backward as the top diff and every input element is
// perturbed by ±Stepsize to estimate dL/dx numerically.
type Checker struct {
	Stepsize  float64 // perturbation applied to each input element
	Threshold float64 // allowed |analytic - numeric| relative to max(|a|, |n|, 1)
	Seed      uint64  // seed for the objective weights
}

// Report summarizes a check.
type Report struct {
	Checked  int     // number of input elements compared
	MaxError float64 // largest scaled |analytic - numeric|
}

// New returns a Checker with step 1e-2, threshold 1e-3 and seed 1701.
func New() *Checker {
	return &Checker{
		Stepsize:  1e-2,
		Threshold: 1e-3,
		Seed:      1701,
	}
}

// CheckLayer compares the analytic gradient of layer w.r.t. bottom with the
// numeric one for every element. bottom's data is restored before return;
// top holds the forward result for the original input.
//
// The returned error combines one entry per mismatching element.
func (c *Checker) CheckLayer(layer nn.Layer, bottom, top *tensor.Blob) (Report, error) {
	var report Report
	bottoms, tops := []*tensor.Blob{bottom}, []*tensor.Blob{top}

	if err := nn.Forward(layer, bottoms, tops); err != nil {
		return report, err
	}

	rng := rand.New(rand.NewPCG(c.Seed, c.Seed))
	weights := make([]float64, top.Count())
	for i := range weights {
		weights[i] = rng.NormFloat64()
	}

	// Analytic gradient.
	setAll(top.Diff(), weights)
	bottom.Diff().Zero()
	layer.Backward(tops, nil, bottoms)
	analytic := getAll(bottom.Diff())

	// Numeric gradient, one element at a time.
	x := bottom.Data()
	var errs error
	for i := range analytic {
		orig := get(x, i)

		set(x, i, orig+c.Stepsize)
		layer.Forward(bottoms, tops)
		plus := objective(top.Data(), weights)

		set(x, i, orig-c.Stepsize)
		layer.Forward(bottoms, tops)
		minus := objective(top.Data(), weights)

		set(x, i, orig)

		numeric := (plus - minus) / (2 * c.Stepsize)
		scale := math.Max(math.Max(math.Abs(analytic[i]), math.Abs(numeric)), 1)
		diff := math.Abs(analytic[i]-numeric) / scale
		if diff > report.MaxError || math.IsNaN(diff) {
			report.MaxError = diff
		}
		if !(diff <= c.Threshold) {
			errs = multierr.Append(errs, fmt.Errorf(
				"%s: element %d: analytic gradient %g, numeric %g", layer.Type(), i, analytic[i], numeric))
		}
		report.Checked++
	}

	layer.Forward(bottoms, tops)
	return report, errs
}

func objective(y *tensor.RawTensor, weights []float64) float64 {
	var sum float64
	for i, w := range weights {
		sum += w * get(y, i)
	}
	return sum
}

func get(r *tensor.RawTensor, i int) float64 {
	switch r.DType() {
	case tensor.Float32:
		return float64(r.AsFloat32()[i])
	case tensor.Float64:
		return r.AsFloat64()[i]
	default:
		panic(fmt.Sprintf("gradcheck: unsupported dtype %s", r.DType()))
	}
}

func set(r *tensor.RawTensor, i int, v float64) {
	switch r.DType() {
	case tensor.Float32:
		r.AsFloat32()[i] = float32(v)
	case tensor.Float64:
		r.AsFloat64()[i] = v
	default:
		panic(fmt.Sprintf("gradcheck: unsupported dtype %s", r.DType()))
	}
}

func getAll(r *tensor.RawTensor) []float64 {
	out := make([]float64, r.NumElements())
	for i := range out {
		out[i] = get(r, i)
	}
	return out
}

func setAll(r *tensor.RawTensor, values []float64) {
	for i, v := range values {
		set(r, i, v)
	}
}
