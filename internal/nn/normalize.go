package nn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/normalize/internal/backend/cpu"
	"github.com/born-ml/normalize/internal/backend/simd"
	"github.com/born-ml/normalize/internal/config"
	"github.com/born-ml/normalize/internal/parallel"
	"github.com/born-ml/normalize/internal/tensor"
)

// Normalize rescales every sample of its input to unit L2 norm.
//
// Formula (per sample i, over all non-batch elements j):
//
//	y[i,j] = x[i,j] / ||x[i]||,  ||x[i]|| = sqrt(Σ_j x[i,j]²)
//
// Backward:
//
//	dx[i,j] = (dy[i,j] - y[i,j] * Σ_k dy[i,k]*y[i,k]) / ||x[i]||
//
// The layer has no learnable parameters. It keeps the per-sample sums of
// squares from the last Forward for the matching Backward, so one instance
// handles one batch at a time.
//
// With Epsilon == 0 (the default) an all-zero sample divides by zero and
// its output is NaN. Epsilon > 0 replaces the norm by max(norm, Epsilon).
//
// Example:
//
//	layer := nn.NewNormalize(cpu.New())
//	x, _ := tensor.NewBlobFromSlice([]float32{1, 1, 1}, tensor.Shape{1, 3})
//	y := tensor.NewBlob(tensor.Float32)
//	_ = nn.Forward(layer, []*tensor.Blob{x}, []*tensor.Blob{y})
//	// y ≈ [0.5774, 0.5774, 0.5774]
type Normalize struct {
	Epsilon float64 // lower bound on the per-sample norm, 0 disables

	backend     tensor.Backend
	ownsBackend bool
	squared     *tensor.RawTensor // Σ x² per sample from the last Forward
	logger      *zap.Logger
}

// NormalizeOption configures a Normalize layer.
type NormalizeOption func(*Normalize)

// WithEpsilon sets the lower bound applied to each sample's norm.
func WithEpsilon(eps float64) NormalizeOption {
	return func(n *Normalize) {
		n.Epsilon = eps
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) NormalizeOption {
	return func(n *Normalize) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalize creates a Normalize layer computing on backend.
// The caller keeps ownership of backend.
func NewNormalize(backend tensor.Backend, opts ...NormalizeOption) *Normalize {
	n := &Normalize{
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNormalizeFromParam builds a Normalize layer from a layer definition,
// creating the backend its engine names. The layer owns that backend;
// call Close when done. Options are applied after the definition.
func NewNormalizeFromParam(p *config.LayerParameter, opts ...NormalizeOption) (*Normalize, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cfg := parallel.Sequential()
	if p.Normalize.ParallelOrDefault() {
		cfg = parallel.DefaultConfig()
		if p.Normalize.NumWorkers > 0 {
			cfg.NumWorkers = p.Normalize.NumWorkers
			cfg.Enabled = p.Normalize.NumWorkers > 1
		}
	}

	var backend tensor.Backend
	switch p.Normalize.Engine {
	case config.EngineSIMD:
		backend = simd.NewWithConfig(cfg)
	default:
		backend = cpu.NewWithConfig(cfg)
	}

	all := append([]NormalizeOption{WithEpsilon(p.Normalize.Eps)}, opts...)
	n := NewNormalize(backend, all...)
	n.ownsBackend = true
	n.logger = n.logger.With(zap.String("layer", p.Name))
	n.logger.Debug("normalize layer created",
		zap.String("engine", string(p.Normalize.Engine)),
		zap.String("backend", backend.Name()),
		zap.Float64("eps", n.Epsilon),
		zap.Int("workers", cfg.NumWorkers),
		zap.Bool("parallel", cfg.Enabled))
	return n, nil
}

// Type returns the registry name of the layer.
func (n *Normalize) Type() string {
	return config.LayerType
}

// Backend returns the backend the layer computes on.
func (n *Normalize) Backend() tensor.Backend {
	return n.backend
}

// SquaredNorms returns the per-sample sums of squares recorded by the last
// Forward, or nil before the first Reshape. The tensor is owned by the layer.
func (n *Normalize) SquaredNorms() *tensor.RawTensor {
	return n.squared
}

// Reshape gives the top blob the bottom blob's shape and sizes the
// squared-norm cache to the batch dimension.
func (n *Normalize) Reshape(bottom, top []*tensor.Blob) error {
	if err := checkBlobCount(n.Type(), bottom, top, 1, 1); err != nil {
		return err
	}
	in, out := bottom[0], top[0]

	shape := in.Shape()
	if len(shape) == 0 {
		return fmt.Errorf("%s layer: input needs a leading batch dimension, got shape %v", n.Type(), shape)
	}
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("%s layer: %w", n.Type(), err)
	}
	if out.DType() != in.DType() {
		return fmt.Errorf("%s layer: top dtype %s does not match bottom dtype %s", n.Type(), out.DType(), in.DType())
	}
	if err := out.ReshapeLike(in); err != nil {
		return err
	}

	num := in.Num()
	switch {
	case n.squared == nil || n.squared.DType() != in.DType():
		sq, err := tensor.NewRaw(tensor.Shape{num}, in.DType(), n.backend.Device())
		if err != nil {
			return err
		}
		n.squared = sq
		n.logger.Debug("squared-norm cache allocated", zap.Int("num", num), zap.Stringer("dtype", in.DType()))
	case n.squared.NumElements() != num:
		if err := n.squared.Reshape(tensor.Shape{num}); err != nil {
			return err
		}
		n.logger.Debug("squared-norm cache resized", zap.Int("num", num))
	}
	return nil
}

// Forward writes the normalized bottom data into the top data and records
// each sample's sum of squares.
func (n *Normalize) Forward(bottom, top []*tensor.Blob) {
	in, out := bottom[0], top[0]
	num := in.Num()

	n.backend.L2NormalizeForward(in.Data(), out.Data(), n.squared, num, n.Epsilon)

	if n.Epsilon == 0 && n.logger.Core().Enabled(zap.WarnLevel) {
		if zeros := countZeroNorms(n.squared, num); zeros > 0 {
			n.logger.Warn("zero-norm samples produced non-finite output",
				zap.Int("samples", zeros), zap.Int("num", num))
		}
	}
}

// Backward writes the gradient w.r.t. the bottom data into the bottom diff
// for every sample selected by propagateDown. Unselected samples keep their
// previous diff contents.
func (n *Normalize) Backward(top []*tensor.Blob, propagateDown []bool, bottom []*tensor.Blob) {
	if propagateDown != nil && !anySet(propagateDown) {
		return
	}
	out, in := top[0], bottom[0]

	n.backend.L2NormalizeBackward(out.Data(), out.Diff(), n.squared, propagateDown, in.Diff(), in.Num(), n.Epsilon)
}

// Close releases the backend when the layer created it.
func (n *Normalize) Close() {
	if !n.ownsBackend {
		return
	}
	if c, ok := n.backend.(interface{ Close() }); ok {
		c.Close()
	}
}

func anySet(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}

func countZeroNorms(squared *tensor.RawTensor, num int) int {
	switch squared.DType() {
	case tensor.Float32:
		return countZeros(squared.AsFloat32()[:num])
	case tensor.Float64:
		return countZeros(squared.AsFloat64()[:num])
	default:
		return 0
	}
}

func countZeros[T tensor.Float](values []T) int {
	zeros := 0
	for _, v := range values {
		if v == 0 {
			zeros++
		}
	}
	return zeros
}
