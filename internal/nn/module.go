// Package nn implements layers for the Born ML Framework.
//
// Layers follow the two-pass differentiable operator contract of the
// enclosing framework:
//   - Reshape: negotiate output shapes from input shapes
//   - Forward: compute top data from bottom data
//   - Backward: compute bottom diff from top data and top diff
//
// Blobs are passed as slices so layers with several inputs or outputs fit
// the same interface.
package nn

import (
	"fmt"

	"github.com/born-ml/normalize/internal/tensor"
)

// Layer is the base interface for all differentiable operators.
//
// The enclosing framework calls Reshape whenever input shapes may have
// changed, then Forward, then (during training) Backward with the same
// blobs. Layers may cache intermediate values between Forward and the
// matching Backward, so a single layer instance handles one batch at a time.
type Layer interface {
	// Type identifies the operator to the framework's layer registry.
	Type() string

	// Reshape sizes top blobs (and any internal buffers) for bottom.
	Reshape(bottom, top []*tensor.Blob) error

	// Forward computes top data from bottom data.
	Forward(bottom, top []*tensor.Blob)

	// Backward computes bottom diffs from top data and top diffs.
	//
	// propagateDown selects, per sample of the leading dimension, whether
	// the bottom diff is written. A nil slice selects every sample.
	Backward(top []*tensor.Blob, propagateDown []bool, bottom []*tensor.Blob)
}

// Forward negotiates shapes and runs the forward pass, as the framework
// does before every forward invocation.
func Forward(l Layer, bottom, top []*tensor.Blob) error {
	if err := l.Reshape(bottom, top); err != nil {
		return fmt.Errorf("%s: reshape: %w", l.Type(), err)
	}
	l.Forward(bottom, top)
	return nil
}

// checkBlobCount validates the exact number of bottom and top blobs.
func checkBlobCount(layerType string, bottom, top []*tensor.Blob, nBottom, nTop int) error {
	if len(bottom) != nBottom {
		return fmt.Errorf("%s layer takes %d bottom blob(s), got %d", layerType, nBottom, len(bottom))
	}
	if len(top) != nTop {
		return fmt.Errorf("%s layer produces %d top blob(s), got %d", layerType, nTop, len(top))
	}
	for i, b := range bottom {
		if b == nil {
			return fmt.Errorf("%s layer: bottom[%d] is nil", layerType, i)
		}
	}
	for i, b := range top {
		if b == nil {
			return fmt.Errorf("%s layer: top[%d] is nil", layerType, i)
		}
	}
	return nil
}
