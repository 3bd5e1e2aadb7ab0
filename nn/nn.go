// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"go.uber.org/zap"

	"github.com/born-ml/normalize/internal/config"
	"github.com/born-ml/normalize/internal/nn"
	"github.com/born-ml/normalize/tensor"
)

// Layer is a differentiable operator over blobs.
type Layer = nn.Layer

// Forward reshapes top to fit bottom and runs l's forward pass.
func Forward(l Layer, bottom, top []*tensor.Blob) error {
	return nn.Forward(l, bottom, top)
}

// Normalize is the L2 normalization layer.
type Normalize = nn.Normalize

// NormalizeOption configures a Normalize layer.
type NormalizeOption = nn.NormalizeOption

// LayerParameter is a layer definition as read from YAML.
type LayerParameter = config.LayerParameter

// NewNormalize creates a Normalize layer running on backend.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewNormalize(backend, nn.WithEpsilon(1e-12))
func NewNormalize(backend tensor.Backend, opts ...NormalizeOption) *Normalize {
	return nn.NewNormalize(backend, opts...)
}

// NewNormalizeFromParam creates a Normalize layer from a layer definition.
// The layer owns its backend; call Close when done.
func NewNormalizeFromParam(p *LayerParameter, opts ...NormalizeOption) (*Normalize, error) {
	return nn.NewNormalizeFromParam(p, opts...)
}

// LoadLayerParameter reads a YAML layer definition from path.
func LoadLayerParameter(path string) (*LayerParameter, error) {
	return config.Load(path)
}

// WithEpsilon clamps each sample norm to at least eps.
func WithEpsilon(eps float64) NormalizeOption {
	return nn.WithEpsilon(eps)
}

// WithLogger sets the logger used for cache and zero-norm diagnostics.
func WithLogger(logger *zap.Logger) NormalizeOption {
	return nn.WithLogger(logger)
}
