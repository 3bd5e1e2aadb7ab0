// Package config loads layer definitions from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerType is the operator type the Normalize layer registers under.
const LayerType = "Normalize"

// Engine selects the kernel implementation a layer runs on.
type Engine string

// Supported engines.
const (
	EngineDefault Engine = "default" // scalar reference kernels
	EngineSIMD    Engine = "simd"    // go-highway vectorized kernels
)

// Errors returned by Validate.
var (
	ErrWrongLayerType = errors.New("layer type is not " + LayerType)
	ErrUnknownEngine  = errors.New("unknown engine")
	ErrInvalidEps     = errors.New("eps must be a finite value >= 0")
	ErrTooManyBlobs   = errors.New("normalize takes exactly one bottom and one top")
)

// LayerParameter describes one layer of a network definition.
type LayerParameter struct {
	Name      string             `yaml:"name"`
	Type      string             `yaml:"type"`
	Bottom    []string           `yaml:"bottom,omitempty"`
	Top       []string           `yaml:"top,omitempty"`
	Normalize NormalizeParameter `yaml:"normalize_param"`
}

// NormalizeParameter holds the Normalize-specific settings.
type NormalizeParameter struct {
	// Eps clamps the per-sample norm from below. 0 keeps the unclamped
	// behaviour where an all-zero sample produces NaN.
	Eps        float64 `yaml:"eps"`
	Engine     Engine  `yaml:"engine"`
	Parallel   *bool   `yaml:"parallel,omitempty"`
	NumWorkers int     `yaml:"num_workers,omitempty"`
}

// ParallelOrDefault returns whether samples may run on several workers;
// defaults to true when unset.
func (p *NormalizeParameter) ParallelOrDefault() bool {
	if p.Parallel != nil {
		return *p.Parallel
	}
	return true
}

// Load reads and parses the layer definition at path and applies defaults.
func Load(path string) (*LayerParameter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layer config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML layer definition, applies defaults and validates it.
func Parse(data []byte) (*LayerParameter, error) {
	var p LayerParameter
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse layer config: %w", err)
	}

	ApplyDefaults(&p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes p to path as YAML.
func Save(path string, p *LayerParameter) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal layer config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write layer config: %w", err)
	}
	return nil
}

// Validate checks that p describes a usable Normalize layer.
func (p *LayerParameter) Validate() error {
	if p.Type != LayerType {
		return fmt.Errorf("%w: got %q", ErrWrongLayerType, p.Type)
	}
	if len(p.Bottom) > 1 || len(p.Top) > 1 {
		return fmt.Errorf("%w: bottom=%v top=%v", ErrTooManyBlobs, p.Bottom, p.Top)
	}
	switch p.Normalize.Engine {
	case EngineDefault, EngineSIMD:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEngine, p.Normalize.Engine)
	}
	if eps := p.Normalize.Eps; eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidEps, eps)
	}
	if p.Normalize.NumWorkers < 0 {
		return fmt.Errorf("num_workers must be >= 0, got %d", p.Normalize.NumWorkers)
	}
	return nil
}
