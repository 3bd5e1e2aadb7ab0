package config

// ApplyDefaults sets default values for any zero values in p.
func ApplyDefaults(p *LayerParameter) {
	if p.Type == "" {
		p.Type = LayerType
	}
	if p.Name == "" {
		p.Name = "normalize"
	}
	if p.Normalize.Engine == "" {
		p.Normalize.Engine = EngineDefault
	}
}

// Default returns a fully defaulted Normalize layer definition.
func Default() *LayerParameter {
	p := &LayerParameter{}
	ApplyDefaults(p)
	return p
}
