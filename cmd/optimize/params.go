package main

import (
	"github.com/pthm-cable/flock/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Settings asset key for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the flock weights and radii as optimizable
// parameters. Defaults match config.DefaultSettings.
func NewParamVector() *ParamVector {
	d := config.DefaultSettings()
	return &ParamVector{
		Specs: []ParamSpec{
			// Pursuit
			{Name: "pursuit_weight", Path: "settings.pursuit_weight", Min: 0.1, Max: 4, Default: d.PursuitWeight},
			{Name: "pursuit_slowdown_radius", Path: "settings.pursuit_slowdown_radius", Min: 50, Max: 1500, Default: d.PursuitSlowdownRadius},
			{Name: "non_forward_braking", Path: "settings.non_forward_braking_factor", Min: 0, Max: 2, Default: d.NonForwardBrakingFactor},
			// Neighbor behaviors
			{Name: "alignment_weight", Path: "settings.alignment_weight", Min: 0, Max: 4, Default: d.AlignmentWeight},
			{Name: "alignment_radius", Path: "settings.alignment_radius", Min: 50, Max: 1500, Default: d.AlignmentRadius},
			{Name: "cohesion_weight", Path: "settings.cohesion_weight", Min: 0, Max: 4, Default: d.CohesionWeight},
			{Name: "cohesion_radius", Path: "settings.cohesion_radius", Min: 50, Max: 1500, Default: d.CohesionRadius},
			{Name: "separation_weight", Path: "settings.separation_weight", Min: 0, Max: 4, Default: d.SeparationWeight},
			{Name: "separation_radius", Path: "settings.separation_radius", Min: 50, Max: 1500, Default: d.SeparationRadius},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToSettings writes parameter values into a settings asset.
// Order must match Specs order.
func (pv *ParamVector) ApplyToSettings(data *config.SettingsData, values []float64) {
	c := pv.Clamp(values)
	s := &data.Settings

	s.PursuitWeight = c[0]
	s.PursuitSlowdownRadius = c[1]
	s.NonForwardBrakingFactor = c[2]
	s.AlignmentWeight = c[3]
	s.AlignmentRadius = c[4]
	s.CohesionWeight = c[5]
	s.CohesionRadius = c[6]
	s.SeparationWeight = c[7]
	s.SeparationRadius = c[8]
}

// ExtractFromSettings reads parameter values from a settings asset.
func (pv *ParamVector) ExtractFromSettings(data *config.SettingsData) []float64 {
	s := data.Settings
	return []float64{
		s.PursuitWeight,
		s.PursuitSlowdownRadius,
		s.NonForwardBrakingFactor,
		s.AlignmentWeight,
		s.AlignmentRadius,
		s.CohesionWeight,
		s.CohesionRadius,
		s.SeparationWeight,
		s.SeparationRadius,
	}
}
