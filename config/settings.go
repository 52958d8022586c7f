package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FloatInterval is an inclusive [Min, Max] range of seconds.
type FloatInterval struct {
	Min float64 `yaml:"min" toml:"min" validate:"gte=0"`
	Max float64 `yaml:"max" toml:"max" validate:"gte=0,gtefield=Min"`
}

// IntInterval is an inclusive [Min, Max] range of counts.
type IntInterval struct {
	Min int `yaml:"min" toml:"min" validate:"gte=1"`
	Max int `yaml:"max" toml:"max" validate:"gte=1,gtefield=Min"`
}

// FlockSettings holds the weights and radii of the four flock behaviors,
// the queue shaping curve and the position swap policy.
type FlockSettings struct {
	// How much of the force following the owner is kept
	PursuitWeight float64 `yaml:"pursuit_weight" toml:"pursuit_weight" validate:"gte=0"`
	// Radius around the pursuit target inside which boids decelerate
	PursuitSlowdownRadius float64 `yaml:"pursuit_slowdown_radius" toml:"pursuit_slowdown_radius" validate:"gte=0"`
	// Units behind the owner of the point boids try to reach
	PursuitDistanceBehind float64 `yaml:"pursuit_distance_behind" toml:"pursuit_distance_behind" validate:"gte=0"`
	// Multiplier removed from steering that points against the owner's facing
	NonForwardBrakingFactor float64 `yaml:"non_forward_braking_factor" toml:"non_forward_braking_factor" validate:"gte=0"`

	AlignmentWeight  float64 `yaml:"alignment_weight" toml:"alignment_weight" validate:"gte=0"`
	AlignmentRadius  float64 `yaml:"alignment_radius" toml:"alignment_radius" validate:"gte=0"`
	CohesionWeight   float64 `yaml:"cohesion_weight" toml:"cohesion_weight" validate:"gte=0"`
	CohesionRadius   float64 `yaml:"cohesion_radius" toml:"cohesion_radius" validate:"gte=0"`
	SeparationWeight float64 `yaml:"separation_weight" toml:"separation_weight" validate:"gte=0"`
	SeparationRadius float64 `yaml:"separation_radius" toml:"separation_radius" validate:"gte=0"`

	// Optional slot -> distance multiplier; nil samples as 1
	QueueCurve QueueCurve `yaml:"-" toml:"-" json:"-" validate:"-"`

	AllowSwapPositions bool          `yaml:"allow_swap_positions" toml:"allow_swap_positions"`
	SwapDelay          FloatInterval `yaml:"swap_delay" toml:"swap_delay"`       // Seconds between swap batches
	SwapDistance       IntInterval   `yaml:"swap_distance" toml:"swap_distance"` // Slot distance between swapped boids
	SwapCount          IntInterval   `yaml:"swap_count" toml:"swap_count"`       // Swaps per batch
}

// DefaultSettings returns the settings a flock starts with.
func DefaultSettings() FlockSettings {
	return FlockSettings{
		PursuitWeight:           1,
		PursuitSlowdownRadius:   500,
		PursuitDistanceBehind:   500,
		NonForwardBrakingFactor: 1,
		AlignmentWeight:         1,
		AlignmentRadius:         300,
		CohesionWeight:          1,
		CohesionRadius:          500,
		SeparationWeight:        1,
		SeparationRadius:        300,
		SwapDelay:               FloatInterval{Min: 2, Max: 5},
		SwapDistance:            IntInterval{Min: 1, Max: 3},
		SwapCount:               IntInterval{Min: 1, Max: 1},
	}
}

// Curve returns the queue curve, or a constant 1 when none is set.
func (s *FlockSettings) Curve() QueueCurve {
	if s.QueueCurve == nil {
		return ConstantCurve(1)
	}
	return s.QueueCurve
}

// LerpBetween sets every numeric field to the interpolation between start
// and end at ratio. Ratio 0 yields start and ratio 1 yields end exactly.
// Non-numeric fields are left untouched.
func (s *FlockSettings) LerpBetween(start, end FlockSettings, ratio float64) {
	s.PursuitWeight = lerp(start.PursuitWeight, end.PursuitWeight, ratio)
	s.PursuitSlowdownRadius = lerp(start.PursuitSlowdownRadius, end.PursuitSlowdownRadius, ratio)
	s.PursuitDistanceBehind = lerp(start.PursuitDistanceBehind, end.PursuitDistanceBehind, ratio)
	s.NonForwardBrakingFactor = lerp(start.NonForwardBrakingFactor, end.NonForwardBrakingFactor, ratio)
	s.AlignmentWeight = lerp(start.AlignmentWeight, end.AlignmentWeight, ratio)
	s.AlignmentRadius = lerp(start.AlignmentRadius, end.AlignmentRadius, ratio)
	s.CohesionWeight = lerp(start.CohesionWeight, end.CohesionWeight, ratio)
	s.CohesionRadius = lerp(start.CohesionRadius, end.CohesionRadius, ratio)
	s.SeparationWeight = lerp(start.SeparationWeight, end.SeparationWeight, ratio)
	s.SeparationRadius = lerp(start.SeparationRadius, end.SeparationRadius, ratio)
}

// CopyPolicy copies the non-interpolated fields from src.
func (s *FlockSettings) CopyPolicy(src FlockSettings) {
	s.QueueCurve = src.QueueCurve
	s.AllowSwapPositions = src.AllowSwapPositions
	s.SwapDelay = src.SwapDelay
	s.SwapDistance = src.SwapDistance
	s.SwapCount = src.SwapCount
}

func lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}

// SettingsData is a named, loadable settings asset: the target settings and
// how long the flock takes to blend into them.
type SettingsData struct {
	Name               string        `yaml:"name" toml:"name"`
	TransitionDuration float64       `yaml:"transition_duration" toml:"transition_duration" validate:"gte=0"`
	Settings           FlockSettings `yaml:"settings" toml:"settings"`
	QueueCurve         []CurveKey    `yaml:"queue_curve,omitempty" toml:"queue_curve,omitempty" validate:"dive"`
}

// DefaultSettingsData returns the built-in settings asset.
func DefaultSettingsData() *SettingsData {
	return &SettingsData{
		Name:               "default",
		TransitionDuration: 1,
		Settings:           DefaultSettings(),
	}
}

// resolve builds runtime-only fields from the serialized ones.
func (d *SettingsData) resolve() {
	if curve := NewStepCurve(d.QueueCurve); curve != nil {
		d.Settings.QueueCurve = curve
	} else {
		d.Settings.QueueCurve = nil
	}
}

// settingsValidate is the validator instance for settings assets.
var settingsValidate *validator.Validate

func init() {
	settingsValidate = validator.New(validator.WithRequiredStructEnabled())
	settingsValidate.RegisterStructValidation(validateSwapPolicy, FlockSettings{})
}

// validateSwapPolicy rejects an enabled swap policy that would refire
// without any delay.
func validateSwapPolicy(sl validator.StructLevel) {
	s := sl.Current().Interface().(FlockSettings)
	if s.AllowSwapPositions && s.SwapDelay.Max <= 0 {
		sl.ReportError(s.SwapDelay.Max, "SwapDelay.Max", "Max", "swapdelay", "")
	}
}

// ErrInvalidSettings is returned when a settings asset fails validation.
var ErrInvalidSettings = errors.New("invalid flock settings")

// Validate checks that every numeric field is non-negative and every
// interval is ordered.
func (d *SettingsData) Validate() error {
	err := settingsValidate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
}
