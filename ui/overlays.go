package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/flock"
	"github.com/pthm-cable/flock/renderer"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayBoidSphere       OverlayID = "boid_sphere"
	OverlayPursuitForce     OverlayID = "pursuit_force"
	OverlayAlignmentForce   OverlayID = "alignment_force"
	OverlayCohesionForce    OverlayID = "cohesion_force"
	OverlaySeparationForce  OverlayID = "separation_force"
	OverlayFormationTargets OverlayID = "formation_targets"
	OverlayLeaderPath       OverlayID = "leader_path"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID // Unique identifier
	Name        string    // Display name
	Description string    // What this overlay shows
	Key         int32     // Keyboard key to toggle (0 = no key)
	KeyLabel    string    // Key label for display
	Category    string    // Grouping ("forces" or "scene")
	Color       rl.Color  // Legend swatch (zero = none)
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayBoidSphere,
		Name:        "Boid Spheres",
		Description: "Wire sphere around every boid",
		Key:         rl.KeyOne,
		KeyLabel:    "1",
		Category:    "forces",
		Color:       renderer.FromColor(flock.ColorBoidSphere),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPursuitForce,
		Name:        "Pursuit",
		Description: "Weighted pursuit force",
		Key:         rl.KeyTwo,
		KeyLabel:    "2",
		Category:    "forces",
		Color:       renderer.FromColor(flock.ColorPursuit),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayAlignmentForce,
		Name:        "Alignment",
		Description: "Weighted alignment force",
		Key:         rl.KeyThree,
		KeyLabel:    "3",
		Category:    "forces",
		Color:       renderer.FromColor(flock.ColorAlignment),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCohesionForce,
		Name:        "Cohesion",
		Description: "Weighted cohesion force",
		Key:         rl.KeyFour,
		KeyLabel:    "4",
		Category:    "forces",
		Color:       renderer.FromColor(flock.ColorCohesion),
	})
	r.Register(OverlayDescriptor{
		ID:          OverlaySeparationForce,
		Name:        "Separation",
		Description: "Weighted separation force",
		Key:         rl.KeyFive,
		KeyLabel:    "5",
		Category:    "forces",
		Color:       renderer.FromColor(flock.ColorSeparation),
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayFormationTargets,
		Name:        "Formation Points",
		Description: "Pursuit target of every slot",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "scene",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayLeaderPath,
		Name:        "Leader Path",
		Description: "The circle the leader flies",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "scene",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.byID[id]; !ok {
		return
	}
	r.enabled[id] = enabled
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// DebugConfig returns the flock debug toggles the force overlays map to.
func (r *OverlayRegistry) DebugConfig() config.DebugConfig {
	return config.DebugConfig{
		DrawBoidSphere:      r.enabled[OverlayBoidSphere],
		DrawPursuitForce:    r.enabled[OverlayPursuitForce],
		DrawAlignmentForce:  r.enabled[OverlayAlignmentForce],
		DrawCohesionForce:   r.enabled[OverlayCohesionForce],
		DrawSeparationForce: r.enabled[OverlaySeparationForce],
	}
}

// SetDebugConfig enables the force overlays that d turns on.
func (r *OverlayRegistry) SetDebugConfig(d config.DebugConfig) {
	r.SetEnabled(OverlayBoidSphere, d.DrawBoidSphere)
	r.SetEnabled(OverlayPursuitForce, d.DrawPursuitForce)
	r.SetEnabled(OverlayAlignmentForce, d.DrawAlignmentForce)
	r.SetEnabled(OverlayCohesionForce, d.DrawCohesionForce)
	r.SetEnabled(OverlaySeparationForce, d.DrawSeparationForce)
}
