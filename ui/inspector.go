package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// AgentInfo is what the inspector shows for the selected boid.
type AgentInfo struct {
	ID       uuid.UUID
	Slot     int
	Position r3.Vec
	Velocity r3.Vec
	MaxSpeed float64
	CanFly   bool

	// Distance to the slot's formation point
	SlotError float64

	// From the lifetime tracker; zero when unknown
	SlotChanges   int
	DistanceFlown float64
	PeakSpeed     float64
}

// Inspector renders the selected agent panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates an inspector anchored at the bottom-right of a
// screen of the given size.
func NewInspector(screenW, screenH int32) *Inspector {
	in := &Inspector{renderer: NewRenderer(), width: 260}
	in.Resize(screenW, screenH)
	return in
}

// Resize re-anchors the panel.
func (in *Inspector) Resize(screenW, screenH int32) {
	in.x = screenW - in.width - 10
	in.y = screenH - 220
}

// Draw renders the panel for info.
func (in *Inspector) Draw(info AgentInfo) {
	r := in.renderer
	padding := r.Theme.Padding
	r.DrawPanel(in.x, in.y, in.width, 190)

	x := in.x + padding
	y := r.DrawSectionHeader(x, in.y+padding, fmt.Sprintf("Boid - slot %d", info.Slot))

	flight := "flying"
	if !info.CanFly {
		flight = "grounded"
	}

	y = r.DrawLabelValue(x, y, "ID", info.ID.String()[:8])
	y = r.DrawLabelValue(x, y, "Mode", flight)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.0f, %.0f, %.0f", info.Position.X, info.Position.Y, info.Position.Z))
	y = r.DrawBar(x, y, "Speed", float32(speedRatio(info)), in.width-padding*2)
	y = r.DrawLabelValue(x, y, "Slot error", fmt.Sprintf("%.0f", info.SlotError))
	y = r.DrawLabelValue(x, y, "Slot moves", fmt.Sprintf("%d", info.SlotChanges))
	y = r.DrawLabelValue(x, y, "Flown", fmt.Sprintf("%.0f", info.DistanceFlown))
	r.DrawLabelValue(x, y, "Peak speed", fmt.Sprintf("%.0f", info.PeakSpeed))

	rl.DrawText("[Tab] next  [Bksp] clear", x, in.y+190-padding-12, 10, rl.Gray)
}

func speedRatio(info AgentInfo) float64 {
	if info.MaxSpeed <= 0 {
		return 0
	}
	return r3.Norm(info.Velocity) / info.MaxSpeed
}
