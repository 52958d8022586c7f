package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/ui"
	"github.com/pthm-cable/flock/world"
)

// maxPickDistance is how far from a boid, in pixels, a click still selects it.
const maxPickDistance = 20.0

// handleSelectionInput updates the selected boid from clicks and keys.
// Selection follows the boid, not its slot, so it survives swaps.
func (g *Game) handleSelectionInput() {
	if rl.IsKeyPressed(rl.KeyTab) {
		g.selectNext()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.selected = uuid.Nil
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		if slot, ok := g.findBoidAt(float64(m.X), float64(m.Y)); ok {
			if b, ok := g.boidAt(slot); ok {
				g.selected = b.ID()
			}
		}
	}
}

// selectNext moves the selection to the boid in the next slot.
func (g *Game) selectNext() {
	n := g.flock.Len()
	if n == 0 {
		return
	}
	next := 0
	if b := g.world.Boid(g.selected); b != nil {
		if slot := g.flock.Slot(b); slot >= 0 {
			next = (slot + 1) % n
		}
	}
	if b, ok := g.boidAt(next); ok {
		g.selected = b.ID()
	}
}

// findBoidAt returns the slot of the boid drawn nearest to the screen
// point, if one is within maxPickDistance.
func (g *Game) findBoidAt(sx, sy float64) (int, bool) {
	best := -1
	bestDist := maxPickDistance

	for slot, a := range g.flock.Agents() {
		px, py, ok := g.camera.WorldToScreen(a.Position())
		if !ok {
			continue
		}
		d := math.Hypot(px-sx, py-sy)
		if d < bestDist {
			bestDist = d
			best = slot
		}
	}
	return best, best >= 0
}

// boidAt returns the world boid registered in slot.
func (g *Game) boidAt(slot int) (*world.Boid, bool) {
	agents := g.flock.Agents()
	if slot < 0 || slot >= len(agents) {
		return nil, false
	}
	b, ok := agents[slot].(*world.Boid)
	return b, ok
}

// selectedInfo gathers the inspector data for the selected boid.
func (g *Game) selectedInfo() (ui.AgentInfo, bool) {
	b := g.world.Boid(g.selected)
	if b == nil {
		return ui.AgentInfo{}, false
	}
	agents, targets := g.flock.Formation()
	slot := -1
	for i, a := range agents {
		if a == b {
			slot = i
			break
		}
	}
	if slot < 0 {
		return ui.AgentInfo{}, false
	}

	info := ui.AgentInfo{
		ID:        b.ID(),
		Slot:      slot,
		Position:  b.Position(),
		Velocity:  b.Velocity(),
		MaxSpeed:  b.MaxSpeed(),
		CanFly:    b.CanFly(),
		SlotError: r3.Norm(r3.Sub(targets[slot], b.Position())),
	}
	if lt := g.lifetimeTracker.Get(b.ID()); lt != nil {
		info.SlotChanges = lt.SlotChanges
		info.DistanceFlown = lt.DistanceFlown
		info.PeakSpeed = lt.PeakSpeed
	}
	return info, true
}
