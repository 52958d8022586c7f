package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	orbitKeySpeed   = 1.5   // Radians per second for arrow-key orbit
	orbitMouseSpeed = 0.005 // Radians per pixel of right-drag
	maxSteps        = 10
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxSteps {
		g.stepsPerUpdate++
	}

	// Overlay toggles feed the flock's debug draw switches
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if _, _, ok := g.overlays.HandleKeyPress(key); ok {
			g.flock.SetDebug(g.overlays.DebugConfig())
		}
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyW) {
		g.swapNow()
	}

	// Flock membership
	if rl.IsKeyPressed(rl.KeyM) {
		g.spawnBoid()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		g.removeLastBoid()
	}

	g.handleCameraInput()
	g.handleSelectionInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(float64(w), float64(h))
	g.background.Resize(w, h)
	g.inspector.Resize(w, h)
	g.perfPanel.SetPosition(10, h-140)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	dt := float64(rl.GetFrameTime())

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Orbit(-float64(d.X)*orbitMouseSpeed, float64(d.Y)*orbitMouseSpeed)
	}

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(orbitKeySpeed*dt, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-orbitKeySpeed*dt, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, orbitKeySpeed*dt)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -orbitKeySpeed*dt)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// swapNow fires one swap batch immediately.
func (g *Game) swapNow() {
	if n := g.flock.SwapNow(); n > 0 {
		g.logger.Debug("manual swap", "swaps", n)
	}
}

// spawnBoid adds one airborne boid behind the leader.
func (g *Game) spawnBoid() {
	sim := g.cfg.Simulation
	leader := g.world.Leader()

	angle := g.rng.Float64() * 2 * math.Pi
	offset := r3.Vec{
		X: math.Cos(angle) * sim.SpawnRadius * g.rng.Float64(),
		Y: math.Sin(angle) * sim.SpawnRadius * g.rng.Float64(),
	}
	behind := r3.Scale(-2*sim.SpawnRadius, leader.Forward())
	pos := r3.Add(leader.Position(), r3.Add(behind, offset))

	g.registerBoid(g.world.SpawnBoid(pos, sim.BoidMaxSpeed, sim.BoidMaxAccel, true))
}

// removeLastBoid drops the boid in the last formation slot.
func (g *Game) removeLastBoid() {
	agents := g.flock.Agents()
	if len(agents) == 0 {
		return
	}
	if b, ok := g.boidAt(len(agents) - 1); ok {
		g.unregisterBoid(b)
	}
}
