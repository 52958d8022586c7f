package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/ui"
	"github.com/pthm-cable/flock/world"
)

const controlsHelp = "[Space] pause  [,/.] speed  [1-5] forces  [T] targets  [L] path  " +
	"[W] swap  [M/N] add/remove  [H] panel  [P] perf  [RMB/arrows] orbit"

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.background.Draw()

	leader := g.world.Leader()
	g.scene.Begin(g.camera)
	g.scene.DrawGround(leader.Position())

	if g.overlays.IsEnabled(ui.OverlayLeaderPath) {
		path := leader.Path()
		g.scene.DrawPath(path.Center, path.Radius, path.Altitude)
	}
	if g.overlays.IsEnabled(ui.OverlayFormationTargets) {
		for _, t := range g.flock.FormationTargets() {
			g.scene.DrawTarget(t)
		}
	}

	g.scene.DrawLeader(leader.Position(), leader.Forward())
	g.drawBoids()

	// Force lines and spheres requested by the last tick
	g.debugBuf.Replay(renderer.DebugDrawer{})

	g.scene.End()

	g.drawUI()

	rl.EndDrawing()
}

// drawBoids draws every registered boid and rings the selected one.
func (g *Game) drawBoids() {
	agents, targets := g.flock.Formation()
	for slot, a := range agents {
		b, ok := a.(*world.Boid)
		if !ok {
			continue
		}
		pos := b.Position()
		if !g.camera.IsVisible(pos, 100) {
			continue
		}
		g.scene.DrawBoid(pos, b.Forward(), b.CanFly())
		if b.ID() == g.selected {
			rl.DrawSphereWires(renderer.ToRL(pos), 80, 6, 12, rl.White)
			g.scene.DrawTarget(targets[slot])
		}
	}
}

// drawUI draws the 2D panels on top of the scene.
func (g *Game) drawUI() {
	grounded := 0
	for _, a := range g.flock.Agents() {
		if b, ok := a.(*world.Boid); ok && !b.CanFly() {
			grounded++
		}
	}

	g.hud.Draw(ui.HUDData{
		Title:           "Flock",
		Agents:          g.flock.Len(),
		Grounded:        grounded,
		Tick:            g.tick,
		Speed:           g.stepsPerUpdate,
		FPS:             rl.GetFPS(),
		Paused:          g.paused,
		SettingsName:    g.flock.SettingsName(),
		TransitionRatio: g.flock.TransitionRatio(),
		Swaps:           g.totalSwaps,
	}, g.screenWidth)
	g.hud.DrawControls(g.screenHeight, controlsHelp)

	res := g.controls.Draw(g.overlays, g.PresetNames(), g.flock.SettingsName())
	if res.OverlaysChanged {
		g.flock.SetDebug(g.overlays.DebugConfig())
	}
	if res.Preset >= 0 {
		g.ApplyPreset(res.Preset)
	}
	if res.SwapNow {
		g.swapNow()
	}

	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if info, ok := g.selectedInfo(); ok {
		g.inspector.Draw(info)
	}

	if g.paused {
		msg := "PAUSED"
		w := rl.MeasureText(msg, 30)
		rl.DrawText(msg, g.screenWidth/2-w/2, 20, 30, rl.Yellow)
	}
	if dir := g.outputManager.Dir(); dir != "" {
		rl.DrawText(fmt.Sprintf("output: %s", dir), 10, g.screenHeight-20, 10, rl.LightGray)
	}
}
