package game

import (
	"github.com/pthm-cable/flock/config"
)

// loadSettings builds the preset list and applies the initial asset.
// An in-memory asset wins over path, and path overrides the configured
// settings file; all empty means the built-in defaults.
func (g *Game) loadSettings(path string, data *config.SettingsData) error {
	if data != nil {
		g.presets = []*config.SettingsData{config.DefaultSettingsData(), data}
		g.applySettings(data)
		return nil
	}

	if path == "" {
		path = g.cfg.Flock.SettingsFile
	}
	g.settingsPath = path

	g.presets = []*config.SettingsData{config.DefaultSettingsData()}
	initial := g.presets[0]

	if path != "" {
		data, err := config.LoadSettings(path)
		if err != nil {
			return err
		}
		g.presets = append(g.presets, data)
		initial = data
	}

	for _, p := range g.cfg.Flock.Presets {
		if p == path {
			continue
		}
		data, err := config.LoadSettings(p)
		if err != nil {
			g.logger.Warn("skipping settings preset", "path", p, "error", err)
			continue
		}
		g.presets = append(g.presets, data)
	}

	if path != "" && g.cfg.Flock.WatchSettings {
		w, err := config.NewSettingsWatcher(path, g.queueSettings, g.logger)
		if err != nil {
			return err
		}
		g.watcher = w
	}

	g.applySettings(initial)
	return nil
}

// Watcher returns the settings file watcher, or nil when hot reload is off.
// The caller runs it.
func (g *Game) Watcher() *config.SettingsWatcher {
	return g.watcher
}

// queueSettings hands a reloaded asset to the simulation goroutine. It runs
// on the watcher goroutine. When the queue is full the oldest pending asset
// is dropped.
func (g *Game) queueSettings(data *config.SettingsData) {
	for {
		select {
		case g.settingsQueue <- data:
			return
		default:
		}
		select {
		case <-g.settingsQueue:
		default:
		}
	}
}

// drainSettings applies assets queued by the watcher.
func (g *Game) drainSettings() {
	for {
		select {
		case data := <-g.settingsQueue:
			g.replacePreset(data)
			g.applySettings(data)
		default:
			return
		}
	}
}

// replacePreset swaps a reloaded asset into the preset list by name.
func (g *Game) replacePreset(data *config.SettingsData) {
	for i, p := range g.presets {
		if p.Name == data.Name {
			g.presets[i] = data
			return
		}
	}
	g.presets = append(g.presets, data)
}

// applySettings starts a transition to data and records it.
func (g *Game) applySettings(data *config.SettingsData) {
	g.flock.ApplySettings(data)
	if err := g.outputManager.WriteSettings(data); err != nil {
		g.logger.Error("failed to write settings", "error", err)
	}
}

// ApplyPreset applies the preset at index i. Out-of-range indexes are
// ignored.
func (g *Game) ApplyPreset(i int) {
	if i < 0 || i >= len(g.presets) {
		return
	}
	g.applySettings(g.presets[i])
}

// PresetNames returns the names of the loaded presets in UI order.
func (g *Game) PresetNames() []string {
	names := make([]string, len(g.presets))
	for i, p := range g.presets {
		names[i] = p.Name
	}
	return names
}

// activeSettingsData captures the settings currently in effect as an asset.
func (g *Game) activeSettingsData() config.SettingsData {
	s := g.flock.Settings()
	data := config.SettingsData{
		Name:     g.flock.SettingsName(),
		Settings: s,
	}
	if curve, ok := s.QueueCurve.(*config.StepCurve); ok {
		data.QueueCurve = curve.Keys()
	}
	return data
}
