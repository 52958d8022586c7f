package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the left-side panel with overlay toggles and
// settings preset buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// ControlsResult reports what the user changed this frame.
type ControlsResult struct {
	OverlaysChanged bool
	Preset          int // Index of the clicked preset, -1 if none
	SwapNow         bool
}

// Draw renders the panel. Checkbox clicks update overlays directly.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, presets []string, active string) ControlsResult {
	res := ControlsResult{Preset: -1}
	if !c.visible {
		return res
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	rowHeight := lineHeight + 4
	inner := c.width - padding*2

	categories := overlays.Categories()
	rows := len(overlays.All()) + len(categories) + len(presets) + 2
	panelHeight := int32(rows)*rowHeight + padding*3 + lineHeight + 30
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			if c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), inner) {
				overlays.Toggle(desc.ID)
				res.OverlaysChanged = true
			}
			y += rowHeight
		}
		y += 4
	}

	y = r.DrawSectionHeader(c.x+padding, y, "Settings")
	for i, name := range presets {
		label := name
		if name == active {
			label = "> " + name
		}
		bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: float32(inner), Height: float32(lineHeight + 2)}
		if gui.Button(bounds, label) {
			res.Preset = i
		}
		y += rowHeight
	}

	y += 4
	bounds := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: float32(inner), Height: float32(lineHeight + 6)}
	res.SwapNow = gui.Button(bounds, "Swap Now [W]")

	return res
}

// drawToggle draws one overlay checkbox and reports whether it was clicked.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) bool {
	r := c.renderer

	label := desc.Name
	if desc.Color.A > 0 {
		rl.DrawRectangle(x+width-40, y+3, 10, 10, desc.Color)
	}

	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}
	clicked := gui.CheckBox(bounds, label, enabled) != enabled

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}

	return clicked
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "forces":
		return "Debug Forces"
	case "scene":
		return "Scene"
	default:
		return cat
	}
}
