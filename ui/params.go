package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParamSlider describes one integer tunable on the params panel.
type ParamSlider struct {
	Name     string // wire name passed back in PanelResult.Changed
	Label    string
	Min, Max float32
}

// PanelAction is a button press on the params panel.
type PanelAction int

const (
	ActionNone PanelAction = iota
	ActionToggleRun
	ActionStep
	ActionRestart
)

// PanelResult is what the user changed during one Draw call.
type PanelResult struct {
	Changed map[string]int64
	Speed   int
	Action  PanelAction
}

// ParamsPanel renders raygui sliders for world parameters plus run
// controls.
type ParamsPanel struct {
	renderer *Renderer
	sliders  []ParamSlider
	x, y     int32
	width    int32
	visible  bool

	MaxSpeed int
}

// NewParamsPanel creates a hidden panel for the given sliders.
func NewParamsPanel(x, y, width int32, sliders []ParamSlider) *ParamsPanel {
	return &ParamsPanel{
		renderer: NewRenderer(),
		sliders:  sliders,
		x:        x,
		y:        y,
		width:    width,
		MaxSpeed: 64,
	}
}

// SetPosition updates the panel position.
func (p *ParamsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *ParamsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *ParamsPanel) IsVisible() bool { return p.visible }

// Height returns the panel height for the current slider set.
func (p *ParamsPanel) Height() int32 {
	return int32(len(p.sliders)+1)*36 + 80
}

// Contains reports whether a screen point is over the visible panel.
func (p *ParamsPanel) Contains(mx, my float32) bool {
	if !p.visible {
		return false
	}
	x, y := int32(mx), int32(my)
	return x >= p.x && x <= p.x+p.width && y >= p.y && y <= p.y+p.Height()
}

// Draw renders the panel. values holds the current value for each slider
// name; only sliders the user moved appear in the result.
func (p *ParamsPanel) Draw(values map[string]int64, speed int, paused bool) PanelResult {
	res := PanelResult{Speed: speed}
	if !p.visible {
		return res
	}

	r := p.renderer
	pad := r.Theme.Padding
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := float32(p.x + pad)
	y := float32(p.y + pad)
	sliderW := float32(p.width - 2*pad - 50)

	rl.DrawText("Parameters", int32(x), int32(y), 16, rl.White)
	y += 24

	for _, s := range p.sliders {
		cur := float32(values[s.Name])
		rl.DrawText(s.Label, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
		y += 14
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
			"", "",
			cur, s.Min, s.Max,
		)
		rl.DrawText(fmt.Sprintf("%d", values[s.Name]), int32(x+sliderW+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
		if v := int64(math.Round(float64(next))); v != values[s.Name] {
			if res.Changed == nil {
				res.Changed = make(map[string]int64)
			}
			res.Changed[s.Name] = v
		}
		y += 22
	}

	rl.DrawText("Ticks per frame", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 14
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 16},
		"", "",
		float32(speed), 1, float32(p.MaxSpeed),
	)
	res.Speed = max(1, int(math.Round(float64(next))))
	rl.DrawText(fmt.Sprintf("%d", res.Speed), int32(x+sliderW+6), int32(y+2), r.Theme.FontSize, r.Theme.ValueColor)
	y += 30

	bw := (float32(p.width-2*pad) - 20) / 3
	label := "Pause"
	if paused {
		label = "Run"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 26}, label) {
		res.Action = ActionToggleRun
	}
	if gui.Button(rl.Rectangle{X: x + bw + 10, Y: y, Width: bw, Height: 26}, "Step") {
		res.Action = ActionStep
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+10), Y: y, Width: bw, Height: 26}, "Restart") {
		res.Action = ActionRestart
	}

	return res
}
