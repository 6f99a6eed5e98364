package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       uint64
	Population int
	Males      int
	Females    int
	Food       int
	Poison     int
	MeanEnergy float64
	AvgGenes   [genome.Size]float64

	TicksPerFrame int
	FPS           int32
	Paused        bool
	Legend        []LegendEntry
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 260}
}

// Width returns the HUD panel width.
func (h *HUD) Width() int32 { return h.width }

// Draw renders the HUD and returns the y just below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	pad := r.Theme.Padding
	height := 150 + int32(genome.Size)*(r.Theme.LineHeight+2)
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad
	inner := h.width - 2*pad

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d (%d m / %d f)", data.Population, data.Males, data.Females))
	y = r.DrawLabelValue(x, y, "Resources", fmt.Sprintf("%d food / %d poison", data.Food, data.Poison))
	y = r.DrawLabelValue(x, y, "Energy", fmt.Sprintf("%.1f mean", data.MeanEnergy))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%dx | %d fps", data.TicksPerFrame, data.FPS))

	status, color := "Running", rl.Green
	if data.Paused {
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, x, y, r.Theme.FontSize, color)
	y += r.Theme.LineHeight + 4

	y = r.DrawSectionHeader(x, y, "Average genome")
	for i, v := range data.AvgGenes {
		y = r.DrawBar(x, y, genome.Category(i).String(), float32(v), 255, inner)
	}

	lx := x
	for _, e := range data.Legend {
		lx = r.DrawColorSwatch(lx, y+2, e.Label, e.Color)
	}

	return h.y + height
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel. Phase display names come
// from reg.
func NewPerfPanel(x, y int32, reg *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: reg,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel in phase execution order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	phases := p.registry.All()
	height := int32(60 + 14*len(phases))
	p.renderer.DrawPanel(p.x, p.y, 260, height)

	x := p.x + p.renderer.Theme.Padding
	y := p.y + p.renderer.Theme.Padding

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow)
	y += 16

	for _, phase := range phases {
		avg := stats.PhaseAvg[phase.ID]
		pct := stats.PhasePct[phase.ID]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
