// Package inspector shows the contents of a selected grid cell: its
// resource and, when occupied, the agent's components and lifetime stats.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dnagrid/camera"
	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Source is the world state the inspector reads.
type Source interface {
	CellAt(x, y uint32) (systems.CellType, bool)
	AgentAt(x, y uint32) (components.Agent, bool)
	Lifetime(id uint32) (telemetry.LifetimeStats, bool)
}

// Inspector manages cell selection and panel rendering.
type Inspector struct {
	x, y        uint32
	hasSelected bool

	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize keeps the panel anchored to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput selects the cell under a left click and clears the
// selection on right click or Escape. Clicks on the panel are ignored.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cam *camera.Camera) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		mx, my := int32(mouseX), int32(mouseY)
		if mx >= closeX && mx <= closeX+20 && my >= closeY && my <= closeY+20 {
			ins.Deselect()
			return
		}
		if ins.Contains(mouseX, mouseY) {
			return
		}
	}

	if x, y, ok := cam.CellAt(mouseX, mouseY); ok {
		ins.Select(x, y)
	}
}

// Contains reports whether a screen point is over the open panel.
func (ins *Inspector) Contains(mouseX, mouseY float32) bool {
	if !ins.hasSelected {
		return false
	}
	mx, my := int32(mouseX), int32(mouseY)
	return mx >= ins.panelX && mx <= ins.panelX+PanelWidth &&
		my >= ins.panelY && my <= ins.panelY+ins.panelHeight(true)
}

// Select marks a cell.
func (ins *Inspector) Select(x, y uint32) {
	ins.x, ins.y = x, y
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected cell.
func (ins *Inspector) Selected() (x, y uint32, ok bool) {
	return ins.x, ins.y, ins.hasSelected
}

// Draw renders the inspector panel if a cell is selected.
func (ins *Inspector) Draw(src Source) {
	if !ins.hasSelected {
		return
	}
	cell, ok := src.CellAt(ins.x, ins.y)
	if !ok {
		ins.Deselect()
		return
	}
	agent, occupied := src.AgentAt(ins.x, ins.y)

	height := ins.panelHeight(occupied)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1, ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("INSPECTOR", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	y += DrawLabel(x, y, "Cell", fmt.Sprintf("(%d, %d) %s", ins.x, ins.y, cell), nil)

	if !occupied {
		rl.DrawText("(no agent)", x, y, 12, ColorLabelDim)
		return
	}

	_, energy, org, genes := agent.Split()

	y = ins.drawSectionHeader(x, y+4, "Agent")
	y = DrawComponent(x, y, org)
	y = DrawComponent(x, y, energy)
	y = DrawComponent(x, y, genes)

	y = ins.drawSectionHeader(x, y+4, "Lifetime")
	if stats, ok := src.Lifetime(agent.ID); ok {
		DrawComponent(x, y, stats)
	} else {
		rl.DrawText("(untracked)", x, y, 12, ColorLabelDim)
	}
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) int32 {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
	return y + 22
}

func (ins *Inspector) panelHeight(occupied bool) int32 {
	h := int32(HeaderHeight + 2*PanelPadding + 20)
	if !occupied {
		return h + 20
	}
	// Agent section: header, id, gender, energy bar, age, genome group.
	h += 26 + 20 + 20 + 18 + 20 + 44
	// Lifetime section: header plus one line per field.
	h += 26 + 10*20
	return h
}
