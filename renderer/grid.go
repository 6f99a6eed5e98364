// Package renderer draws the cell grid and agents with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dnagrid/camera"
	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/systems"
)

// Palette holds the colors for each cell state and gender.
type Palette struct {
	Background rl.Color
	Empty      rl.Color
	Food       rl.Color
	Poison     rl.Color
	Wall       rl.Color
	Male       rl.Color
	Female     rl.Color
	Selection  rl.Color
	GridLine   rl.Color
}

// DefaultPalette matches the browser viewer: dark cells, green food,
// violet poison, cyan males and pink females.
func DefaultPalette() Palette {
	return Palette{
		Background: rl.Color{R: 12, G: 12, B: 16, A: 255},
		Empty:      rl.Color{R: 24, G: 24, B: 30, A: 255},
		Food:       rl.Color{R: 60, G: 200, B: 90, A: 255},
		Poison:     rl.Color{R: 160, G: 70, B: 200, A: 255},
		Wall:       rl.Color{R: 110, G: 110, B: 110, A: 255},
		Male:       rl.Color{R: 60, G: 200, B: 230, A: 255},
		Female:     rl.Color{R: 240, G: 110, B: 180, A: 255},
		Selection:  rl.Color{R: 255, G: 230, B: 90, A: 255},
		GridLine:   rl.Color{R: 40, G: 40, B: 48, A: 255},
	}
}

// CellColor returns the fill for a cell state.
func (p Palette) CellColor(t systems.CellType) rl.Color {
	switch t {
	case systems.CellFood:
		return p.Food
	case systems.CellPoison:
		return p.Poison
	case systems.CellWall:
		return p.Wall
	default:
		return p.Empty
	}
}

// GenderColor returns the fill for an agent.
func (p Palette) GenderColor(g components.Gender) rl.Color {
	if g == components.Female {
		return p.Female
	}
	return p.Male
}

// GridRenderer draws the resource layer and agents through a camera.
type GridRenderer struct {
	Palette Palette

	// ShowGridLines draws cell borders once cells are large enough.
	ShowGridLines bool
}

// NewGridRenderer creates a renderer with the default palette.
func NewGridRenderer() *GridRenderer {
	return &GridRenderer{Palette: DefaultPalette(), ShowGridLines: true}
}

// Draw renders visible cells, then agents as circles. agents holds
// x, y, gender triples.
func (r *GridRenderer) Draw(cam *camera.Camera, cells []systems.CellType, agents []uint32) {
	rl.ClearBackground(r.Palette.Background)

	x0, y0, x1, y1 := cam.VisibleCells()
	for y := y0; y <= y1; y++ {
		row := int(y) * int(cam.Cols)
		for x := x0; x <= x1; x++ {
			sx, sy, size := cam.CellRect(x, y)
			rl.DrawRectangleV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: size, Y: size},
				r.Palette.CellColor(cells[row+int(x)]))
		}
	}

	if r.ShowGridLines {
		r.drawGridLines(cam, x0, y0, x1, y1)
	}

	radius := cam.CellSize * cam.Zoom * 0.42
	for i := 0; i+2 < len(agents); i += 3 {
		x, y := agents[i], agents[i+1]
		if x < x0 || x > x1 || y < y0 || y > y1 {
			continue
		}
		sx, sy, size := cam.CellRect(x, y)
		rl.DrawCircleV(rl.Vector2{X: sx + size/2, Y: sy + size/2}, radius,
			r.Palette.GenderColor(components.Gender(agents[i+2])))
	}
}

// DrawSelection outlines one cell.
func (r *GridRenderer) DrawSelection(cam *camera.Camera, x, y uint32) {
	sx, sy, size := cam.CellRect(x, y)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 2, r.Palette.Selection)
}

func (r *GridRenderer) drawGridLines(cam *camera.Camera, x0, y0, x1, y1 uint32) {
	if cam.CellSize*cam.Zoom < 6 {
		return
	}
	left, top, _ := cam.CellRect(x0, y0)
	right, bottom, size := cam.CellRect(x1, y1)
	right += size
	bottom += size

	for x := x0; x <= x1+1; x++ {
		sx, _, _ := cam.CellRect(x, y0)
		rl.DrawLineV(rl.Vector2{X: sx, Y: top}, rl.Vector2{X: sx, Y: bottom}, r.Palette.GridLine)
	}
	for y := y0; y <= y1+1; y++ {
		_, sy, _ := cam.CellRect(x0, y)
		rl.DrawLineV(rl.Vector2{X: left, Y: sy}, rl.Vector2{X: right, Y: sy}, r.Palette.GridLine)
	}
}
