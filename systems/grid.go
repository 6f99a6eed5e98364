package systems

import "fmt"

// CellType is the resource layer state of one grid cell.
// Agent occupancy is tracked separately by SpatialIndex.
type CellType uint8

const (
	CellEmpty CellType = iota
	CellFood
	CellPoison
	CellWall
)

// String returns the cell type name.
func (c CellType) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellFood:
		return "food"
	case CellPoison:
		return "poison"
	case CellWall:
		return "wall"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Coord is a grid coordinate.
type Coord struct {
	X, Y uint32
}

// Grid is a fixed-size, row-major matrix of cell types.
type Grid struct {
	width  uint32
	height uint32
	cells  []CellType
}

// NewGrid creates a grid with every cell empty.
func NewGrid(width, height uint32) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]CellType, int(width)*int(height)),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() uint32 { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() uint32 { return g.height }

// InBounds reports whether signed coordinates fall inside the grid.
func (g *Grid) InBounds(x, y int64) bool {
	return x >= 0 && y >= 0 && x < int64(g.width) && y < int64(g.height)
}

// index converts a coordinate to a cell offset. Coordinates outside the
// grid are a programming error.
func (g *Grid) index(c Coord) int {
	if c.X >= g.width || c.Y >= g.height {
		panic(fmt.Sprintf("systems: coordinate (%d,%d) outside %dx%d grid", c.X, c.Y, g.width, g.height))
	}
	return int(c.Y)*int(g.width) + int(c.X)
}

// At returns the cell type at c.
func (g *Grid) At(c Coord) CellType {
	return g.cells[g.index(c)]
}

// Set writes the cell type at c.
func (g *Grid) Set(c Coord, t CellType) {
	g.cells[g.index(c)] = t
}

// Cells returns the row-major cell layer. The slice aliases grid storage
// and must be treated as read-only.
func (g *Grid) Cells() []CellType {
	return g.cells
}

// Count returns how many cells hold the given type.
func (g *Grid) Count(t CellType) int {
	n := 0
	for _, c := range g.cells {
		if c == t {
			n++
		}
	}
	return n
}
