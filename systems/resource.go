package systems

import "math/rand"

// Default probe limits for random placement.
const (
	DefaultResourceAttempts = 100
	DefaultSpawnAttempts    = 1000
)

// RandomCell samples uniform coordinates until accept returns true, giving
// up after attempts probes. Placement is best-effort: a crowded grid simply
// yields false, as does a grid with no cells.
func RandomCell(rng *rand.Rand, grid *Grid, attempts int, accept func(Coord) bool) (Coord, bool) {
	if grid.Width() == 0 || grid.Height() == 0 {
		return Coord{}, false
	}
	for i := 0; i < attempts; i++ {
		c := Coord{
			X: uint32(rng.Intn(int(grid.Width()))),
			Y: uint32(rng.Intn(int(grid.Height()))),
		}
		if accept(c) {
			return c, true
		}
	}
	return Coord{}, false
}

// SeedResult reports how many resource units were actually placed.
type SeedResult struct {
	Food   int
	Poison int
}

// SeedResources places food then poison on random cells that are empty and
// not occupied by an agent. Each unit gets its own probe limit and is
// silently dropped when the limit runs out.
func SeedResources(rng *rand.Rand, grid *Grid, index *SpatialIndex, food, poison uint32, attempts int) SeedResult {
	free := func(c Coord) bool {
		return grid.At(c) == CellEmpty && !index.Occupied(c)
	}

	var res SeedResult
	for i := uint32(0); i < food; i++ {
		if c, ok := RandomCell(rng, grid, attempts, free); ok {
			grid.Set(c, CellFood)
			res.Food++
		}
	}
	for i := uint32(0); i < poison; i++ {
		if c, ok := RandomCell(rng, grid, attempts, free); ok {
			grid.Set(c, CellPoison)
			res.Poison++
		}
	}
	return res
}

// FreeNeighbor returns the first in-bounds neighbour of anchor, in
// NeighborOffsets order, that is not a wall and no agent occupies. Food and
// poison cells are acceptable and stay in place.
func FreeNeighbor(grid *Grid, index *SpatialIndex, anchor Coord) (Coord, bool) {
	for _, off := range NeighborOffsets {
		x := int64(anchor.X) + off.DX
		y := int64(anchor.Y) + off.DY
		if !grid.InBounds(x, y) {
			continue
		}
		c := Coord{X: uint32(x), Y: uint32(y)}
		if grid.At(c) != CellWall && !index.Occupied(c) {
			return c, true
		}
	}
	return Coord{}, false
}
