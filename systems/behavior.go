package systems

import (
	"math/rand"

	"github.com/pthm-cable/dnagrid/components"
)

// Offset is a relative neighbour position.
type Offset struct {
	DX, DY int64
}

// NeighborOffsets lists the 8-neighbourhood in row-major order, centre excluded.
// Both movement scoring and child placement scan in this order.
var NeighborOffsets = [8]Offset{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// DecideMove picks the neighbour cell an agent prefers most.
//
// Each in-bounds, non-wall neighbour is scored with the genome weight for
// its Target. Every neighbour sharing the maximum score is kept and one is
// chosen uniformly with rng, so ties carry no directional bias.
// Returns false when the agent has no candidate cell.
func DecideMove(rng *rand.Rand, grid *Grid, index *SpatialIndex, genders GenderLookup, a components.Agent) (Coord, bool) {
	var best [len(NeighborOffsets)]Coord
	n := 0
	bestScore := -1

	for _, off := range NeighborOffsets {
		x := int64(a.X) + off.DX
		y := int64(a.Y) + off.DY

		target := Classify(grid, index, genders, a.Gender, x, y)
		cat, ok := target.Category()
		if !ok {
			continue
		}

		score := int(a.Genome.Weight(cat))
		c := Coord{X: uint32(x), Y: uint32(y)}
		switch {
		case score > bestScore:
			bestScore = score
			best[0] = c
			n = 1
		case score == bestScore:
			best[n] = c
			n++
		}
	}

	if n == 0 {
		return Coord{}, false
	}
	return best[rng.Intn(n)], true
}
