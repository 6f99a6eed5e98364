package systems

import (
	"fmt"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
)

// Target is what an agent would meet by stepping onto a cell.
// The set is closed; every switch over it should be exhaustive.
type Target uint8

const (
	TargetOutOfBounds Target = iota
	TargetWall
	TargetEmpty
	TargetFood
	TargetPoison
	TargetSameGender
	TargetOppositeGender
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetOutOfBounds:
		return "out_of_bounds"
	case TargetWall:
		return "wall"
	case TargetEmpty:
		return "empty"
	case TargetFood:
		return "food"
	case TargetPoison:
		return "poison"
	case TargetSameGender:
		return "same_gender"
	case TargetOppositeGender:
		return "opposite_gender"
	default:
		return fmt.Sprintf("target(%d)", uint8(t))
	}
}

// Category maps a target to the genome weight that scores it.
// Walls and out-of-bounds cells are never candidates and return false.
func (t Target) Category() (genome.Category, bool) {
	switch t {
	case TargetEmpty:
		return genome.CategoryEmpty, true
	case TargetFood:
		return genome.CategoryFood, true
	case TargetPoison:
		return genome.CategoryPoison, true
	case TargetSameGender:
		return genome.CategorySameGender, true
	case TargetOppositeGender:
		return genome.CategoryOppositeGender, true
	default:
		return 0, false
	}
}

// Occupied reports whether the target is another agent.
func (t Target) Occupied() bool {
	return t == TargetSameGender || t == TargetOppositeGender
}

// GenderLookup resolves the gender of a live agent.
type GenderLookup interface {
	Gender(id uint32) (components.Gender, bool)
}

// Classify determines what an agent of gender self meets at (x, y).
// Agent occupancy takes precedence over the resource layer.
func Classify(grid *Grid, index *SpatialIndex, genders GenderLookup, self components.Gender, x, y int64) Target {
	if !grid.InBounds(x, y) {
		return TargetOutOfBounds
	}
	c := Coord{X: uint32(x), Y: uint32(y)}

	if id, ok := index.Lookup(c); ok {
		other, alive := genders.Gender(id)
		if !alive {
			panic(fmt.Sprintf("systems: spatial index points at dead agent %d at (%d,%d)", id, c.X, c.Y))
		}
		if other == self {
			return TargetSameGender
		}
		return TargetOppositeGender
	}

	switch grid.At(c) {
	case CellEmpty:
		return TargetEmpty
	case CellFood:
		return TargetFood
	case CellPoison:
		return TargetPoison
	default:
		return TargetWall
	}
}
