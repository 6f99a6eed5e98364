// Package genome defines the fixed-length preference genome that drives
// agent movement, and the sexual crossover used during reproduction.
package genome

import (
	"fmt"
	"math/rand"
)

// Size is the number of weights in a genome.
const Size = 5

// MutationRate is the per-weight probability of a full re-draw after crossover.
const MutationRate = 0.01

// Category indexes a genome weight by what occupies a neighbouring cell.
type Category uint8

const (
	CategoryEmpty          Category = iota // Free cell with no resource
	CategoryFood                           // Food resource
	CategoryPoison                         // Poison resource
	CategorySameGender                     // Agent of the same gender
	CategoryOppositeGender                 // Agent of the other gender
)

var categoryNames = [Size]string{"empty", "food", "poison", "same", "opposite"}

// String returns the short category name used in logs and the priority syntax.
func (c Category) String() string {
	if int(c) < Size {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Genome is a vector of preference weights, one per Category.
// Higher values mean stronger attraction. Genomes are values and are never
// mutated after being assigned to an agent.
type Genome [Size]uint8

// Weight returns the preference weight for a category.
func (g Genome) Weight(c Category) uint8 {
	return g[c]
}

// String renders the genome as "empty=.. food=.. poison=.. same=.. opposite=..".
func (g Genome) String() string {
	return fmt.Sprintf("empty=%d food=%d poison=%d same=%d opposite=%d", g[0], g[1], g[2], g[3], g[4])
}

// Random returns a genome with every weight drawn uniformly from 0..255.
func Random(rng *rand.Rand) Genome {
	var g Genome
	for i := range g {
		g[i] = uint8(rng.Intn(256))
	}
	return g
}

// Crossover combines two parents. Each weight is copied from either parent
// with equal probability, then re-drawn uniformly with probability MutationRate.
func Crossover(rng *rand.Rand, a, b Genome) Genome {
	var child Genome
	for i := range child {
		if rng.Float64() < 0.5 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}

		if rng.Float64() < MutationRate {
			child[i] = uint8(rng.Intn(256))
		}
	}
	return child
}

// FromBytes decodes a genome from exactly Size bytes.
// Returns false for any other length.
func FromBytes(b []byte) (Genome, bool) {
	var g Genome
	if len(b) != Size {
		return g, false
	}
	copy(g[:], b)
	return g, true
}

// Priority weights assigned by rank: first place gets 255, each following
// place 50 less.
const (
	priorityTop  = 255
	priorityStep = 50
)

// FromPriority builds a genome from an ordered list of categories, highest
// preference first. Ranked categories get 255, 205, 155, 105, 55; anything
// not listed stays 0. Duplicate entries keep their first rank.
func FromPriority(order []Category) Genome {
	var g Genome
	var seen [Size]bool
	rank := 0
	for _, c := range order {
		if int(c) >= Size || seen[c] {
			continue
		}
		seen[c] = true
		g[c] = uint8(priorityTop - rank*priorityStep)
		rank++
	}
	return g
}
