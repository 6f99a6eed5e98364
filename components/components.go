// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/dnagrid/genome"

// Gender is the binary sex of an agent. Agents of the same gender fight,
// agents of opposite gender mate.
type Gender uint8

const (
	Male Gender = iota
	Female
)

// String returns "male" or "female".
func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// Position is an agent's grid cell.
type Position struct {
	X, Y uint32
}

// Energy tracks an agent's energy and age.
// Value may transiently drop to zero or below before the agent is removed.
type Energy struct {
	Value int32  `inspect:"bar,max:400"`
	Age   uint32 `inspect:"label,fmt:%d ticks"`
}

// Organism holds identity and sex.
type Organism struct {
	ID     uint32 `inspect:"label"`
	Gender Gender `inspect:"label"`
}

// Genes holds the agent's preference genome.
type Genes struct {
	Genome genome.Genome `inspect:"bar,max:255,labels:E|F|P|S|O"`
}

// Agent is a flattened, owned copy of one agent's components.
// It is what the registry hands out and what the host inspects.
type Agent struct {
	ID     uint32        `json:"id"`
	X      uint32        `json:"x"`
	Y      uint32        `json:"y"`
	Energy int32         `json:"energy"`
	Gender Gender        `json:"gender"`
	Genome genome.Genome `json:"dna"`
	Age    uint32        `json:"age"`
}

// Split returns the agent as its ECS components.
func (a Agent) Split() (Position, Energy, Organism, Genes) {
	return Position{X: a.X, Y: a.Y},
		Energy{Value: a.Energy, Age: a.Age},
		Organism{ID: a.ID, Gender: a.Gender},
		Genes{Genome: a.Genome}
}

// Join assembles an Agent from its ECS components.
func Join(pos *Position, energy *Energy, org *Organism, genes *Genes) Agent {
	return Agent{
		ID:     org.ID,
		X:      pos.X,
		Y:      pos.Y,
		Energy: energy.Value,
		Gender: org.Gender,
		Genome: genes.Genome,
		Age:    energy.Age,
	}
}
