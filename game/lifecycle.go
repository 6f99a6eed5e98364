package game

import (
	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// randomGender draws Male or Female with equal probability.
func (w *World) randomGender() components.Gender {
	if w.rng.Intn(2) == 0 {
		return components.Male
	}
	return components.Female
}

// SpawnAgents places n agents with random genomes on random free cells.
// Returns how many were placed.
func (w *World) SpawnAgents(n uint32) int {
	return w.spawnAgents(n, nil)
}

// SpawnAgentsWithGenome places n agents sharing one genome. genes must
// hold exactly genome.Size bytes; any other length falls back to a random
// genome per agent.
func (w *World) SpawnAgentsWithGenome(n uint32, genes []byte) int {
	g, ok := genome.FromBytes(genes)
	if !ok {
		return w.spawnAgents(n, nil)
	}
	return w.spawnAgents(n, &g)
}

// spawnAgents seeds agents at start energy. A cell is free when it holds
// no agent and no resource. An agent whose probe limit runs out is
// skipped; the rest of the batch still gets its chance.
func (w *World) spawnAgents(n uint32, fixed *genome.Genome) int {
	free := func(c systems.Coord) bool {
		return w.grid.At(c) == systems.CellEmpty && !w.index.Occupied(c)
	}

	placed := 0
	for i := uint32(0); i < n; i++ {
		c, ok := systems.RandomCell(w.rng, w.grid, w.params.SpawnAttempts, free)
		if !ok {
			continue
		}
		g := w.genomeFor(fixed)
		w.insertAgent(c, w.params.StartEnergy, w.randomGender(), g)
		placed++
	}
	return placed
}

func (w *World) genomeFor(fixed *genome.Genome) genome.Genome {
	if fixed != nil {
		return *fixed
	}
	return genome.Random(w.rng)
}

// PlaceAgent seeds one agent at an exact cell with start energy. It fails
// when the cell is out of range or occupied.
func (w *World) PlaceAgent(x, y uint32, gender components.Gender, g genome.Genome) (uint32, bool) {
	if !w.grid.InBounds(int64(x), int64(y)) {
		return 0, false
	}
	c := systems.Coord{X: x, Y: y}
	if w.index.Occupied(c) {
		return 0, false
	}
	return w.insertAgent(c, w.params.StartEnergy, gender, g), true
}

// insertAgent registers a founder and claims its cell.
func (w *World) insertAgent(c systems.Coord, energy int32, gender components.Gender, g genome.Genome) uint32 {
	id := w.agents.Insert(c.X, c.Y, energy, gender, g)
	w.index.Insert(c, id)
	w.lifetimes.RegisterFounder(id, w.tick, energy)
	return id
}

// GenerateRandomObjects seeds food then poison on random cells that hold
// neither a resource nor an agent. Placement is best-effort.
func (w *World) GenerateRandomObjects(food, poison uint32) systems.SeedResult {
	return systems.SeedResources(w.rng, w.grid, w.index, food, poison, w.params.ResourceAttempts)
}

// removeAgent destroys an agent standing at c and frees the cell.
// killerID is only meaningful for combat deaths.
func (w *World) removeAgent(id uint32, c systems.Coord, cause telemetry.DeathCause, killerID uint32) {
	w.index.Remove(c)
	w.agents.Remove(id)
	w.lifetimes.Remove(id)

	w.report.RecordDeath(cause)
	w.emit(telemetry.NewDeathEvent(w.tick, id, killerID, c.X, c.Y, cause))
}

// spawnChildren places queued children next to their anchors, scanning
// neighbours in systems.NeighborOffsets order. A child with no free
// neighbour is dropped.
func (w *World) spawnChildren() {
	for _, child := range w.pending {
		c, ok := systems.FreeNeighbor(w.grid, w.index, child.anchor)
		if !ok {
			w.report.ChildrenDropped++
			w.emit(telemetry.NewChildDroppedEvent(w.tick, child.parentID, child.anchor.X, child.anchor.Y))
			continue
		}

		id := w.agents.Insert(c.X, c.Y, child.energy, w.randomGender(), child.genome)
		w.index.Insert(c, id)
		w.lifetimes.RegisterChild(id, child.parentID, child.lineage, w.tick, child.energy)

		w.report.Births++
		w.emit(telemetry.NewBirthEvent(w.tick, id, child.parentID, c.X, c.Y, child.energy))
	}
	w.pending = w.pending[:0]
}

// replenish runs a resource seeding pass with probability ReplenishChance.
func (w *World) replenish() {
	if w.rng.Float64() >= w.params.ReplenishChance {
		return
	}
	res := w.GenerateRandomObjects(w.params.FoodSpawnAmount, w.params.PoisonSpawnAmount)
	w.report.FoodSeeded += res.Food
	w.report.PoisonSeeded += res.Poison
}

// emit appends an event to the current tick report when recording.
func (w *World) emit(e telemetry.Event) {
	if w.recordEvents {
		w.report.Events = append(w.report.Events, e)
	}
}

// Reset clears every agent, resource and pending child and restarts the
// tick counter. Parameters, ids and the random source carry on.
func (w *World) Reset() {
	for _, id := range w.agents.IDs() {
		if c, ok := w.agents.Position(id); ok {
			w.index.Remove(c)
		}
		w.agents.Remove(id)
	}
	cells := w.grid.Cells()
	for i := range cells {
		cells[i] = systems.CellEmpty
	}
	w.pending = w.pending[:0]
	w.lifetimes.Reset()
	w.tick = 0
}
