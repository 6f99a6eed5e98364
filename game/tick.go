package game

import (
	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// Tick advances the world by one step and returns what happened in it.
//
// Agents act in ascending id order over the ids live when the tick began.
// An agent removed earlier in the same tick is skipped. Other agents'
// energy is always read live at the moment of interaction.
func (w *World) Tick() TickReport {
	w.tick++
	w.report = TickReport{Tick: w.tick}
	w.perf.StartTick()

	for _, id := range w.agents.IDs() {
		if !w.agents.Alive(id) {
			continue
		}
		w.step(id)
	}

	w.perf.StartPhase(systems.PhaseSpawn)
	w.spawnChildren()

	w.perf.StartPhase(systems.PhaseReplenish)
	w.replenish()

	w.perf.StartPhase(systems.PhaseTelemetry)
	w.recordTelemetry()

	w.perf.EndTick()

	report := w.report
	w.report = TickReport{}
	return report
}

// step runs upkeep, decision and resolution for one live agent.
func (w *World) step(id uint32) {
	a, ok := w.agents.Get(id)
	if !ok {
		return
	}
	here := systems.Coord{X: a.X, Y: a.Y}

	w.perf.StartPhase(systems.PhaseUpkeep)
	a.Energy -= w.params.TurnEnergyCost
	a.Age++
	if a.Energy <= 0 {
		w.removeAgent(id, here, telemetry.CauseStarvation, 0)
		return
	}

	w.perf.StartPhase(systems.PhaseDecide)
	target, ok := systems.DecideMove(w.rng, w.grid, w.index, w.agents, a)

	w.perf.StartPhase(systems.PhaseResolve)
	cause := telemetry.CauseExhaustion
	if ok {
		var alive bool
		a, cause, alive = w.resolve(a, target)
		if !alive {
			return
		}
	}

	if a.Energy <= 0 {
		w.removeAgent(id, systems.Coord{X: a.X, Y: a.Y}, cause, 0)
		return
	}
	w.agents.Put(a)
	w.lifetimes.UpdateEnergy(id, a.Energy)
}

// resolve applies the outcome of a moving onto target. It returns the
// updated agent, the cause to record should its energy now be spent, and
// false when a was removed during resolution.
func (w *World) resolve(a components.Agent, target systems.Coord) (components.Agent, telemetry.DeathCause, bool) {
	if otherID, occupied := w.index.Lookup(target); occupied {
		other, alive := w.agents.Gender(otherID)
		if !alive {
			panic("game: spatial index points at a removed agent")
		}
		if other == a.Gender {
			return w.fight(a, otherID, target)
		}
		return w.mate(a, otherID), telemetry.CauseExhaustion, true
	}
	return w.enter(a, target)
}

// fight resolves a same-gender collision. The initiator wins only with
// strictly more energy; the winner absorbs the loser's energy.
func (w *World) fight(a components.Agent, otherID uint32, target systems.Coord) (components.Agent, telemetry.DeathCause, bool) {
	otherEnergy, _ := w.agents.Energy(otherID)
	here := systems.Coord{X: a.X, Y: a.Y}
	w.report.Fights++

	if a.Energy > otherEnergy {
		a.Energy += otherEnergy
		w.removeAgent(otherID, target, telemetry.CauseCombat, a.ID)

		w.index.Move(here, target, a.ID)
		a.X, a.Y = target.X, target.Y

		w.lifetimes.RecordFightWon(a.ID)
		w.emit(telemetry.NewFightEvent(w.tick, a.ID, otherID, target.X, target.Y, otherEnergy))
		return a, telemetry.CauseCombat, true
	}

	gained, _ := w.agents.AddEnergy(otherID, a.Energy)
	w.removeAgent(a.ID, here, telemetry.CauseCombat, otherID)

	w.lifetimes.RecordFightWon(otherID)
	w.lifetimes.UpdateEnergy(otherID, gained)
	w.emit(telemetry.NewFightEvent(w.tick, otherID, a.ID, target.X, target.Y, a.Energy))
	return a, telemetry.CauseCombat, false
}

// mate resolves an opposite-gender collision. Both parents must hold more
// than the reproduction cost; both pay it and the initiator stays put.
func (w *World) mate(a components.Agent, partnerID uint32) components.Agent {
	cost := w.params.ReproEnergyCost
	partnerEnergy, _ := w.agents.Energy(partnerID)
	if a.Energy <= cost || partnerEnergy <= cost {
		return a
	}

	partner, _ := w.agents.Get(partnerID)
	a.Energy -= cost
	w.agents.AddEnergy(partnerID, -cost)

	// Captured now: the parent may die before the child is placed.
	lineage := a.ID
	if ls := w.lifetimes.Get(a.ID); ls != nil {
		lineage = ls.Lineage
	}

	w.pending = append(w.pending, pendingChild{
		anchor:   systems.Coord{X: a.X, Y: a.Y},
		parentID: a.ID,
		lineage:  lineage,
		genome:   genome.Crossover(w.rng, a.Genome, partner.Genome),
		energy:   2 * cost,
	})

	w.report.Matings++
	w.emit(telemetry.NewMatingEvent(w.tick, a.ID, partnerID, a.X, a.Y, cost))
	return a
}

// enter moves a onto a free cell, consuming any resource there.
func (w *World) enter(a components.Agent, target systems.Coord) (components.Agent, telemetry.DeathCause, bool) {
	cause := telemetry.CauseExhaustion

	switch w.grid.At(target) {
	case systems.CellFood:
		a.Energy += w.params.FoodEnergyGain
		w.grid.Set(target, systems.CellEmpty)
		w.report.FoodEaten++
		w.lifetimes.RecordFood(a.ID)
		w.emit(telemetry.NewFeedEvent(w.tick, a.ID, target.X, target.Y, w.params.FoodEnergyGain))
	case systems.CellPoison:
		a.Energy -= w.params.PoisonEnergyLoss
		w.grid.Set(target, systems.CellEmpty)
		w.report.PoisonEaten++
		w.lifetimes.RecordPoison(a.ID)
		w.emit(telemetry.NewFeedEvent(w.tick, a.ID, target.X, target.Y, -w.params.PoisonEnergyLoss))
		cause = telemetry.CausePoison
	case systems.CellEmpty:
	default:
		panic("game: agent chose a wall cell")
	}

	a.Energy -= w.params.MoveEnergyCost
	w.index.Move(systems.Coord{X: a.X, Y: a.Y}, target, a.ID)
	a.X, a.Y = target.X, target.Y
	return a, cause, true
}

// Run advances n ticks, stopping early on extinction. Returns the number
// of ticks run.
func (w *World) Run(n int) int {
	for i := 0; i < n; i++ {
		w.Tick()
		if w.agents.Len() == 0 {
			return i + 1
		}
	}
	return n
}
