package game

import (
	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// Population returns the number of live agents.
func (w *World) Population() int { return w.agents.Len() }

// AverageGenome returns the mean of each genome weight over live agents,
// in genome.Category order. An empty world yields the zero vector.
func (w *World) AverageGenome() [genome.Size]float64 {
	var sum [genome.Size]float64
	n := 0
	w.agents.Each(func(a components.Agent) {
		for i, v := range a.Genome {
			sum[i] += float64(v)
		}
		n++
	})
	if n == 0 {
		return sum
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum
}

// EnergySummary is the distribution of live agent energy.
type EnergySummary struct {
	Mean float64 `json:"mean"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
}

// EnergyStats summarises live agent energy. An empty world yields zeros.
func (w *World) EnergyStats() EnergySummary {
	values := make([]float64, 0, w.agents.Len())
	w.agents.Each(func(a components.Agent) {
		values = append(values, float64(a.Energy))
	})
	var s EnergySummary
	s.Mean, s.P10, s.P50, s.P90 = telemetry.ComputeEnergyStats(values)
	return s
}

// GenderCounts returns the number of live males and females.
func (w *World) GenderCounts() (males, females int) {
	w.agents.Each(func(a components.Agent) {
		if a.Gender == components.Female {
			females++
		} else {
			males++
		}
	})
	return males, females
}

// ResourceCounts returns the number of food and poison cells.
func (w *World) ResourceCounts() (food, poison int) {
	return w.grid.Count(systems.CellFood), w.grid.Count(systems.CellPoison)
}

// PendingCounts returns the telemetry counts accumulated in the current
// stats window.
func (w *World) PendingCounts() telemetry.Counts { return w.collector.Pending() }
