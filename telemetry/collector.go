package telemetry

import "github.com/pthm-cable/dnagrid/genome"

// Sample is the population state observed at the end of a window.
type Sample struct {
	Males          int
	Females        int
	Energies       []float64
	Ages           []float64
	Genomes        []genome.Genome
	FoodCells      int
	PoisonCells    int
	ActiveLineages int
}

// Collector accumulates tick counts within windows and produces WindowStats.
type Collector struct {
	windowTicks uint64

	// Current window tracking
	windowStartTick uint64
	counts          Counts
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// Record adds one tick's counts to the current window.
func (c *Collector) Record(counts Counts) {
	c.counts.Add(counts)
}

// Pending returns the counts accumulated so far in the current window.
func (c *Collector) Pending() Counts {
	return c.counts
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, s Sample) WindowStats {
	energyMean, p10, p50, p90 := ComputeEnergyStats(s.Energies)
	meanAge, _ := ComputeGeneStats(s.Ages)

	cols := GeneColumns(s.Genomes)
	var means, stds [genome.Size]float64
	for i := range cols {
		means[i], stds[i] = ComputeGeneStats(cols[i])
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Population: len(s.Genomes),
		Males:      s.Males,
		Females:    s.Females,

		Births:          c.counts.Births,
		Deaths:          c.counts.Deaths(),
		Starved:         c.counts.Starved,
		Killed:          c.counts.Killed,
		Poisoned:        c.counts.Poisoned,
		Exhausted:       c.counts.Exhausted,
		Fights:          c.counts.Fights,
		Matings:         c.counts.Matings,
		FoodEaten:       c.counts.FoodEaten,
		PoisonEaten:     c.counts.PoisonEaten,
		ChildrenDropped: c.counts.ChildrenDropped,
		FoodSeeded:      c.counts.FoodSeeded,
		PoisonSeeded:    c.counts.PoisonSeeded,

		FoodCells:   s.FoodCells,
		PoisonCells: s.PoisonCells,

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		GeneEmptyMean:    means[genome.CategoryEmpty],
		GeneEmptyStd:     stds[genome.CategoryEmpty],
		GeneFoodMean:     means[genome.CategoryFood],
		GeneFoodStd:      stds[genome.CategoryFood],
		GenePoisonMean:   means[genome.CategoryPoison],
		GenePoisonStd:    stds[genome.CategoryPoison],
		GeneSameMean:     means[genome.CategorySameGender],
		GeneSameStd:      stds[genome.CategorySameGender],
		GeneOppositeMean: means[genome.CategoryOppositeGender],
		GeneOppositeStd:  stds[genome.CategoryOppositeGender],

		MeanAge:        meanAge,
		ActiveLineages: s.ActiveLineages,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.counts = Counts{}

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
