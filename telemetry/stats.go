package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dnagrid/genome"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end
	Population int `csv:"population"`
	Males      int `csv:"males"`
	Females    int `csv:"females"`

	// Events during window
	Births          int `csv:"births"`
	Deaths          int `csv:"deaths"`
	Starved         int `csv:"starved"`
	Killed          int `csv:"killed"`
	Poisoned        int `csv:"poisoned"`
	Exhausted       int `csv:"exhausted"`
	Fights          int `csv:"fights"`
	Matings         int `csv:"matings"`
	FoodEaten       int `csv:"food_eaten"`
	PoisonEaten     int `csv:"poison_eaten"`
	ChildrenDropped int `csv:"children_dropped"`
	FoodSeeded      int `csv:"food_seeded"`
	PoisonSeeded    int `csv:"poison_seeded"`

	// Resource layer at window end
	FoodCells   int `csv:"food_cells"`
	PoisonCells int `csv:"poison_cells"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Genome weights, mean and population standard deviation
	GeneEmptyMean    float64 `csv:"gene_empty_mean"`
	GeneEmptyStd     float64 `csv:"gene_empty_std"`
	GeneFoodMean     float64 `csv:"gene_food_mean"`
	GeneFoodStd      float64 `csv:"gene_food_std"`
	GenePoisonMean   float64 `csv:"gene_poison_mean"`
	GenePoisonStd    float64 `csv:"gene_poison_std"`
	GeneSameMean     float64 `csv:"gene_same_mean"`
	GeneSameStd      float64 `csv:"gene_same_std"`
	GeneOppositeMean float64 `csv:"gene_opposite_mean"`
	GeneOppositeStd  float64 `csv:"gene_opposite_std"`

	MeanAge        float64 `csv:"mean_age"`
	ActiveLineages int     `csv:"active_lineages"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// ComputeGeneStats returns mean and population standard deviation of one
// genome weight across agents. Empty input yields zeros.
func ComputeGeneStats(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)
	return mean, std
}

// GeneColumns transposes genomes into one slice per weight.
func GeneColumns(genomes []genome.Genome) [genome.Size][]float64 {
	var cols [genome.Size][]float64
	for i := range cols {
		cols[i] = make([]float64, len(genomes))
	}
	for j, g := range genomes {
		for i, w := range g {
			cols[i][j] = float64(w)
		}
	}
	return cols
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("population", s.Population),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("fights", s.Fights),
		slog.Int("matings", s.Matings),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("gene_food_mean", s.GeneFoodMean),
		slog.Float64("gene_poison_mean", s.GenePoisonMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"population", s.Population,
		"males", s.Males,
		"females", s.Females,
		"births", s.Births,
		"deaths", s.Deaths,
		"starved", s.Starved,
		"killed", s.Killed,
		"poisoned", s.Poisoned,
		"exhausted", s.Exhausted,
		"fights", s.Fights,
		"matings", s.Matings,
		"food_eaten", s.FoodEaten,
		"poison_eaten", s.PoisonEaten,
		"children_dropped", s.ChildrenDropped,
		"food_cells", s.FoodCells,
		"poison_cells", s.PoisonCells,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"gene_empty_mean", s.GeneEmptyMean,
		"gene_food_mean", s.GeneFoodMean,
		"gene_poison_mean", s.GenePoisonMean,
		"gene_same_mean", s.GeneSameMean,
		"gene_opposite_mean", s.GeneOppositeMean,
		"mean_age", s.MeanAge,
		"active_lineages", s.ActiveLineages,
	)
}
