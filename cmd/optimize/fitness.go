package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/game"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// FitnessEvaluator runs headless worlds and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastQuality float64
	lastSurvive uint64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 200,
	}
}

// Last returns the mean quality and survival of the most recent Evaluate.
func (fe *FitnessEvaluator) Last() (quality float64, survival uint64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastSurvive
}

// A population below minViablePop for extinctionGraceTicks consecutive
// ticks counts as functionally extinct.
const (
	minViablePop         = 4
	extinctionGraceTicks = 500
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64
	startEnergy   int32
	windowStats   []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better),
// averaged over all seeds run in parallel.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(x, seed)
		}()
	}
	wg.Wait()

	var totalFitness, totalQuality, totalSurvival float64
	for i := range results {
		q := computeQuality(results[i].windowStats, results[i].startEnergy)
		totalFitness += computeFitness(results[i].survivalTicks, q)
		totalQuality += q
		totalSurvival += float64(results[i].survivalTicks)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSurvive = uint64(totalSurvival / n)
	fe.mu.Unlock()

	return totalFitness / n
}

// Config returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) Config(x []float64) *config.Config {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)
	return &cfg
}

// runSimulation runs one world until functional extinction or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.Config(x)
	result := runResult{startEnergy: cfg.Energy.Start}

	w, err := game.NewFromConfig(cfg,
		game.WithSeed(seed),
		game.WithStatsWindow(fe.statsWindow),
		game.WithStatsCallback(func(s telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, s)
		}),
	)
	if err != nil {
		return result
	}

	below := 0
	for w.CurrentTick() < fe.maxTicks {
		w.Tick()

		pop := w.Population()
		if pop == 0 {
			break
		}
		if pop < minViablePop {
			below++
		} else {
			below = 0
		}
		if below >= extinctionGraceTicks {
			break
		}
	}

	result.survivalTicks = w.CurrentTick()
	return result
}

// computeFitness is -(survival × (1 + 0.2 × quality)). Survival dominates;
// quality separates configs that survive equally long.
func computeFitness(survival uint64, quality float64) float64 {
	return -(float64(survival) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.30
	qualityWeightEnergy    = 0.25
	qualityWeightTurnover  = 0.25
	qualityWeightDiversity = 0.20

	qualityWarmupWindows = 2
)

// computeQuality scores a run in [0, 1] from its window stats: a steady
// population, median energy near the starting energy, births relative to
// population, and genome spread.
func computeQuality(windows []telemetry.WindowStats, startEnergy int32) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var pops []float64
	var energySum, turnoverSum, diversitySum float64
	target := math.Max(float64(startEnergy), 1)

	for _, w := range windows[qualityWarmupWindows:] {
		if w.Population < minViablePop {
			continue
		}
		pop := float64(w.Population)
		pops = append(pops, pop)

		d := (w.EnergyP50 - target) / target
		energySum += math.Exp(-d * d)

		turnoverSum += 1 - math.Exp(-float64(w.Births)/pop)

		spread := (w.GeneEmptyStd + w.GeneFoodStd + w.GenePoisonStd + w.GeneSameStd + w.GeneOppositeStd) / 5
		diversitySum += clamp01(spread / 64)
	}

	if len(pops) == 0 {
		return 0
	}
	n := float64(len(pops))

	stability := 0.0
	if len(pops) >= 2 {
		c := cv(pops)
		stability = math.Exp(-c * c)
	}

	quality := qualityWeightStability*stability +
		qualityWeightEnergy*energySum/n +
		qualityWeightTurnover*turnoverSum/n +
		qualityWeightDiversity*diversitySum/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
