// Command optimize searches world parameters with CMA-ES for runs where
// the population survives longest while staying active and diverse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/dnagrid/config"
)

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Uint64("max-ticks", 20000, "Maximum ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath, *outputDir, *maxTicks, *seeds, *maxEvals, *population); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks uint64, seeds, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()

	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds, baseCfg)

	archive, err := OpenArchive(filepath.Join(outputDir, "optimize.db"))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer archive.Close()

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	dim := params.Dim()
	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	ctx := context.Background()
	evalCount := 0
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			quality, survival := evaluator.Last()
			evalCount++

			rec := recordFor(evaluator.Config(raw), evalCount, fitness, quality, survival)
			if err := archive.Record(ctx, rec); err != nil {
				slog.Warn("archive write failed", "eval", evalCount, "error", err)
			}
			if err := appendLog(logFile, rec, evalCount == 1); err != nil {
				slog.Warn("log write failed", "eval", evalCount, "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			slog.Info("evaluation",
				"eval", evalCount,
				"max_evals", maxEvals,
				"survival_ticks", survival,
				"quality", quality,
				"fitness", fitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	settings := &optimize.Settings{FuncEvaluations: maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}

	slog.Info("starting CMA-ES", "params", dim, "population", popSize, "max_evals", maxEvals,
		"seeds", seeds, "max_ticks", maxTicks)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	if _, err := optimize.Minimize(problem, initX, settings, method); err != nil {
		slog.Info("optimization ended", "reason", err)
	}

	best, err := archive.Best(ctx)
	if err != nil {
		return fmt.Errorf("reading best evaluation: %w", err)
	}
	slog.Info("optimization complete",
		"evals", evalCount,
		"duration", formatDuration(time.Since(startTime)),
		"best_eval", best.Eval,
		"best_fitness", best.Fitness,
	)

	bestCfg := *baseCfg
	applyRecord(&bestCfg, best)
	outPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", outPath)
	return nil
}

// recordFor flattens one evaluation's effective config into a log row.
func recordFor(cfg *config.Config, eval int, fitness, quality float64, survival uint64) evalRecord {
	return evalRecord{
		Eval:            eval,
		Fitness:         fitness,
		Survival:        survival,
		Quality:         quality,
		TurnCost:        cfg.Energy.TurnCost,
		MoveCost:        cfg.Energy.MoveCost,
		FoodGain:        cfg.Energy.FoodGain,
		PoisonLoss:      cfg.Energy.PoisonLoss,
		ReproCost:       cfg.Energy.ReproCost,
		FoodSpawn:       cfg.Resource.FoodSpawn,
		PoisonSpawn:     cfg.Resource.PoisonSpawn,
		ReplenishChance: cfg.Resource.ReplenishChance,
	}
}

// applyRecord is the inverse of recordFor.
func applyRecord(cfg *config.Config, r evalRecord) {
	cfg.Energy.TurnCost = r.TurnCost
	cfg.Energy.MoveCost = r.MoveCost
	cfg.Energy.FoodGain = r.FoodGain
	cfg.Energy.PoisonLoss = r.PoisonLoss
	cfg.Energy.ReproCost = r.ReproCost
	cfg.Resource.FoodSpawn = r.FoodSpawn
	cfg.Resource.PoisonSpawn = r.PoisonSpawn
	cfg.Resource.ReplenishChance = r.ReplenishChance
}

// appendLog writes one row, with the header on the first call.
func appendLog(f *os.File, r evalRecord, header bool) error {
	rows := []evalRecord{r}
	if header {
		return gocsv.Marshal(rows, f)
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}
