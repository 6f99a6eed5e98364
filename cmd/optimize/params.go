package main

import (
	"math"

	"github.com/pthm-cable/dnagrid/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters. Order matches
// ApplyToConfig and ExtractFromConfig.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// live-tunable knobs plus the replenishment probability.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "turn_energy_cost", Path: "energy.turn_cost", Min: 0, Max: 10},
			{Name: "move_energy_cost", Path: "energy.move_cost", Min: 0, Max: 10},
			{Name: "food_energy_gain", Path: "energy.food_gain", Min: 10, Max: 200},
			{Name: "poison_energy_loss", Path: "energy.poison_loss", Min: 10, Max: 300},
			{Name: "repro_energy_cost", Path: "energy.repro_cost", Min: 5, Max: 150},
			{Name: "food_spawn_amount", Path: "resource.food_spawn", Min: 0, Max: 50},
			{Name: "poison_spawn_amount", Path: "resource.poison_spawn", Min: 0, Max: 20},
			{Name: "replenish_chance", Path: "resource.replenish_chance", Min: 0.01, Max: 1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg. Integer knobs are rounded.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	round32 := func(v float64) int32 { return int32(math.Round(v)) }

	cfg.Energy.TurnCost = round32(c[0])
	cfg.Energy.MoveCost = round32(c[1])
	cfg.Energy.FoodGain = round32(c[2])
	cfg.Energy.PoisonLoss = round32(c[3])
	cfg.Energy.ReproCost = round32(c[4])
	cfg.Resource.FoodSpawn = uint32(math.Round(c[5]))
	cfg.Resource.PoisonSpawn = uint32(math.Round(c[6]))
	cfg.Resource.ReplenishChance = c[7]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Energy.TurnCost),
		float64(cfg.Energy.MoveCost),
		float64(cfg.Energy.FoodGain),
		float64(cfg.Energy.PoisonLoss),
		float64(cfg.Energy.ReproCost),
		float64(cfg.Resource.FoodSpawn),
		float64(cfg.Resource.PoisonSpawn),
		cfg.Resource.ReplenishChance,
	}
}
