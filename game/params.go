package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/systems"
)

// Params are the tunable world knobs. They are read-only while a tick runs
// and accept any value; zero or negative values only change the dynamics.
type Params struct {
	TurnEnergyCost    int32
	MoveEnergyCost    int32
	FoodEnergyGain    int32
	PoisonEnergyLoss  int32
	StartEnergy       int32
	ReproEnergyCost   int32
	FoodSpawnAmount   uint32
	PoisonSpawnAmount uint32

	// ReplenishChance is the per-tick probability of a replenishment pass.
	ReplenishChance float64
	// ResourceAttempts caps random probes per resource unit.
	ResourceAttempts int
	// SpawnAttempts caps random probes per seeded agent.
	SpawnAttempts int
}

// DefaultParams returns the classic tuning: a 150-energy start, food worth
// 60, poison costing 100, reproduction costing 50 per parent.
func DefaultParams() Params {
	return Params{
		TurnEnergyCost:    1,
		MoveEnergyCost:    2,
		FoodEnergyGain:    60,
		PoisonEnergyLoss:  100,
		StartEnergy:       150,
		ReproEnergyCost:   50,
		FoodSpawnAmount:   5,
		PoisonSpawnAmount: 1,
		ReplenishChance:   0.1,
		ResourceAttempts:  systems.DefaultResourceAttempts,
		SpawnAttempts:     systems.DefaultSpawnAttempts,
	}
}

// ParamsFromConfig seeds Params from the energy and resource sections.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		TurnEnergyCost:    cfg.Energy.TurnCost,
		MoveEnergyCost:    cfg.Energy.MoveCost,
		FoodEnergyGain:    cfg.Energy.FoodGain,
		PoisonEnergyLoss:  cfg.Energy.PoisonLoss,
		StartEnergy:       cfg.Energy.Start,
		ReproEnergyCost:   cfg.Energy.ReproCost,
		FoodSpawnAmount:   cfg.Resource.FoodSpawn,
		PoisonSpawnAmount: cfg.Resource.PoisonSpawn,
		ReplenishChance:   cfg.Resource.ReplenishChance,
		ResourceAttempts:  cfg.Resource.PlacementAttempts,
		SpawnAttempts:     cfg.Population.SpawnAttempts,
	}
}

// ErrUnknownParam is returned by SetParam for names outside ParamNames.
var ErrUnknownParam = errors.New("unknown parameter")

// paramSetters maps wire names to the seven tunable setters.
var paramSetters = map[string]func(w *World, v int64){
	"turn_energy_cost":    func(w *World, v int64) { w.SetTurnEnergyCost(int32(v)) },
	"move_energy_cost":    func(w *World, v int64) { w.SetMoveEnergyCost(int32(v)) },
	"food_energy_gain":    func(w *World, v int64) { w.SetFoodEnergyGain(int32(v)) },
	"poison_energy_loss":  func(w *World, v int64) { w.SetPoisonEnergyLoss(int32(v)) },
	"repro_energy_cost":   func(w *World, v int64) { w.SetReproEnergyCost(int32(v)) },
	"food_spawn_amount":   func(w *World, v int64) { w.SetFoodSpawnAmount(uint32(v)) },
	"poison_spawn_amount": func(w *World, v int64) { w.SetPoisonSpawnAmount(uint32(v)) },
}

var paramGetters = map[string]func(p Params) int64{
	"turn_energy_cost":    func(p Params) int64 { return int64(p.TurnEnergyCost) },
	"move_energy_cost":    func(p Params) int64 { return int64(p.MoveEnergyCost) },
	"food_energy_gain":    func(p Params) int64 { return int64(p.FoodEnergyGain) },
	"poison_energy_loss":  func(p Params) int64 { return int64(p.PoisonEnergyLoss) },
	"repro_energy_cost":   func(p Params) int64 { return int64(p.ReproEnergyCost) },
	"food_spawn_amount":   func(p Params) int64 { return int64(p.FoodSpawnAmount) },
	"poison_spawn_amount": func(p Params) int64 { return int64(p.PoisonSpawnAmount) },
}

// ParamNames lists the names accepted by SetParam, sorted.
func ParamNames() []string {
	names := make([]string, 0, len(paramSetters))
	for name := range paramSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets a tunable by its wire name, e.g. "food_energy_gain".
// Values are truncated to the field's integer type.
func (w *World) SetParam(name string, value int64) error {
	set, ok := paramSetters[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	set(w, value)
	return nil
}

// Param reads a tunable by its wire name.
func (w *World) Param(name string) (int64, error) {
	get, ok := paramGetters[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return get(w.params), nil
}

// Params returns the current parameters.
func (w *World) Params() Params { return w.params }

// SetParams replaces all parameters at once.
func (w *World) SetParams(p Params) { w.params = p }

// SetTurnEnergyCost sets the energy every agent pays per tick.
func (w *World) SetTurnEnergyCost(v int32) { w.params.TurnEnergyCost = v }

// SetMoveEnergyCost sets the energy paid for stepping onto a free cell.
func (w *World) SetMoveEnergyCost(v int32) { w.params.MoveEnergyCost = v }

// SetFoodEnergyGain sets the energy gained from a food cell.
func (w *World) SetFoodEnergyGain(v int32) { w.params.FoodEnergyGain = v }

// SetPoisonEnergyLoss sets the energy lost to a poison cell.
func (w *World) SetPoisonEnergyLoss(v int32) { w.params.PoisonEnergyLoss = v }

// SetReproEnergyCost sets the cost each parent pays to reproduce.
func (w *World) SetReproEnergyCost(v int32) { w.params.ReproEnergyCost = v }

// SetFoodSpawnAmount sets food units per replenishment pass.
func (w *World) SetFoodSpawnAmount(v uint32) { w.params.FoodSpawnAmount = v }

// SetPoisonSpawnAmount sets poison units per replenishment pass.
func (w *World) SetPoisonSpawnAmount(v uint32) { w.params.PoisonSpawnAmount = v }
