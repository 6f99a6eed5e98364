// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Energy     EnergyConfig     `yaml:"energy"`
	Resource   ResourceConfig   `yaml:"resource"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Server     ServerConfig     `yaml:"server"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds grid dimensions. Fixed for the lifetime of a world.
type WorldConfig struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// EnergyConfig holds the energy economy. All values are applied per tick
// or per event and may be zero or negative.
type EnergyConfig struct {
	TurnCost   int32 `yaml:"turn_cost"`   // Deducted from every agent each tick
	MoveCost   int32 `yaml:"move_cost"`   // Deducted when an agent steps onto a free cell
	FoodGain   int32 `yaml:"food_gain"`   // Gained when entering a food cell
	PoisonLoss int32 `yaml:"poison_loss"` // Lost when entering a poison cell
	Start      int32 `yaml:"start"`       // Energy of seeded agents
	ReproCost  int32 `yaml:"repro_cost"`  // Paid by each parent; child gets twice this
}

// ResourceConfig holds food/poison seeding parameters.
type ResourceConfig struct {
	FoodSpawn         uint32  `yaml:"food_spawn"`         // Food units per replenishment
	PoisonSpawn       uint32  `yaml:"poison_spawn"`       // Poison units per replenishment
	ReplenishChance   float64 `yaml:"replenish_chance"`   // Probability of replenishment per tick
	InitialFood       uint32  `yaml:"initial_food"`       // Food placed at world creation
	InitialPoison     uint32  `yaml:"initial_poison"`     // Poison placed at world creation
	PlacementAttempts int     `yaml:"placement_attempts"` // Random probes per resource unit
}

// PopulationConfig holds initial population parameters.
type PopulationConfig struct {
	Initial       uint32 `yaml:"initial"`
	SpawnAttempts int    `yaml:"spawn_attempts"` // Random probes per seeded agent
	Genome        []int  `yaml:"genome"`         // Fixed genome for seeded agents (5 values, empty = random)
	Priority      string `yaml:"priority"`       // Preference ranking, e.g. "food > empty > opposite"
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int  `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int  `yaml:"perf_window"`  // Ticks averaged by the perf collector
	EventLog    bool `yaml:"event_log"`    // Write compressed per-tick event log to the output dir
}

// ServerConfig holds websocket host parameters.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	TickDelayMS int    `yaml:"tick_delay_ms"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellCount   int    // World.Width * World.Height
	GenomeBytes []byte // Population.Genome as bytes (nil when not exactly 5 values)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations that cannot describe a world.
// Energy values are deliberately unchecked.
func (c *Config) validate() error {
	if c.World.Width == 0 || c.World.Height == 0 {
		return fmt.Errorf("world dimensions must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	if c.Resource.ReplenishChance < 0 || c.Resource.ReplenishChance > 1 {
		return fmt.Errorf("resource.replenish_chance must be in [0, 1], got %v", c.Resource.ReplenishChance)
	}
	for i, v := range c.Population.Genome {
		if v < 0 || v > 255 {
			return fmt.Errorf("population.genome[%d] out of byte range: %d", i, v)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CellCount = int(c.World.Width) * int(c.World.Height)

	c.Derived.GenomeBytes = nil
	if len(c.Population.Genome) == 5 {
		b := make([]byte, 5)
		for i, v := range c.Population.Genome {
			b[i] = byte(v)
		}
		c.Derived.GenomeBytes = b
	}

	if c.Resource.PlacementAttempts <= 0 {
		c.Resource.PlacementAttempts = 100
	}
	if c.Population.SpawnAttempts <= 0 {
		c.Population.SpawnAttempts = 1000
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 300
	}
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = 60
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
