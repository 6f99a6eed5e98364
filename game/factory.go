package game

import (
	"fmt"

	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
)

// Seeding describes the initial contents of a world.
type Seeding struct {
	Population uint32
	Food       uint32
	Poison     uint32

	// Genome, when exactly genome.Size bytes, is shared by every seeded
	// agent. Otherwise each agent gets a random genome.
	Genome []byte
}

// SeedingFromConfig reads the initial population and resources. A priority
// ranking takes precedence over an explicit genome.
func SeedingFromConfig(cfg *config.Config) (Seeding, error) {
	s := Seeding{
		Population: cfg.Population.Initial,
		Food:       cfg.Resource.InitialFood,
		Poison:     cfg.Resource.InitialPoison,
		Genome:     cfg.Derived.GenomeBytes,
	}
	if cfg.Population.Priority != "" {
		g, err := genome.ParseGenome(cfg.Population.Priority)
		if err != nil {
			return Seeding{}, fmt.Errorf("population.priority: %w", err)
		}
		s.Genome = g[:]
	}
	return s, nil
}

// Seed places resources first, then agents, so agents never start on a
// resource cell.
func (w *World) Seed(s Seeding) (placed int, res systems.SeedResult) {
	res = w.GenerateRandomObjects(s.Food, s.Poison)
	placed = w.SpawnAgentsWithGenome(s.Population, s.Genome)
	return placed, res
}

// NewFromConfig builds and seeds a world from configuration. opts are
// applied after the config-derived options.
func NewFromConfig(cfg *config.Config, opts ...Option) (*World, error) {
	seeding, err := SeedingFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithParams(ParamsFromConfig(cfg)),
		WithStatsWindow(cfg.Telemetry.StatsWindow),
		WithPerfWindow(cfg.Telemetry.PerfWindow),
	}
	w := NewWorld(cfg.World.Width, cfg.World.Height, append(base, opts...)...)
	w.Seed(seeding)
	return w, nil
}
