package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.World.Width != 100 || cfg.World.Height != 100 {
		t.Errorf("world = %dx%d, want 100x100", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Energy.Start != 150 {
		t.Errorf("energy.start = %d, want 150", cfg.Energy.Start)
	}
	if cfg.Energy.ReproCost != 50 {
		t.Errorf("energy.repro_cost = %d, want 50", cfg.Energy.ReproCost)
	}
	if cfg.Resource.ReplenishChance != 0.1 {
		t.Errorf("resource.replenish_chance = %v, want 0.1", cfg.Resource.ReplenishChance)
	}
	if cfg.Derived.CellCount != 10000 {
		t.Errorf("derived cell count = %d, want 10000", cfg.Derived.CellCount)
	}
	if cfg.Derived.GenomeBytes != nil {
		t.Errorf("default genome should be nil, got %v", cfg.Derived.GenomeBytes)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
world:
  width: 20
energy:
  food_gain: 10
population:
  genome: [0, 255, 0, 0, 0]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.World.Width != 20 {
		t.Errorf("world.width = %d, want 20", cfg.World.Width)
	}
	// Untouched fields keep defaults
	if cfg.World.Height != 100 {
		t.Errorf("world.height = %d, want default 100", cfg.World.Height)
	}
	if cfg.Energy.FoodGain != 10 {
		t.Errorf("energy.food_gain = %d, want 10", cfg.Energy.FoodGain)
	}
	if cfg.Energy.PoisonLoss != 100 {
		t.Errorf("energy.poison_loss = %d, want default 100", cfg.Energy.PoisonLoss)
	}
	want := []byte{0, 255, 0, 0, 0}
	if string(cfg.Derived.GenomeBytes) != string(want) {
		t.Errorf("genome bytes = %v, want %v", cfg.Derived.GenomeBytes, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "world:\n  width: 0\n"},
		{"chance above one", "resource:\n  replenish_chance: 1.5\n"},
		{"genome out of range", "population:\n  genome: [0, 300, 0, 0, 0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Energy.MoveCost = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if loaded.Energy.MoveCost != 7 {
		t.Errorf("move_cost = %d, want 7", loaded.Energy.MoveCost)
	}
}

func TestWrongLengthGenomeHasNoBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("population:\n  genome: [1, 2, 3]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.GenomeBytes != nil {
		t.Errorf("3-value genome should yield nil bytes, got %v", cfg.Derived.GenomeBytes)
	}
}
