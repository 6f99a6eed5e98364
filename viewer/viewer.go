// Package viewer is the raylib front end: it steps a World each frame and
// draws the grid, HUD, parameter controls and cell inspector.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dnagrid/camera"
	"github.com/pthm-cable/dnagrid/config"
	"github.com/pthm-cable/dnagrid/game"
	"github.com/pthm-cable/dnagrid/inspector"
	"github.com/pthm-cable/dnagrid/renderer"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/ui"
)

// cellSize is the edge of one cell in world units at zoom 1.
const cellSize = 8

const controlsHelp = "[Space] pause  [N] step  [,/.] speed  [R] restart  [P] params  [T] perf  [G] grid  [Home] reset view"

// paramSliders are the live-tunable world parameters.
var paramSliders = []ui.ParamSlider{
	{Name: "turn_energy_cost", Label: "Turn cost", Min: -5, Max: 20},
	{Name: "move_energy_cost", Label: "Move cost", Min: -5, Max: 20},
	{Name: "food_energy_gain", Label: "Food gain", Min: -100, Max: 300},
	{Name: "poison_energy_loss", Label: "Poison loss", Min: -100, Max: 300},
	{Name: "repro_energy_cost", Label: "Reproduction cost", Min: 0, Max: 200},
	{Name: "food_spawn_amount", Label: "Food per replenish", Min: 0, Max: 100},
	{Name: "poison_spawn_amount", Label: "Poison per replenish", Min: 0, Max: 100},
}

// Viewer owns the window state for one world.
type Viewer struct {
	cfg     *config.Config
	world   *game.World
	seeding game.Seeding

	cam       *camera.Camera
	grid      *renderer.GridRenderer
	hud       *ui.HUD
	perf      *ui.PerfPanel
	params    *ui.ParamsPanel
	inspector *inspector.Inspector

	screenW, screenH float32
	paused           bool
	stepOnce         bool
	ticksPerFrame    int
	showPerf         bool
}

// New builds a viewer around a world seeded from cfg. The window is not
// opened until Run.
func New(cfg *config.Config, opts ...game.Option) (*Viewer, error) {
	seeding, err := game.SeedingFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	w, err := game.NewFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}

	sw, sh := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
	hud := ui.NewHUD()
	params := ui.NewParamsPanel(10, 0, hud.Width(), paramSliders)

	return &Viewer{
		cfg:           cfg,
		world:         w,
		seeding:       seeding,
		cam:           camera.New(sw, sh, w.Width(), w.Height(), cellSize),
		grid:          renderer.NewGridRenderer(),
		hud:           hud,
		perf:          ui.NewPerfPanel(int32(sw)-270, int32(sh)-160, systems.NewSystemRegistry()),
		params:        params,
		inspector:     inspector.NewInspector(int32(sw), int32(sh)),
		screenW:       sw,
		screenH:       sh,
		ticksPerFrame: 1,
	}, nil
}

// World returns the simulated world.
func (v *Viewer) World() *game.World { return v.world }

// Run opens the window and loops until it is closed or maxTicks (when
// positive) is reached.
func (v *Viewer) Run(maxTicks int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(v.screenW), int32(v.screenH), "dnagrid")
	defer rl.CloseWindow()
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(v.cfg.Screen.TargetFPS))

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if maxTicks > 0 && v.world.CurrentTick() >= uint64(maxTicks) {
			slog.Info("max ticks reached", "tick", v.world.CurrentTick())
			return
		}
	}
}

// Update handles input and advances the simulation.
func (v *Viewer) Update() {
	v.world.RecordFrame()
	v.handleInput()

	if v.paused && !v.stepOnce {
		return
	}
	n := v.ticksPerFrame
	if v.stepOnce {
		n = 1
		v.stepOnce = false
	}
	for range n {
		v.world.Tick()
		if v.world.Population() == 0 {
			slog.Info("population extinct", "tick", v.world.CurrentTick())
			v.paused = true
			return
		}
	}
}

// restart clears the world and reseeds it with the original seeding.
func (v *Viewer) restart() {
	v.world.Reset()
	placed, res := v.world.Seed(v.seeding)
	v.inspector.Deselect()
	slog.Info("world restarted", "agents", placed, "food", res.Food, "poison", res.Poison)
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	v.grid.Draw(v.cam, v.world.Cells(), v.world.RenderData())
	if x, y, ok := v.inspector.Selected(); ok {
		v.grid.DrawSelection(v.cam, x, y)
	}

	bottom := v.hud.Draw(v.hudData())
	v.params.SetPosition(10, bottom+10)
	v.applyPanel(v.params.Draw(v.paramValues(), v.ticksPerFrame, v.paused))

	if v.showPerf {
		v.perf.Draw(v.world.PerfStats())
	}
	v.inspector.Draw(v.world)
	v.hud.DrawControls(int32(v.screenH), controlsHelp)
}

func (v *Viewer) hudData() ui.HUDData {
	males, females := v.world.GenderCounts()
	food, poison := v.world.ResourceCounts()
	p := v.grid.Palette
	return ui.HUDData{
		Title:         "dnagrid",
		Tick:          v.world.CurrentTick(),
		Population:    v.world.Population(),
		Males:         males,
		Females:       females,
		Food:          food,
		Poison:        poison,
		MeanEnergy:    v.world.EnergyStats().Mean,
		AvgGenes:      v.world.AverageGenome(),
		TicksPerFrame: v.ticksPerFrame,
		FPS:           rl.GetFPS(),
		Paused:        v.paused,
		Legend: []ui.LegendEntry{
			{Label: "food", Color: p.Food},
			{Label: "poison", Color: p.Poison},
			{Label: "male", Color: p.Male},
			{Label: "female", Color: p.Female},
		},
	}
}

func (v *Viewer) paramValues() map[string]int64 {
	values := make(map[string]int64, len(paramSliders))
	for _, s := range paramSliders {
		val, err := v.world.Param(s.Name)
		if err != nil {
			continue
		}
		values[s.Name] = val
	}
	return values
}

func (v *Viewer) applyPanel(res ui.PanelResult) {
	for name, val := range res.Changed {
		if err := v.world.SetParam(name, val); err != nil {
			slog.Warn("set param failed", "param", name, "error", err)
			continue
		}
		slog.Debug("param changed", "param", name, "value", val)
	}
	v.ticksPerFrame = res.Speed

	switch res.Action {
	case ui.ActionToggleRun:
		v.paused = !v.paused
	case ui.ActionStep:
		v.stepOnce = true
	case ui.ActionRestart:
		v.restart()
	}
}
