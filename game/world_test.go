package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// quietParams disables replenishment so scenarios stay exact.
func quietParams() Params {
	p := DefaultParams()
	p.ReplenishChance = 0
	return p
}

func newTestWorld(t *testing.T, w, h uint32, p Params, opts ...Option) *World {
	t.Helper()
	return NewWorld(w, h, append([]Option{WithSeed(1), WithParams(p)}, opts...)...)
}

// place seeds one agent with a given energy.
func place(t *testing.T, w *World, x, y uint32, energy int32, gender components.Gender, g genome.Genome) uint32 {
	t.Helper()
	saved := w.params.StartEnergy
	w.params.StartEnergy = energy
	defer func() { w.params.StartEnergy = saved }()

	id, ok := w.PlaceAgent(x, y, gender, g)
	if !ok {
		t.Fatalf("PlaceAgent(%d,%d) failed", x, y)
	}
	return id
}

func prefer(c genome.Category) genome.Genome {
	var g genome.Genome
	g[c] = 255
	return g
}

func TestFoodScenario(t *testing.T) {
	w := newTestWorld(t, 3, 3, quietParams())
	w.SetCell(2, 1, systems.CellFood)
	id := place(t, w, 1, 1, 150, components.Male, prefer(genome.CategoryFood))

	report := w.Tick()

	a, ok := w.AgentAt(2, 1)
	if !ok || a.ID != id {
		t.Fatalf("agent not on the former food cell: %+v, %v", a, ok)
	}
	if want := int32(150 - 1 - 2 + 60); a.Energy != want {
		t.Errorf("energy = %d, want %d", a.Energy, want)
	}
	if c, _ := w.CellAt(2, 1); c != systems.CellEmpty {
		t.Errorf("food cell = %v after eating, want empty", c)
	}
	if _, ok := w.AgentAt(1, 1); ok {
		t.Error("old cell still occupied")
	}
	if report.FoodEaten != 1 || report.Tick != 1 {
		t.Errorf("report = %+v", report)
	}
	if a.Age != 1 {
		t.Errorf("age = %d, want 1", a.Age)
	}
}

func TestCombat(t *testing.T) {
	tests := []struct {
		name        string
		initiator   int32
		defender    int32
		initiatorUp bool
	}{
		{"initiator stronger", 100, 60, true},
		{"defender stronger", 60, 100, false},
		{"tie goes to defender", 80, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quietParams()
			p.TurnEnergyCost = 0
			p.MoveEnergyCost = 0
			w := newTestWorld(t, 2, 1, p)

			fightGenome := prefer(genome.CategorySameGender)
			a := place(t, w, 0, 0, tt.initiator, components.Male, fightGenome)
			b := place(t, w, 1, 0, tt.defender, components.Male, fightGenome)

			report := w.Tick()

			if w.Population() != 1 {
				t.Fatalf("population = %d, want 1", w.Population())
			}
			if report.Fights != 1 || report.Killed != 1 {
				t.Errorf("fights = %d, killed = %d; want 1, 1", report.Fights, report.Killed)
			}

			survivor, loser := a, b
			if !tt.initiatorUp {
				survivor, loser = b, a
			}
			got, ok := w.Agent(survivor)
			if !ok {
				t.Fatalf("agent %d should have survived", survivor)
			}
			if _, ok := w.Agent(loser); ok {
				t.Errorf("agent %d should be gone", loser)
			}
			if want := tt.initiator + tt.defender; got.Energy != want {
				t.Errorf("winner energy = %d, want %d", got.Energy, want)
			}
			if tt.initiatorUp && (got.X != 1 || got.Y != 0) {
				t.Errorf("winning initiator at (%d,%d), want (1,0)", got.X, got.Y)
			}
			checkIndex(t, w)
		})
	}
}

func TestReproduction(t *testing.T) {
	p := quietParams()
	p.TurnEnergyCost = 0
	p.MoveEnergyCost = 0
	w := newTestWorld(t, 3, 1, p)

	male := place(t, w, 0, 0, 150, components.Male, prefer(genome.CategoryOppositeGender))
	female := place(t, w, 1, 0, 150, components.Female, prefer(genome.CategoryEmpty))

	report := w.Tick()

	if report.Matings != 1 || report.Births != 1 {
		t.Fatalf("matings = %d, births = %d; want 1, 1", report.Matings, report.Births)
	}

	m, _ := w.Agent(male)
	f, _ := w.Agent(female)
	if m.Energy != 100 || f.Energy != 100 {
		t.Errorf("parent energies = %d, %d; want 100 each", m.Energy, f.Energy)
	}
	if m.X != 0 {
		t.Errorf("initiator moved to x=%d", m.X)
	}
	if f.X != 2 {
		t.Errorf("partner at x=%d, want 2", f.X)
	}

	child, ok := w.AgentAt(1, 0)
	if !ok {
		t.Fatal("child not placed next to its anchor")
	}
	if child.ID != 2 || child.Energy != 2*p.ReproEnergyCost || child.Age != 0 {
		t.Errorf("child = %+v", child)
	}
	if ls, ok := w.Lifetime(child.ID); !ok || ls.ParentID != male {
		t.Errorf("child lifetime = %+v, %v", ls, ok)
	}
	checkIndex(t, w)
}

func TestReproductionNeedsEnergy(t *testing.T) {
	p := quietParams()
	p.TurnEnergyCost = 0
	w := newTestWorld(t, 2, 1, p)

	male := place(t, w, 0, 0, 150, components.Male, prefer(genome.CategoryOppositeGender))
	female := place(t, w, 1, 0, p.ReproEnergyCost, components.Female, prefer(genome.CategoryOppositeGender))

	report := w.Tick()

	if report.Matings != 0 || report.Births != 0 {
		t.Errorf("matings = %d, births = %d; want none", report.Matings, report.Births)
	}
	m, _ := w.Agent(male)
	f, _ := w.Agent(female)
	if m.Energy != 150 || f.Energy != p.ReproEnergyCost {
		t.Errorf("energies changed: %d, %d", m.Energy, f.Energy)
	}
	if m.X != 0 || f.X != 1 {
		t.Error("failed mating must not move anyone")
	}
}

func TestChildDroppedWhenSurrounded(t *testing.T) {
	w := newTestWorld(t, 2, 1, quietParams())
	place(t, w, 0, 0, 150, components.Male, prefer(genome.CategoryOppositeGender))
	place(t, w, 1, 0, 150, components.Female, genome.Genome{})

	report := w.Tick()

	if report.Matings == 0 {
		t.Fatal("expected at least one mating")
	}
	if report.ChildrenDropped != report.Matings || report.Births != 0 {
		t.Errorf("dropped = %d, matings = %d, births = %d", report.ChildrenDropped, report.Matings, report.Births)
	}
	if w.Population() != 2 {
		t.Errorf("population = %d, want 2", w.Population())
	}
	if w.NextID() != 2 {
		t.Errorf("dropped children must not consume ids, next = %d", w.NextID())
	}
}

func TestStarvationFreesCell(t *testing.T) {
	w := newTestWorld(t, 3, 3, quietParams())
	place(t, w, 1, 1, 1, components.Female, genome.Genome{})

	report := w.Tick()

	if w.Population() != 0 || report.Starved != 1 {
		t.Fatalf("population = %d, starved = %d", w.Population(), report.Starved)
	}
	if _, ok := w.AgentAt(1, 1); ok {
		t.Error("starved agent still indexed")
	}
	if _, ok := w.PlaceAgent(1, 1, components.Male, genome.Genome{}); !ok {
		t.Error("cell should be free for the next tick")
	}
}

func TestPoisonDeath(t *testing.T) {
	w := newTestWorld(t, 2, 1, quietParams())
	w.SetCell(1, 0, systems.CellPoison)
	place(t, w, 0, 0, 50, components.Male, prefer(genome.CategoryPoison))

	report := w.Tick()

	if report.Poisoned != 1 || report.PoisonEaten != 1 || w.Population() != 0 {
		t.Errorf("report = %+v, population = %d", report.Counts, w.Population())
	}
	if c, _ := w.CellAt(1, 0); c != systems.CellEmpty {
		t.Errorf("poison not consumed: %v", c)
	}
	if _, ok := w.AgentAt(1, 0); ok {
		t.Error("dead agent left in the index")
	}
}

func TestWallsAreNeverEntered(t *testing.T) {
	w := newTestWorld(t, 3, 3, quietParams())
	for y := uint32(0); y < 3; y++ {
		for x := uint32(0); x < 3; x++ {
			w.SetCell(x, y, systems.CellWall)
		}
	}
	w.SetCell(1, 1, systems.CellEmpty)
	id := place(t, w, 1, 1, 150, components.Male, genome.Genome{255, 255, 255, 255, 255})

	w.Tick()

	a, ok := w.Agent(id)
	if !ok || a.X != 1 || a.Y != 1 {
		t.Fatalf("boxed-in agent moved: %+v", a)
	}
	if a.Energy != 149 {
		t.Errorf("energy = %d, want turn cost only", a.Energy)
	}
}

// TestPartnerEnergyReadLive covers a female who already paid for one mating
// this tick and is then reached by a later agent.
func TestPartnerEnergyReadLive(t *testing.T) {
	tests := []struct {
		name      string
		lastGene  genome.Category
		lastSex   components.Gender
		lastStart int32
		// expected after one tick
		lastEnergy  int32
		lastX       uint32
		femaleAlive bool
		fights      int
		killed      int
	}{
		{"second suitor is refused", genome.CategoryOppositeGender, components.Male, 150, 150, 2, true, 0, 0},
		{"rival beats the weakened female", genome.CategorySameGender, components.Female, 60, 100, 1, false, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quietParams()
			p.TurnEnergyCost = 0
			p.MoveEnergyCost = 0
			w := newTestWorld(t, 3, 1, p)

			suitor := place(t, w, 0, 0, 150, components.Male, prefer(genome.CategoryOppositeGender))
			female := place(t, w, 1, 0, 90, components.Female, prefer(genome.CategoryOppositeGender))
			last := place(t, w, 2, 0, tt.lastStart, tt.lastSex, prefer(tt.lastGene))

			report := w.Tick()

			if report.Matings != 1 {
				t.Errorf("matings = %d, want 1", report.Matings)
			}
			if report.Fights != tt.fights || report.Killed != tt.killed {
				t.Errorf("fights = %d, killed = %d; want %d, %d", report.Fights, report.Killed, tt.fights, tt.killed)
			}
			if report.Births != 0 || report.ChildrenDropped != 1 {
				t.Errorf("births = %d, dropped = %d; want 0, 1", report.Births, report.ChildrenDropped)
			}

			s, _ := w.Agent(suitor)
			if s.Energy != 100 || s.X != 0 {
				t.Errorf("suitor = %+v, want energy 100 at x=0", s)
			}

			f, ok := w.Agent(female)
			if ok != tt.femaleAlive {
				t.Fatalf("female alive = %v, want %v", ok, tt.femaleAlive)
			}
			if ok && f.Energy != 40 {
				t.Errorf("female energy = %d, want 40", f.Energy)
			}

			l, ok := w.Agent(last)
			if !ok {
				t.Fatal("last agent should be alive")
			}
			if l.Energy != tt.lastEnergy || l.X != tt.lastX {
				t.Errorf("last agent = %+v, want energy %d at x=%d", l, tt.lastEnergy, tt.lastX)
			}
			checkIndex(t, w)
		})
	}
}

func TestChildKeepsLineageOfDeadParent(t *testing.T) {
	p := quietParams()
	p.TurnEnergyCost = 0
	p.MoveEnergyCost = 0
	w := newTestWorld(t, 3, 2, p)

	father := place(t, w, 0, 0, 150, components.Male, prefer(genome.CategoryOppositeGender))
	place(t, w, 1, 0, 90, components.Female, prefer(genome.CategoryOppositeGender))
	place(t, w, 0, 1, 200, components.Male, prefer(genome.CategorySameGender))
	w.lifetimes.Get(father).Lineage = 42
	childID := w.NextID()

	report := w.Tick()

	if _, ok := w.Agent(father); ok {
		t.Fatal("father should have been killed after mating")
	}
	if report.Births != 1 {
		t.Fatalf("births = %d, want 1", report.Births)
	}
	ls, ok := w.Lifetime(childID)
	if !ok {
		t.Fatalf("no lifetime for child %d", childID)
	}
	if ls.Lineage != 42 || ls.ParentID != father {
		t.Errorf("child lifetime = %+v, want lineage 42 parent %d", ls, father)
	}
	checkIndex(t, w)
}

// checkIndex verifies every live agent is indexed at its own cell and no
// two agents share one.
func checkIndex(t *testing.T, w *World) {
	t.Helper()
	seen := make(map[systems.Coord]uint32)
	for _, a := range w.Agents() {
		c := systems.Coord{X: a.X, Y: a.Y}
		if other, dup := seen[c]; dup {
			t.Fatalf("agents %d and %d share (%d,%d)", other, a.ID, a.X, a.Y)
		}
		seen[c] = a.ID
		id, ok := w.index.Lookup(c)
		if !ok || id != a.ID {
			t.Fatalf("index at (%d,%d) = %d, %v; want %d", a.X, a.Y, id, ok, a.ID)
		}
	}
	if w.index.Len() != w.Population() {
		t.Fatalf("index has %d entries, population %d", w.index.Len(), w.Population())
	}
}

func TestIndexAndIDInvariants(t *testing.T) {
	w := newTestWorld(t, 20, 20, DefaultParams())
	w.GenerateRandomObjects(60, 15)
	w.SpawnAgents(60)

	dead := make(map[uint32]bool)
	live := make(map[uint32]bool)
	for _, a := range w.Agents() {
		live[a.ID] = true
	}

	for tick := 0; tick < 300 && w.Population() > 0; tick++ {
		w.Tick()
		checkIndex(t, w)

		next := make(map[uint32]bool)
		for _, a := range w.Agents() {
			if dead[a.ID] {
				t.Fatalf("tick %d: id %d reused", tick, a.ID)
			}
			if a.ID >= w.NextID() {
				t.Fatalf("tick %d: id %d not below next id %d", tick, a.ID, w.NextID())
			}
			next[a.ID] = true
		}
		for id := range live {
			if !next[id] {
				dead[id] = true
			}
		}
		live = next
	}
}

func TestDeterminism(t *testing.T) {
	run := func() ([]components.Agent, []byte) {
		w := NewWorld(30, 30, WithSeed(7))
		w.GenerateRandomObjects(100, 20)
		w.SpawnAgents(40)
		w.Run(200)
		return w.Agents(), w.CellsBytes()
	}

	agents1, cells1 := run()
	agents2, cells2 := run()
	if !reflect.DeepEqual(agents1, agents2) {
		t.Error("agent state differs between runs with the same seed")
	}
	if !reflect.DeepEqual(cells1, cells2) {
		t.Error("cell state differs between runs with the same seed")
	}
}

func TestGenomeBias(t *testing.T) {
	p := DefaultParams()
	p.ReplenishChance = 1
	p.FoodSpawnAmount = 20
	p.PoisonSpawnAmount = 0
	w := NewWorld(50, 50, WithSeed(3), WithParams(p))
	w.GenerateRandomObjects(300, 40)
	foodie := prefer(genome.CategoryFood)
	w.SpawnAgentsWithGenome(80, foodie[:])

	w.Run(500)

	if w.Population() == 0 {
		t.Fatal("population died out despite steady food")
	}
	avg := w.AverageGenome()
	food := avg[genome.CategoryFood]
	if food < 2*avg[genome.CategoryPoison] || food < 2*avg[genome.CategoryEmpty] {
		t.Errorf("food preference did not dominate: %v", avg)
	}
}

func TestSpawnAgentsWithGenome(t *testing.T) {
	t.Run("exact length is shared", func(t *testing.T) {
		w := newTestWorld(t, 10, 10, quietParams())
		genes := []byte{1, 2, 3, 4, 5}
		if n := w.SpawnAgentsWithGenome(20, genes); n != 20 {
			t.Fatalf("placed %d, want 20", n)
		}
		for _, a := range w.Agents() {
			if a.Genome != (genome.Genome{1, 2, 3, 4, 5}) {
				t.Fatalf("agent %d genome = %v", a.ID, a.Genome)
			}
			if a.Energy != 150 {
				t.Fatalf("agent %d energy = %d", a.ID, a.Energy)
			}
		}
	})

	t.Run("wrong length falls back to random", func(t *testing.T) {
		w := newTestWorld(t, 10, 10, quietParams())
		w.SpawnAgentsWithGenome(30, []byte{1, 2, 3, 4})
		distinct := make(map[genome.Genome]bool)
		for _, a := range w.Agents() {
			distinct[a.Genome] = true
		}
		if len(distinct) < 2 {
			t.Errorf("expected random genomes, got %d distinct", len(distinct))
		}
	})

	t.Run("avoids resources and full grid", func(t *testing.T) {
		w := newTestWorld(t, 2, 2, quietParams())
		w.SetCell(0, 0, systems.CellFood)
		if n := w.SpawnAgents(10); n != 3 {
			t.Errorf("placed %d on a 2x2 grid with one food cell, want 3", n)
		}
		if _, ok := w.AgentAt(0, 0); ok {
			t.Error("agent seeded onto a resource cell")
		}
	})
}

func TestSetParam(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		get   func(Params) int64
	}{
		{"turn_energy_cost", 3, func(p Params) int64 { return int64(p.TurnEnergyCost) }},
		{"move_energy_cost", 0, func(p Params) int64 { return int64(p.MoveEnergyCost) }},
		{"food_energy_gain", -5, func(p Params) int64 { return int64(p.FoodEnergyGain) }},
		{"poison_energy_loss", 7, func(p Params) int64 { return int64(p.PoisonEnergyLoss) }},
		{"repro_energy_cost", 11, func(p Params) int64 { return int64(p.ReproEnergyCost) }},
		{"food_spawn_amount", 9, func(p Params) int64 { return int64(p.FoodSpawnAmount) }},
		{"poison_spawn_amount", 4, func(p Params) int64 { return int64(p.PoisonSpawnAmount) }},
	}

	w := NewWorld(5, 5, WithSeed(1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.SetParam(tt.name, tt.value); err != nil {
				t.Fatalf("SetParam: %v", err)
			}
			if got := tt.get(w.Params()); got != tt.value {
				t.Errorf("got %d, want %d", got, tt.value)
			}
			if got, err := w.Param(tt.name); err != nil || got != tt.value {
				t.Errorf("Param(%q) = %d, %v", tt.name, got, err)
			}
		})
	}

	if err := w.SetParam("gravity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("unknown param error = %v", err)
	}
	if _, err := w.Param("gravity"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("unknown param read error = %v", err)
	}
	if len(ParamNames()) != len(tests) {
		t.Errorf("ParamNames() = %v", ParamNames())
	}
}

func TestStatisticsAccessors(t *testing.T) {
	w := newTestWorld(t, 4, 4, quietParams())
	if w.AverageGenome() != ([genome.Size]float64{}) {
		t.Error("empty world average should be zero")
	}
	if len(w.RenderData()) != 0 {
		t.Error("empty world render data should be empty")
	}

	place(t, w, 0, 0, 100, components.Male, genome.Genome{10, 20, 30, 40, 50})
	place(t, w, 3, 3, 200, components.Female, genome.Genome{30, 40, 50, 60, 70})

	if got, want := w.AverageGenome(), [genome.Size]float64{20, 30, 40, 50, 60}; got != want {
		t.Errorf("AverageGenome() = %v, want %v", got, want)
	}

	data := w.RenderData()
	if len(data) != 6 {
		t.Fatalf("render data len = %d, want 6", len(data))
	}
	seen := map[[3]uint32]bool{}
	for i := 0; i < len(data); i += 3 {
		seen[[3]uint32{data[i], data[i+1], data[i+2]}] = true
	}
	if !seen[[3]uint32{0, 0, 0}] || !seen[[3]uint32{3, 3, 1}] {
		t.Errorf("render data = %v", data)
	}

	if es := w.EnergyStats(); es.Mean != 150 {
		t.Errorf("energy mean = %v, want 150", es.Mean)
	}
	if m, f := w.GenderCounts(); m != 1 || f != 1 {
		t.Errorf("gender counts = %d, %d", m, f)
	}
	if _, ok := w.AgentAt(2, 2); ok {
		t.Error("AgentAt on an empty cell should report none")
	}
	if _, ok := w.CellAt(4, 0); ok {
		t.Error("CellAt out of range should report false")
	}
}

func TestEventsRecorded(t *testing.T) {
	w := newTestWorld(t, 3, 3, quietParams(), WithEvents(true))
	w.SetCell(2, 1, systems.CellFood)
	place(t, w, 1, 1, 150, components.Male, prefer(genome.CategoryFood))

	report := w.Tick()

	if len(report.Events) != 1 || report.Events[0].Type != telemetry.EventFeed {
		t.Fatalf("events = %+v", report.Events)
	}
	if report.Events[0].Amount != 60 {
		t.Errorf("feed amount = %d, want 60", report.Events[0].Amount)
	}
}

func TestReset(t *testing.T) {
	w := newTestWorld(t, 10, 10, quietParams())
	w.GenerateRandomObjects(10, 10)
	w.SpawnAgents(10)
	w.Tick()
	next := w.NextID()

	w.Reset()

	if w.Population() != 0 || w.CurrentTick() != 0 {
		t.Errorf("population = %d, tick = %d after reset", w.Population(), w.CurrentTick())
	}
	if f, p := w.ResourceCounts(); f != 0 || p != 0 {
		t.Errorf("resources = %d, %d after reset", f, p)
	}
	checkIndex(t, w)

	id, _ := w.PlaceAgent(0, 0, components.Male, genome.Genome{})
	if id != next {
		t.Errorf("id after reset = %d, want %d", id, next)
	}
}
