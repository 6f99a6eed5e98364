// Package game runs the grid simulation: seeding, the per-tick engine,
// statistics and the accessors a host uses to draw and inspect the world.
//
// A World is single-threaded. Callers that share one across goroutines
// must confine it to a single goroutine, as the server package does.
package game

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// pendingChild is a child queued by reproduction and placed after every
// agent has acted.
type pendingChild struct {
	anchor   systems.Coord
	parentID uint32
	lineage  uint32
	genome   genome.Genome
	energy   int32
}

// TickReport summarises one call to Tick.
type TickReport struct {
	Tick uint64
	telemetry.Counts

	// Events is populated only when event recording is enabled.
	Events []telemetry.Event
}

// World holds the complete simulation state.
type World struct {
	grid   *systems.Grid
	index  *systems.SpatialIndex
	agents *systems.Registry

	rng    *rand.Rand
	seed   int64
	params Params
	tick   uint64

	pending []pendingChild
	report  TickReport

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	lifetimes     *telemetry.LifetimeTracker
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	eventLog      *telemetry.EventLog
	recordEvents  bool
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// Option configures a World at construction.
type Option func(*World)

// WithSeed seeds the world's random source.
func WithSeed(seed int64) Option {
	return func(w *World) {
		w.seed = seed
		w.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects a random source. The world takes ownership of it.
func WithRand(rng *rand.Rand) Option {
	return func(w *World) { w.rng = rng }
}

// WithParams replaces the default parameters.
func WithParams(p Params) Option {
	return func(w *World) { w.params = p }
}

// WithStatsWindow sets the number of ticks per telemetry window.
func WithStatsWindow(ticks int) Option {
	return func(w *World) { w.collector = telemetry.NewCollector(ticks) }
}

// WithPerfWindow sets the number of ticks the perf collector averages.
func WithPerfWindow(ticks int) Option {
	return func(w *World) { w.perf = telemetry.NewPerfCollector(ticks) }
}

// WithOutput writes window stats, perf, bookmarks and bookmark snapshots
// through om.
func WithOutput(om *telemetry.OutputManager) Option {
	return func(w *World) { w.output = om }
}

// WithEventLog writes one compressed record per tick. Enables event
// recording.
func WithEventLog(l *telemetry.EventLog) Option {
	return func(w *World) {
		w.eventLog = l
		w.recordEvents = l != nil
	}
}

// WithEvents records per-tick events into TickReport.Events.
func WithEvents(enabled bool) Option {
	return func(w *World) { w.recordEvents = enabled }
}

// WithLogStats logs each flushed window and bookmark through slog.
func WithLogStats(enabled bool) Option {
	return func(w *World) { w.logStats = enabled }
}

// WithStatsCallback is called with every flushed window.
func WithStatsCallback(fn func(telemetry.WindowStats)) Option {
	return func(w *World) { w.statsCallback = fn }
}

// NewWorld creates an empty width x height world with no agents and no
// resources. Dimensions are fixed for the lifetime of the world.
func NewWorld(width, height uint32, opts ...Option) *World {
	w := &World{
		grid:      systems.NewGrid(width, height),
		index:     systems.NewSpatialIndex(),
		agents:    systems.NewRegistry(),
		params:    DefaultParams(),
		collector: telemetry.NewCollector(300),
		perf:      telemetry.NewPerfCollector(60),
		lifetimes: telemetry.NewLifetimeTracker(),
		bookmarks: telemetry.NewBookmarkDetector(10),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.seed = time.Now().UnixNano()
		w.rng = rand.New(rand.NewSource(w.seed))
	}
	return w
}

// Width returns the number of columns.
func (w *World) Width() uint32 { return w.grid.Width() }

// Height returns the number of rows.
func (w *World) Height() uint32 { return w.grid.Height() }

// Cells returns the row-major resource layer. The slice aliases world
// storage; copy it before handing it to another goroutine.
func (w *World) Cells() []systems.CellType { return w.grid.Cells() }

// CellsBytes returns a copy of the resource layer, one byte per cell.
func (w *World) CellsBytes() []byte {
	cells := w.grid.Cells()
	out := make([]byte, len(cells))
	for i, c := range cells {
		out[i] = byte(c)
	}
	return out
}

// CellAt returns the resource state of one cell. Out-of-range coordinates
// report false.
func (w *World) CellAt(x, y uint32) (systems.CellType, bool) {
	if !w.grid.InBounds(int64(x), int64(y)) {
		return systems.CellEmpty, false
	}
	return w.grid.At(systems.Coord{X: x, Y: y}), true
}

// SetCell writes the resource state of one cell, for scenario setup and
// walls. Out-of-range coordinates are ignored.
func (w *World) SetCell(x, y uint32, t systems.CellType) bool {
	if !w.grid.InBounds(int64(x), int64(y)) {
		return false
	}
	w.grid.Set(systems.Coord{X: x, Y: y}, t)
	return true
}

// CurrentTick returns the number of completed ticks.
func (w *World) CurrentTick() uint64 { return w.tick }

// RandSeed returns the seed of the world's own random source. It is only
// meaningful when the world created the source itself.
func (w *World) RandSeed() int64 { return w.seed }

// NextID returns the id the next agent will receive.
func (w *World) NextID() uint32 { return w.agents.NextID() }

// Lifetime returns the lifetime record of a live agent.
func (w *World) Lifetime(id uint32) (telemetry.LifetimeStats, bool) {
	s := w.lifetimes.Get(id)
	if s == nil {
		return telemetry.LifetimeStats{}, false
	}
	return *s, true
}

// PerfStats returns timing for recent ticks.
func (w *World) PerfStats() telemetry.PerfStats { return w.perf.Stats() }

// RecordFrame feeds frame timing from a graphical host into the perf stats.
func (w *World) RecordFrame() { w.perf.RecordFrame() }

// AgentAt returns the agent standing on (x, y).
func (w *World) AgentAt(x, y uint32) (components.Agent, bool) {
	id, ok := w.index.Lookup(systems.Coord{X: x, Y: y})
	if !ok {
		return components.Agent{}, false
	}
	return w.agents.Get(id)
}

// Agent returns a live agent by id.
func (w *World) Agent(id uint32) (components.Agent, bool) {
	return w.agents.Get(id)
}

// RenderData returns x, y, gender triples for every live agent, in no
// particular order.
func (w *World) RenderData() []uint32 {
	data := make([]uint32, 0, w.agents.Len()*3)
	w.agents.Each(func(a components.Agent) {
		data = append(data, a.X, a.Y, uint32(a.Gender))
	})
	return data
}

// Agents returns a copy of every live agent in ascending id order.
func (w *World) Agents() []components.Agent {
	ids := w.agents.IDs()
	out := make([]components.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := w.agents.Get(id); ok {
			out = append(out, a)
		}
	}
	return out
}
