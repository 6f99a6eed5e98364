package game

import (
	"log/slog"

	"github.com/pthm-cable/dnagrid/components"
	"github.com/pthm-cable/dnagrid/genome"
	"github.com/pthm-cable/dnagrid/systems"
	"github.com/pthm-cable/dnagrid/telemetry"
)

// recordTelemetry feeds the tick report to the collector and event log,
// then flushes the stats window when it is due.
func (w *World) recordTelemetry() {
	w.collector.Record(w.report.Counts)

	if w.eventLog != nil {
		rec := telemetry.TickRecord{
			Tick:       w.tick,
			Population: w.agents.Len(),
			Counts:     w.report.Counts,
			Events:     w.report.Events,
		}
		if err := w.eventLog.WriteTick(rec); err != nil {
			slog.Error("failed to write event log", "error", err)
		}
	}

	w.flushTelemetry()
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (w *World) flushTelemetry() {
	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	stats := w.collector.Flush(w.tick, w.sample())
	perfStats := w.perf.Stats()

	if w.statsCallback != nil {
		w.statsCallback(stats)
	}

	if w.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := w.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := w.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range w.bookmarks.Check(stats) {
		if w.logStats {
			bm.LogBookmark()
		}
		if err := w.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if dir := w.output.SnapshotDir(); dir != "" {
			w.saveSnapshot(dir, &bm)
		}
	}
}

// sample observes the population for a stats window.
func (w *World) sample() telemetry.Sample {
	n := w.agents.Len()
	s := telemetry.Sample{
		Energies:       make([]float64, 0, n),
		Ages:           make([]float64, 0, n),
		Genomes:        make([]genome.Genome, 0, n),
		FoodCells:      w.grid.Count(systems.CellFood),
		PoisonCells:    w.grid.Count(systems.CellPoison),
		ActiveLineages: w.lifetimes.ActiveLineageCount(),
	}
	w.agents.Each(func(a components.Agent) {
		if a.Gender == components.Female {
			s.Females++
		} else {
			s.Males++
		}
		s.Energies = append(s.Energies, float64(a.Energy))
		s.Ages = append(s.Ages, float64(a.Age))
		s.Genomes = append(s.Genomes, a.Genome)
	})
	return s
}

// saveSnapshot creates and saves a snapshot to disk.
func (w *World) saveSnapshot(dir string, bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(w.Snapshot(bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", w.tick)
}

// Snapshot builds a diagnostic snapshot of the current state.
func (w *World) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      w.seed,
		Width:     w.grid.Width(),
		Height:    w.grid.Height(),
		Tick:      w.tick,
		NextID:    w.agents.NextID(),
		Cells:     w.CellsBytes(),
		Agents:    w.Agents(),
		Lifetimes: make(map[uint32]*telemetry.LifetimeStats, w.agents.Len()),
		Bookmark:  bookmark,
	}

	for _, a := range snapshot.Agents {
		if ls := w.lifetimes.Get(a.ID); ls != nil {
			cp := *ls
			snapshot.Lifetimes[a.ID] = &cp
		}
	}

	return snapshot
}

// FlushEvents flushes buffered event log output.
func (w *World) FlushEvents() error {
	if w.eventLog == nil {
		return nil
	}
	return w.eventLog.Flush()
}
