package game

import (
	"bufio"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/dnagrid/telemetry"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestWindowFlushWritesOutput(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	var windows []telemetry.WindowStats
	w := newTestWorld(t, 10, 10, quietParams(),
		WithOutput(om),
		WithStatsWindow(10),
		WithStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) }),
	)
	w.SpawnAgents(5)

	for i := 0; i < 25; i++ {
		w.Tick()
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("flushed %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 10 || windows[1].WindowEndTick != 20 {
		t.Errorf("window ends = %d, %d", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if got := countLines(t, filepath.Join(dir, "telemetry.csv")); got != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2 rows", got)
	}
	if got := countLines(t, filepath.Join(dir, "perf.csv")); got != 3 {
		t.Errorf("perf.csv has %d lines, want header + 2 rows", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := newTestWorld(t, 8, 8, quietParams())
	w.GenerateRandomObjects(5, 3)
	w.SpawnAgents(6)
	w.Tick()

	path, err := telemetry.SaveSnapshot(w.Snapshot(nil), t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, err := telemetry.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if got.Tick != 1 || got.Width != 8 || got.NextID != w.NextID() {
		t.Errorf("header = %+v", got)
	}
	if !reflect.DeepEqual(got.Agents, w.Agents()) {
		t.Error("agents differ after round trip")
	}
	if !reflect.DeepEqual(got.Cells, w.CellsBytes()) {
		t.Error("cells differ after round trip")
	}
	if len(got.Lifetimes) != w.Population() {
		t.Errorf("lifetimes = %d, population = %d", len(got.Lifetimes), w.Population())
	}
}

func TestEventLogReceivesTicks(t *testing.T) {
	dir := t.TempDir()
	log := telemetry.NewEventLog(dir)
	w := newTestWorld(t, 6, 6, quietParams(), WithEventLog(log))
	w.SpawnAgents(4)

	for i := 0; i < 3; i++ {
		w.Tick()
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "events-*.jsonl.zst"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no event log written: %v", err)
	}
}
