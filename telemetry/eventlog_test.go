package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []map[string]any
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestEventLogWritesCompressedLines(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2024, 5, 1, 13, 20, 0, 0, time.UTC)

	log := NewEventLog(dir)
	log.now = func() time.Time { return clock }

	rec := TickRecord{
		Tick:       3,
		Population: 10,
		Counts:     Counts{Births: 1, Killed: 1},
		Events: []Event{
			NewDeathEvent(3, 5, 6, 1, 1, CauseCombat),
			NewBirthEvent(3, 11, 2, 0, 1, 100),
		},
	}
	if err := log.WriteTick(rec); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if err := log.WriteTick(TickRecord{Tick: 4, Population: 10}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lines := readLines(t, log.Path(clock))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["tick"].(float64) != 3 || lines[1]["tick"].(float64) != 4 {
		t.Errorf("ticks = %v, %v", lines[0]["tick"], lines[1]["tick"])
	}

	events := lines[0]["events"].([]any)
	death := events[0].(map[string]any)
	if death["type"] != "death" || death["cause"] != "combat" {
		t.Errorf("death event = %v", death)
	}
	birth := events[1].(map[string]any)
	if birth["type"] != "birth" || birth["cause"] != nil {
		t.Errorf("birth event = %v", birth)
	}
}

func TestEventLogRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2024, 5, 1, 13, 59, 0, 0, time.UTC)

	log := NewEventLog(dir)
	log.now = func() time.Time { return clock }

	if err := log.WriteTick(TickRecord{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	first := clock
	clock = clock.Add(2 * time.Minute)
	if err := log.WriteTick(TickRecord{Tick: 2}); err != nil {
		t.Fatal(err)
	}
	if err := log.Close(); err != nil {
		t.Fatal(err)
	}

	if n := len(readLines(t, log.Path(first))); n != 1 {
		t.Errorf("first hour has %d lines, want 1", n)
	}
	if n := len(readLines(t, log.Path(clock))); n != 1 {
		t.Errorf("second hour has %d lines, want 1", n)
	}
}
