package telemetry

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/config"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	settings := config.DefaultSettingsData()
	settings.Name = "column"
	settings.QueueCurve = []config.CurveKey{{Slot: 0, Multiplier: 1}, {Slot: 3, Multiplier: 2}}
	settings.Settings.AllowSwapPositions = true

	id := uuid.New()
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: 42,
		Tick:    1000,
		Leader: LeaderSnapshot{
			Position: r3.Vec{X: 100, Y: 200, Z: 600},
			Velocity: r3.Vec{X: 450},
			Forward:  r3.Vec{X: 1},
		},
		Settings:        *settings,
		TransitionRatio: 0.5,
		Agents: []AgentSnapshot{
			{
				ID:       id,
				Slot:     0,
				Position: r3.Vec{X: -400, Y: 200, Z: 600},
				Velocity: r3.Vec{X: 500},
				MaxSpeed: 600,
				CanFly:   true,
				Lifetime: &AgentLifetimeJSON{JoinTick: 10, SlotChanges: 2, DistanceFlown: 1234},
			},
		},
		Bookmark: &Bookmark{Type: BookmarkFormationSettled, Tick: 1000, Description: "test"},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_1000_formation_settled.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.RNGSeed != 42 || loaded.Tick != 1000 {
		t.Errorf("header = %d/%d", loaded.RNGSeed, loaded.Tick)
	}
	if loaded.Leader.Position != snapshot.Leader.Position {
		t.Errorf("leader position = %v", loaded.Leader.Position)
	}
	if len(loaded.Agents) != 1 || loaded.Agents[0].ID != id {
		t.Fatalf("agents = %+v", loaded.Agents)
	}
	if loaded.Agents[0].Lifetime == nil || loaded.Agents[0].Lifetime.SlotChanges != 2 {
		t.Errorf("lifetime = %+v", loaded.Agents[0].Lifetime)
	}
	if !loaded.Settings.Settings.AllowSwapPositions {
		t.Error("settings policy lost")
	}
	if got := loaded.Settings.Settings.Curve().Sample(4); got != 2 {
		t.Errorf("queue curve Sample(4) = %v, want 2", got)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int64(i * 10), Agents: 5, SettingsName: "cruise"}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteEvents([]Event{NewSwapEvent(4, 2), NewSettingsEvent(5, "cruise")}); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := om.WriteSettings(config.DefaultSettingsData()); err != nil {
		t.Fatalf("WriteSettings: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("telemetry.csv has %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "window_end" {
		t.Errorf("first column = %q, want window_end", rows[0][0])
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(events), "swap_batch") {
		t.Errorf("events.csv missing swap_batch:\n%s", events)
	}

	if _, err := config.LoadSettings(filepath.Join(dir, "settings.yaml")); err != nil {
		t.Errorf("written settings do not load: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// Nil manager methods are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	id := uuid.New()
	lt.Register(id, 5, 2)

	lt.Observe(id, 2, 100, 0.5)
	lt.Observe(id, 3, 300, 0.5)
	lt.Observe(uuid.New(), 0, 1, 1) // unknown agent is ignored

	s := lt.Get(id)
	if s.SlotChanges != 1 || s.LastSlot != 3 {
		t.Errorf("slots = %+v", s)
	}
	if s.DistanceFlown != 200 || s.PeakSpeed != 300 {
		t.Errorf("motion = %+v", s)
	}
	if lt.Remove(id) == nil || lt.Count() != 0 {
		t.Error("Remove did not drop the agent")
	}
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	log := &EventLog{}
	rec := MultiRecorder{m, log, nil}
	rec.Record(NewSwapEvent(1, 3))
	rec.Record(NewSwapEvent(2, 1))
	rec.Record(NewSettingsEvent(3, "x"))
	m.ObserveTick(time.Millisecond, 7, 0.25)

	if got := testutil.ToFloat64(m.Swaps); got != 4 {
		t.Errorf("swaps_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.SwapBatches); got != 2 {
		t.Errorf("swap_batches_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Agents); got != 7 {
		t.Errorf("agents = %v, want 7", got)
	}
	if got := len(log.Drain()); got != 3 {
		t.Errorf("event log has %d events, want 3", got)
	}
	if got := len(log.Drain()); got != 0 {
		t.Errorf("drained log has %d events", got)
	}

	var nilMetrics *Metrics
	nilMetrics.Record(NewSwapEvent(0, 1))
	nilMetrics.ObserveTick(time.Second, 1, 1)
}
