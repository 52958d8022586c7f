package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/config"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the flock state at one tick, for inspection and for
// restarting a run from the same formation.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`
	Tick    int64 `json:"tick"`

	Leader LeaderSnapshot `json:"leader"`

	Settings        config.SettingsData `json:"settings"`
	TransitionRatio float64             `json:"transition_ratio"`

	// Ordered by formation slot
	Agents []AgentSnapshot `json:"agents"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// LeaderSnapshot is the flock owner's state.
type LeaderSnapshot struct {
	Position r3.Vec `json:"position"`
	Velocity r3.Vec `json:"velocity"`
	Forward  r3.Vec `json:"forward"`
}

// AgentSnapshot is one boid's state.
type AgentSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Slot     int       `json:"slot"`
	Position r3.Vec    `json:"position"`
	Velocity r3.Vec    `json:"velocity"`
	MaxSpeed float64   `json:"max_speed"`
	CanFly   bool      `json:"can_fly"`

	Lifetime *AgentLifetimeJSON `json:"lifetime,omitempty"`
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk and rebuilds its queue curve.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	snapshot.Settings.Settings.QueueCurve = nil
	if curve := config.NewStepCurve(snapshot.Settings.QueueCurve); curve != nil {
		snapshot.Settings.Settings.QueueCurve = curve
	}

	return &snapshot, nil
}
