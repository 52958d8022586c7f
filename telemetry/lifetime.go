package telemetry

import "github.com/google/uuid"

// AgentLifetime tracks one agent's history in the flock.
type AgentLifetime struct {
	JoinTick int64

	// Slot changes caused by swaps or by other agents leaving
	SlotChanges int
	LastSlot    int

	DistanceFlown float64
	PeakSpeed     float64
}

// AgentLifetimeJSON is the JSON form of AgentLifetime.
type AgentLifetimeJSON struct {
	JoinTick      int64   `json:"join_tick"`
	SlotChanges   int     `json:"slot_changes"`
	DistanceFlown float64 `json:"distance_flown"`
	PeakSpeed     float64 `json:"peak_speed"`
}

// ToJSON converts AgentLifetime to its JSON form.
func (al *AgentLifetime) ToJSON() *AgentLifetimeJSON {
	if al == nil {
		return nil
	}
	return &AgentLifetimeJSON{
		JoinTick:      al.JoinTick,
		SlotChanges:   al.SlotChanges,
		DistanceFlown: al.DistanceFlown,
		PeakSpeed:     al.PeakSpeed,
	}
}

// LifetimeTracker keeps per-agent lifetimes keyed by persistent agent
// identity, independent of the agent's current formation slot.
type LifetimeTracker struct {
	stats map[uuid.UUID]*AgentLifetime
}

// NewLifetimeTracker creates an empty tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{stats: make(map[uuid.UUID]*AgentLifetime)}
}

// Register starts tracking an agent that joined at slot.
func (lt *LifetimeTracker) Register(id uuid.UUID, tick int64, slot int) {
	lt.stats[id] = &AgentLifetime{JoinTick: tick, LastSlot: slot}
}

// Get returns an agent's lifetime, or nil if not tracked.
func (lt *LifetimeTracker) Get(id uuid.UUID) *AgentLifetime {
	return lt.stats[id]
}

// Remove stops tracking an agent and returns its lifetime.
func (lt *LifetimeTracker) Remove(id uuid.UUID) *AgentLifetime {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// Observe records one tick of movement for an agent now at slot.
func (lt *LifetimeTracker) Observe(id uuid.UUID, slot int, speed, dt float64) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	if slot != s.LastSlot {
		s.SlotChanges++
		s.LastSlot = slot
	}
	s.DistanceFlown += speed * dt
	if speed > s.PeakSpeed {
		s.PeakSpeed = speed
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
