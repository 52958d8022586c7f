// Package telemetry provides flock health tracking, bookmarking, snapshots
// and metrics.
package telemetry

import "sync"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSettingsApplied EventType = iota
	EventTransitionDone
	EventSwapBatch
	EventAgentRegistered
	EventAgentUnregistered
	EventFlightWarning
)

var eventNames = [...]string{
	EventSettingsApplied:   "settings_applied",
	EventTransitionDone:    "transition_done",
	EventSwapBatch:         "swap_batch",
	EventAgentRegistered:   "agent_registered",
	EventAgentUnregistered: "agent_unregistered",
	EventFlightWarning:     "flight_warning",
}

// String returns the snake_case event name.
func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event is a single flock occurrence.
type Event struct {
	Type EventType
	Tick int64 // flock ticks processed when the event happened

	Slot  int    // agent slot for registration events, -1 otherwise
	Count int    // swaps performed for swap batches
	Name  string // settings name for settings events
}

// Recorder receives flock events. Implementations must be safe for
// concurrent use: swap batches are reported from the timer goroutine.
type Recorder interface {
	Record(Event)
}

// NewSettingsEvent reports that a settings asset was applied.
func NewSettingsEvent(tick int64, name string) Event {
	return Event{Type: EventSettingsApplied, Tick: tick, Slot: -1, Name: name}
}

// NewTransitionDoneEvent reports that the active settings reached their target.
func NewTransitionDoneEvent(tick int64, name string) Event {
	return Event{Type: EventTransitionDone, Tick: tick, Slot: -1, Name: name}
}

// NewSwapEvent reports a swap batch that exchanged count slot pairs.
func NewSwapEvent(tick int64, count int) Event {
	return Event{Type: EventSwapBatch, Tick: tick, Slot: -1, Count: count}
}

// NewRegisterEvent reports an agent joining at slot.
func NewRegisterEvent(tick int64, slot int) Event {
	return Event{Type: EventAgentRegistered, Tick: tick, Slot: slot}
}

// NewUnregisterEvent reports an agent leaving from slot.
func NewUnregisterEvent(tick int64, slot int) Event {
	return Event{Type: EventAgentUnregistered, Tick: tick, Slot: slot}
}

// NewFlightWarningEvent reports an agent registered without free flight.
func NewFlightWarningEvent(tick int64, slot int) Event {
	return Event{Type: EventFlightWarning, Tick: tick, Slot: slot}
}

// EventLog buffers events until they are drained for output.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// Record implements Recorder.
func (l *EventLog) Record(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

// Drain returns the buffered events and empties the log.
func (l *EventLog) Drain() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}
