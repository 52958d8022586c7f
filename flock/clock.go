package flock

import (
	"slices"
	"sync"
	"time"
)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the swap timer.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// WallClock schedules callbacks on real time through time.AfterFunc.
// Callbacks run on their own goroutine.
type WallClock struct{}

// AfterFunc implements Clock.
func (WallClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SimClock runs on simulated time. Nothing fires until the host calls
// Advance, so a paused host also pauses every timer. Callbacks run on the
// goroutine calling Advance.
//
// Advance must not be called while the flock's lock is held, for example
// from a Locomotion callback.
type SimClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*simTimer
}

type simTimer struct {
	clock *SimClock
	at    time.Duration
	seq   uint64
	fn    func()
}

// NewSimClock returns a clock at time zero.
func NewSimClock() *SimClock {
	return &SimClock{}
}

// Now returns the simulated time elapsed since the clock was created.
func (c *SimClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *SimClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// AfterFunc implements Clock.
func (c *SimClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &simTimer{clock: c, at: c.now + max(d, 0), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by dt seconds and runs every timer that
// comes due, in deadline order. Timers scheduled by a callback fire in the
// same call if their deadline has also passed. Non-positive dt is ignored.
func (c *SimClock) Advance(dt float64) {
	c.mu.Lock()
	if dt > 0 {
		c.now += time.Duration(dt * float64(time.Second))
	}
	for {
		t := c.popDueLocked()
		if t == nil {
			break
		}
		c.mu.Unlock()
		t.fn()
		c.mu.Lock()
	}
	c.mu.Unlock()
}

func (c *SimClock) popDueLocked() *simTimer {
	best := -1
	for i, t := range c.timers {
		if t.at > c.now {
			continue
		}
		if best < 0 || t.at < c.timers[best].at ||
			(t.at == c.timers[best].at && t.seq < c.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := c.timers[best]
	c.timers = slices.Delete(c.timers, best, best+1)
	return t
}

// Stop cancels the timer. It reports false if the timer already fired or
// was stopped.
func (t *simTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.Index(c.timers, t)
	if i < 0 {
		return false
	}
	c.timers = slices.Delete(c.timers, i, i+1)
	return true
}
