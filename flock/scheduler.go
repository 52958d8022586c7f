package flock

import (
	"time"

	"github.com/pthm-cable/flock/systems"
	"github.com/pthm-cable/flock/telemetry"
)

// minSwapDelay keeps a zero delay interval from spinning the timer.
const minSwapDelay = 10 * time.Millisecond

// updateSwapTimerLocked starts or stops the swap timer to match the active
// swap policy. A running timer keeps its current deadline.
func (f *Flock) updateSwapTimerLocked() {
	switch {
	case f.closed:
		return
	case f.transition.Active.AllowSwapPositions && f.swapTimer == nil:
		f.scheduleSwapLocked()
	case !f.transition.Active.AllowSwapPositions:
		f.stopSwapTimerLocked()
	}
}

func (f *Flock) scheduleSwapLocked() {
	delay := time.Duration(systems.SwapDelay(f.transition.Active, f.rng) * float64(time.Second))
	delay = max(delay, minSwapDelay)

	gen := f.swapGen
	f.swapTimer = f.clock.AfterFunc(delay, func() { f.fireSwap(gen) })
}

func (f *Flock) stopSwapTimerLocked() {
	if f.swapTimer == nil {
		return
	}
	f.swapTimer.Stop()
	f.swapTimer = nil
	// A callback already past Stop sees a newer generation and exits.
	f.swapGen++
}

// fireSwap runs on the clock's callback goroutine.
func (f *Flock) fireSwap(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || gen != f.swapGen || !f.transition.Active.AllowSwapPositions {
		return
	}
	f.swapLocked()
	f.scheduleSwapLocked()
}

// SwapNow runs one swap batch immediately, regardless of the swap policy
// flag, and returns the number of exchanges made.
func (f *Flock) SwapNow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.swapLocked()
}

func (f *Flock) swapLocked() int {
	pairs := systems.PlanSwaps(len(f.agents), f.transition.Active, f.rng)
	for _, p := range pairs {
		f.agents[p.A], f.agents[p.B] = f.agents[p.B], f.agents[p.A]
	}

	if len(pairs) > 0 {
		f.logger.Debug("flock swap batch", "agents", len(f.agents), "swaps", len(pairs))
	}
	f.record(telemetry.NewSwapEvent(f.ticks, len(pairs)))
	return len(pairs)
}
