package systems

import (
	"math/rand"

	"github.com/pthm-cable/flock/config"
)

// SwapPair is one formation slot exchange.
type SwapPair struct {
	A, B int
}

// PlanSwaps returns the slot exchanges for one swap batch over n boids, in
// the order they must be applied.
//
// Two boids always trade places. With more, each of the batch's iterations
// picks a pivot and trades it with a random slot whose distance to the pivot
// lies in the configured range. Iterations with fewer than two candidates
// are skipped.
func PlanSwaps(n int, s config.FlockSettings, rng *rand.Rand) []SwapPair {
	switch {
	case n < 2:
		return nil
	case n == 2:
		return []SwapPair{{A: 0, B: 1}}
	}

	count := randIntInclusive(rng, s.SwapCount.Min, s.SwapCount.Max)
	pairs := make([]SwapPair, 0, count)
	candidates := make([]int, 0, 2*max(s.SwapDistance.Max, 0))

	for range count {
		pivot := rng.Intn(n)

		candidates = candidates[:0]
		lo := max(pivot-s.SwapDistance.Max, 0)
		hi := min(pivot+s.SwapDistance.Max, n)
		for i := lo; i < hi; i++ {
			if i == pivot || abs(i-pivot) < s.SwapDistance.Min {
				continue
			}
			candidates = append(candidates, i)
		}

		if len(candidates) < 2 {
			continue
		}
		pairs = append(pairs, SwapPair{A: pivot, B: candidates[rng.Intn(len(candidates))]})
	}

	return pairs
}

// SwapDelay draws the seconds until the next swap batch.
func SwapDelay(s config.FlockSettings, rng *rand.Rand) float64 {
	lo, hi := s.SwapDelay.Min, s.SwapDelay.Max
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// randIntInclusive draws uniformly from [lo, hi]; returns lo when hi < lo.
func randIntInclusive(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return max(lo, 0)
	}
	return lo + rng.Intn(hi-lo+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
