package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/flock/config"
)

func swapSettings(dMin, dMax, cMin, cMax int) config.FlockSettings {
	s := config.DefaultSettings()
	s.AllowSwapPositions = true
	s.SwapDistance = config.IntInterval{Min: dMin, Max: dMax}
	s.SwapCount = config.IntInterval{Min: cMin, Max: cMax}
	return s
}

func TestPlanSwaps_Small(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := swapSettings(1, 3, 1, 1)

	if got := PlanSwaps(0, s, rng); len(got) != 0 {
		t.Errorf("n=0: %v, want none", got)
	}
	if got := PlanSwaps(1, s, rng); len(got) != 0 {
		t.Errorf("n=1: %v, want none", got)
	}

	got := PlanSwaps(2, s, rng)
	if len(got) != 1 || got[0] != (SwapPair{A: 0, B: 1}) {
		t.Errorf("n=2: %v, want [{0 1}]", got)
	}
}

func TestPlanSwaps_Constraints(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		dMin, dMax int
		cMin, cMax int
	}{
		{"adjacent", 10, 1, 3, 1, 1},
		{"min distance 2", 12, 2, 4, 1, 3},
		{"wide", 30, 1, 10, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			s := swapSettings(tt.dMin, tt.dMax, tt.cMin, tt.cMax)

			for range 500 {
				pairs := PlanSwaps(tt.n, s, rng)
				if len(pairs) > tt.cMax {
					t.Fatalf("%d swaps, want at most %d", len(pairs), tt.cMax)
				}
				for _, p := range pairs {
					if p.A < 0 || p.A >= tt.n || p.B < 0 || p.B >= tt.n {
						t.Fatalf("pair %v out of range", p)
					}
					d := p.B - p.A
					if d < 0 {
						d = -d
					}
					if d == 0 || d < tt.dMin {
						t.Fatalf("pair %v closer than %d", p, tt.dMin)
					}
					// Candidate window is [pivot-dMax, pivot+dMax).
					if p.B-p.A >= tt.dMax || p.A-p.B > tt.dMax {
						t.Fatalf("pair %v outside window %d", p, tt.dMax)
					}
				}
			}
		})
	}
}

func TestPlanSwaps_SkipsWithoutCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// Window [p-1, p+1) holds at most one candidate, so nothing is swapped.
	s := swapSettings(1, 1, 1, 4)
	for range 100 {
		if got := PlanSwaps(8, s, rng); len(got) != 0 {
			t.Fatalf("expected no swaps, got %v", got)
		}
	}
}

func TestPlanSwaps_Deterministic(t *testing.T) {
	s := swapSettings(1, 3, 1, 3)
	a := PlanSwaps(20, s, rand.New(rand.NewSource(99)))
	b := PlanSwaps(20, s, rand.New(rand.NewSource(99)))

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("plans differ at %d: %v vs %v", i, a, b)
		}
	}
}

func TestSwapDelay(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := config.DefaultSettings()
	s.SwapDelay = config.FloatInterval{Min: 2, Max: 5}

	for range 200 {
		d := SwapDelay(s, rng)
		if d < 2 || d > 5 {
			t.Fatalf("SwapDelay = %v, want within [2, 5]", d)
		}
	}

	s.SwapDelay = config.FloatInterval{Min: 3, Max: 3}
	if d := SwapDelay(s, rng); d != 3 {
		t.Errorf("fixed SwapDelay = %v, want 3", d)
	}
}
