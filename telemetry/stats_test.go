package telemetry

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{4, 2, 8, 6})

	if d.Mean != 5 {
		t.Errorf("Mean = %v, want 5", d.Mean)
	}
	// Population variance of {2,4,6,8} is 5.
	if math.Abs(d.Std-math.Sqrt(5)) > 1e-12 {
		t.Errorf("Std = %v, want sqrt(5)", d.Std)
	}
	if d.Min != 2 {
		t.Errorf("Min = %v, want 2", d.Min)
	}
	if d.P50 != 5 {
		t.Errorf("P50 = %v, want 5", d.P50)
	}

	if Summarize(nil) != (Distribution{}) {
		t.Error("Summarize(nil) should be zero")
	}
}

func TestAngleDeg(t *testing.T) {
	tests := []struct {
		a, b r3.Vec
		want float64
	}{
		{r3.Vec{X: 1}, r3.Vec{X: 5}, 0},
		{r3.Vec{X: 1}, r3.Vec{Y: 2}, 90},
		{r3.Vec{X: 1}, r3.Vec{X: -1}, 180},
		{r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, 45},
		{r3.Vec{}, r3.Vec{X: 1}, 0},
	}
	for _, tt := range tests {
		if got := AngleDeg(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AngleDeg(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSampleFlock(t *testing.T) {
	positions := []r3.Vec{{}, {X: 100}, {X: 400}}
	velocities := []r3.Vec{{X: 10}, {Y: 10}, {}}
	targets := []r3.Vec{{X: 30, Y: 40}, {X: 100}, {X: 400}}

	s := SampleFlock(positions, velocities, targets, r3.Vec{X: 1})

	if s.Agents != 3 {
		t.Errorf("Agents = %d, want 3", s.Agents)
	}
	// A motionless boid has no heading.
	if len(s.HeadingErrors) != 2 || s.HeadingErrors[0] != 0 || math.Abs(s.HeadingErrors[1]-90) > 1e-9 {
		t.Errorf("HeadingErrors = %v, want [0 90]", s.HeadingErrors)
	}
	wantSpacing := []float64{100, 100, 300}
	for i, w := range wantSpacing {
		if math.Abs(s.Spacings[i]-w) > 1e-9 {
			t.Errorf("Spacings[%d] = %v, want %v", i, s.Spacings[i], w)
		}
	}
	if s.SlotErrors[0] != 50 || s.SlotErrors[1] != 0 {
		t.Errorf("SlotErrors = %v", s.SlotErrors)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(NewSwapEvent(3, 2))
		}()
	}
	wg.Wait()
	c.Record(NewSettingsEvent(1, "cruise"))
	c.Record(NewRegisterEvent(0, 0))
	c.Record(NewFlightWarningEvent(0, 0))

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) should be false")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) should be true")
	}

	stats := c.Flush(10, FlockSample{Agents: 5, Speeds: []float64{1, 3}, SettingsName: "cruise"})
	if stats.SwapBatches != 4 || stats.Swaps != 8 {
		t.Errorf("swaps = %d/%d, want 4/8", stats.SwapBatches, stats.Swaps)
	}
	if stats.SettingsApplied != 1 || stats.Registered != 1 || stats.FlightWarnings != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.SpeedMean != 2 || stats.Agents != 5 {
		t.Errorf("sample fields = %+v", stats)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-12 {
		t.Errorf("SimTimeSec = %v, want 1", stats.SimTimeSec)
	}

	next := c.Flush(20, FlockSample{})
	if next.WindowStartTick != 10 || next.Swaps != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventSwapBatch.String(); got != "swap_batch" {
		t.Errorf("String = %q", got)
	}
	if got := EventType(200).String(); got != "unknown" {
		t.Errorf("String = %q", got)
	}
}
