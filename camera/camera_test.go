package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720)

	if cam.Target != (r3.Vec{}) {
		t.Errorf("expected target at origin, got %v", cam.Target)
	}
	if got := r3.Norm(cam.Eye()); math.Abs(got-cam.Distance) > 1e-9 {
		t.Errorf("expected eye %f from target, got %f", cam.Distance, got)
	}
	if cam.Eye().Z <= 0 {
		t.Errorf("expected eye above the ground, got %v", cam.Eye())
	}
}

func TestTargetProjectsToCenter(t *testing.T) {
	cam := New(1280, 720)
	cam.Target = r3.Vec{X: 500, Y: -200, Z: 300}

	sx, sy, ok := cam.WorldToScreen(cam.Target)
	if !ok {
		t.Fatal("target not projected")
	}
	if math.Abs(sx-640) > 0.01 || math.Abs(sy-360) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestProjectionOrientation(t *testing.T) {
	cam := New(1280, 720)
	_, right, up := cam.Basis()

	tests := []struct {
		name   string
		offset r3.Vec
		check  func(sx, sy float64) bool
	}{
		{"right", right, func(sx, _ float64) bool { return sx > 640 }},
		{"left", r3.Scale(-1, right), func(sx, _ float64) bool { return sx < 640 }},
		{"up", up, func(_, sy float64) bool { return sy < 360 }},
		{"down", r3.Scale(-1, up), func(_, sy float64) bool { return sy > 360 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy, ok := cam.WorldToScreen(r3.Scale(100, tt.offset))
			if !ok || !tt.check(sx, sy) {
				t.Errorf("offset %v projected to (%f, %f, %v)", tt.offset, sx, sy, ok)
			}
		})
	}
}

func TestBehindCameraNotProjected(t *testing.T) {
	cam := New(1280, 720)
	forward, _, _ := cam.Basis()
	behind := r3.Sub(cam.Eye(), r3.Scale(100, forward))

	if _, _, ok := cam.WorldToScreen(behind); ok {
		t.Error("point behind the camera was projected")
	}
	if cam.IsVisible(behind, 10) {
		t.Error("point behind the camera reported visible")
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720)
	_, right, _ := cam.Basis()

	if !cam.IsVisible(r3.Vec{}, 10) {
		t.Error("target not visible")
	}
	far := r3.Scale(1e6, right)
	if cam.IsVisible(far, 10) {
		t.Error("far off-axis point reported visible")
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	cam := New(1280, 720)
	cam.Orbit(0, 10)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", cam.MaxPitch, cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("expected pitch clamped to %f, got %f", cam.MinPitch, cam.Pitch)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720)

	cam.ZoomBy(1e6)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}
	cam.ZoomBy(1e-6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}
	before := cam.Distance
	cam.ZoomBy(0)
	if cam.Distance != before {
		t.Error("zero zoom factor changed distance")
	}
}

func TestFollow(t *testing.T) {
	cam := New(1280, 720)
	goal := r3.Vec{X: 1000}

	cam.Follow(goal, 0.1)
	if cam.Target.X <= 0 || cam.Target.X >= 1000 {
		t.Errorf("expected partial follow, got %v", cam.Target)
	}
	for range 200 {
		cam.Follow(goal, 0.1)
	}
	if math.Abs(cam.Target.X-1000) > 1e-3 {
		t.Errorf("expected target to converge, got %v", cam.Target)
	}

	cam.FollowRate = 0
	cam.Follow(r3.Vec{Y: 5}, 0.1)
	if cam.Target != (r3.Vec{Y: 5}) {
		t.Errorf("expected snap with zero rate, got %v", cam.Target)
	}
}

func TestResetKeepsTarget(t *testing.T) {
	cam := New(1280, 720)
	cam.Target = r3.Vec{X: 7}
	cam.Orbit(1, 0.2)
	cam.SetDistance(900)
	cam.Reset()

	if cam.Target != (r3.Vec{X: 7}) || cam.Distance != 6000 {
		t.Errorf("after reset target=%v distance=%f", cam.Target, cam.Distance)
	}
}
