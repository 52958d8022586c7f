package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_SettledThenBroken(t *testing.T) {
	bd := NewBookmarkDetector(10)

	if bms := bd.Check(WindowStats{Agents: 5, HeadingErrP90: 80}); len(bms) != 0 {
		t.Errorf("unexpected bookmarks %v", bms)
	}
	if !hasBookmark(bd.Check(WindowStats{Agents: 5, HeadingErrP90: 10}), BookmarkFormationSettled) {
		t.Error("expected formation_settled")
	}
	// Still settled: no repeat.
	if hasBookmark(bd.Check(WindowStats{Agents: 5, HeadingErrP90: 5}), BookmarkFormationSettled) {
		t.Error("formation_settled should fire once")
	}
	// Inside the hysteresis band.
	if hasBookmark(bd.Check(WindowStats{Agents: 5, HeadingErrP90: 30}), BookmarkFormationBroken) {
		t.Error("30° should not break the formation")
	}
	if !hasBookmark(bd.Check(WindowStats{Agents: 5, HeadingErrP90: 70}), BookmarkFormationBroken) {
		t.Error("expected formation_broken")
	}
}

func TestBookmarkDetector_Crowding(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 300), Agents: 8, SpacingMin: 200, HeadingErrP90: 90})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 1500, Agents: 8, SpacingMin: 40, HeadingErrP90: 90})
	if !hasBookmark(bms, BookmarkCrowding) {
		t.Error("expected crowding bookmark")
	}
}

func TestBookmarkDetector_SwapBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{Agents: 8, Swaps: 1, HeadingErrP90: 90})
	}

	if !hasBookmark(bd.Check(WindowStats{Agents: 8, Swaps: 6, HeadingErrP90: 90}), BookmarkSwapBurst) {
		t.Error("expected swap_burst bookmark")
	}
}

func TestBookmarkDetector_StableFormation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	count := 0
	for i := 0; i < 12; i++ {
		bms := bd.Check(WindowStats{Agents: 8, SlotErrMean: 100 + float64(i%2), HeadingErrP90: 90})
		if hasBookmark(bms, BookmarkStableFormation) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("stable_formation fired %d times, want 1", count)
	}
}

func TestBookmarkDetector_IgnoresLoneBoid(t *testing.T) {
	bd := NewBookmarkDetector(5)
	if bms := bd.Check(WindowStats{Agents: 1, HeadingErrP90: 0}); len(bms) != 0 {
		t.Errorf("unexpected bookmarks for a single boid: %v", bms)
	}
}
