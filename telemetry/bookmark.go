package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFormationSettled BookmarkType = "formation_settled"
	BookmarkFormationBroken  BookmarkType = "formation_broken"
	BookmarkCrowding         BookmarkType = "crowding"
	BookmarkSwapBurst        BookmarkType = "swap_burst"
	BookmarkStableFormation  BookmarkType = "stable_formation"
)

// Heading error thresholds, in degrees of the 90th percentile.
const (
	settledHeadingP90 = 15.0
	brokenHeadingP90  = 45.0
)

// Bookmark is an automatically detected moment worth inspecting.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches successive windows for formation changes.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	settled            bool
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Agents > 1 {
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrowding(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSwapBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStable(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkSettled toggles between settled and broken with hysteresis.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	switch {
	case !bd.settled && stats.HeadingErrP90 < settledHeadingP90:
		bd.settled = true
		return &Bookmark{
			Type:        BookmarkFormationSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Heading error p90 %.1f° below %.0f°", stats.HeadingErrP90, settledHeadingP90),
		}
	case bd.settled && stats.HeadingErrP90 > brokenHeadingP90:
		bd.settled = false
		return &Bookmark{
			Type:        BookmarkFormationBroken,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Heading error p90 rose to %.1f°", stats.HeadingErrP90),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrowding(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.SpacingMin
	}
	avg := sum / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SpacingMin < avg*0.5 {
		return &Bookmark{
			Type:        BookmarkCrowding,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Closest pair %.0f apart, average %.0f", stats.SpacingMin, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSwapBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Swaps < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Swaps
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.Swaps) > avg*2 {
		return &Bookmark{
			Type:        BookmarkSwapBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d swaps, average %.1f", stats.Swaps, avg),
		}
	}
	return nil
}

// checkStable fires once after five consecutive windows where the mean slot
// error moved less than 10%.
func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) == 0 {
		return nil
	}
	last := bd.history[(bd.historyIdx-1+bd.historySize)%bd.historySize]

	if last.SlotErrMean > 0 && abs(stats.SlotErrMean-last.SlotErrMean) < 0.1*last.SlotErrMean {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkStableFormation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Slot error steady around %.0f over 5+ windows", stats.SlotErrMean),
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
