package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/ecosim/ecology"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCollapse BookmarkType = "collapse"
	BookmarkFamine   BookmarkType = "famine"
	BookmarkRecovery BookmarkType = "recovery"
	BookmarkBoom     BookmarkType = "boom"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using logger.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting generations in a run.
type BookmarkDetector struct {
	// Rolling history of total population (circular buffer)
	history     []int64
	historySize int
	historyIdx  int
	historyFull bool

	boomMultiplier float64

	lastFood ecology.FoodAvailability
	seen     bool
}

// NewBookmarkDetector creates a detector with the given history size. A boom
// fires when the population reaches boomMultiplier times the rolling mean.
func NewBookmarkDetector(historySize int, boomMultiplier float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling mean
	}
	if boomMultiplier <= 1 {
		boomMultiplier = 2
	}
	return &BookmarkDetector{
		history:        make([]int64, historySize),
		historySize:    historySize,
		boomMultiplier: boomMultiplier,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
// Skipped generations are ignored.
func (bd *BookmarkDetector) Check(r ecology.GenerationReport) []Bookmark {
	if r.Skipped {
		return nil
	}

	var bookmarks []Bookmark

	if bd.seen {
		if b := bd.checkFoodShift(r); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkBoom(r); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if r.Collapsed() {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkCollapse,
			Generation:  r.Generation,
			Description: fmt.Sprintf("Resources exhausted with %d individuals alive", r.PopulationAfter),
		})
	}

	bd.addToHistory(r.PopulationAfter)
	bd.lastFood = r.Food
	bd.seen = true

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(population int64) {
	bd.history[bd.historyIdx] = population
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []int64 {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFoodShift(r ecology.GenerationReport) *Bookmark {
	if r.Food == bd.lastFood {
		return nil
	}
	if r.Food == ecology.FoodScarce {
		return &Bookmark{
			Type:        BookmarkFamine,
			Generation:  r.Generation,
			Description: fmt.Sprintf("Food became scarce: %d individuals on %d resources", r.PopulationBefore, r.Resources),
		}
	}
	return &Bookmark{
		Type:        BookmarkRecovery,
		Generation:  r.Generation,
		Description: fmt.Sprintf("Food plentiful again for %d individuals", r.PopulationBefore),
	}
}

func (bd *BookmarkDetector) checkBoom(r ecology.GenerationReport) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += float64(h)
	}
	avg := sum / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(r.PopulationAfter)
	if current >= avg*bd.boomMultiplier {
		return &Bookmark{
			Type:        BookmarkBoom,
			Generation:  r.Generation,
			Description: fmt.Sprintf("Population %d is %.1fx rolling average (%.0f)", r.PopulationAfter, current/avg, avg),
		}
	}
	return nil
}
