// Package engine derives the visible set of trackers for a date, filter
// mode, and search query. It only reads its inputs; all mutation happens
// in the ledger and storage layers.
package engine

import (
	"strings"
	"time"

	"github.com/habita/habita/internal/models"
)

// CompletionFunc answers whether a tracker is completed on the calendar
// day of the given date. The ledger provides it.
type CompletionFunc func(trackerID string, date time.Time) bool

type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithNow creates an engine with an injected clock.
func NewWithNow(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// ScheduleMatch reports whether the tracker is a schedule candidate for
// the given date. A tracker with an empty schedule is a one-off event and
// matches every date; otherwise the date's weekday must be in the set.
func ScheduleMatch(t models.Tracker, date time.Time) bool {
	if t.IsOneOff() {
		return true
	}
	return t.Schedule.Contains(models.WeekdayOf(date))
}

// VisibleCategories computes the ordered (category, trackers) list to
// display. Categories with no passing trackers are omitted. The input is
// never mutated and the result is deterministic for identical inputs.
func (e *Engine) VisibleCategories(
	categories []models.Category,
	referenceDate time.Time,
	mode models.FilterMode,
	searchText string,
	isCompleted CompletionFunc,
) []models.Category {
	// Today mode always evaluates against the current real-world day,
	// ignoring the picked date.
	evalDate := referenceDate
	if mode == models.FilterToday {
		evalDate = e.now()
	}

	// The query is matched literally, whitespace included.
	query := strings.ToLower(searchText)

	var out []models.Category
	for _, cat := range categories {
		var visible []models.Tracker
		for _, tracker := range cat.Trackers {
			if !ScheduleMatch(tracker, evalDate) {
				continue
			}
			switch mode {
			case models.FilterCompleted:
				if !isCompleted(tracker.ID, evalDate) {
					continue
				}
			case models.FilterUncompleted:
				if isCompleted(tracker.ID, evalDate) {
					continue
				}
			}
			if query != "" && !strings.Contains(strings.ToLower(tracker.Name), query) {
				continue
			}
			visible = append(visible, tracker)
		}
		if len(visible) > 0 {
			out = append(out, models.Category{
				ID:        cat.ID,
				Title:     cat.Title,
				Trackers:  visible,
				CreatedAt: cat.CreatedAt,
			})
		}
	}

	return out
}
