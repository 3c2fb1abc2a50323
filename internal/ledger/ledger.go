// Package ledger tracks which (tracker, calendar day) pairs are
// completed. The in-memory state is authoritative for the UI; persistence
// runs as a side effect whose failure is logged, never rolled back.
package ledger

import (
	"sync"
	"time"

	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/logger"
	"github.com/habita/habita/internal/models"
)

// RecordRepository is the persistence collaborator for completion records.
type RecordRepository interface {
	AddRecord(models.CompletionRecord) error
	DeleteRecord(trackerID, day string) error
	GetAllRecords() ([]models.CompletionRecord, error)
}

// Ledger holds the completion-record set. A single coarse lock guards the
// maps; every operation is O(1) or O(records) and fast enough to run on
// the UI goroutine.
type Ledger struct {
	mu   sync.Mutex
	days map[string]map[string]struct{} // trackerID -> set of YYYY-MM-DD days
	repo RecordRepository
	bus  *events.Bus
}

// New builds a ledger over the given repository and loads all persisted
// records. A failed load degrades to an empty ledger rather than failing;
// malformed records are skipped.
func New(repo RecordRepository, bus *events.Bus) *Ledger {
	l := &Ledger{
		days: make(map[string]map[string]struct{}),
		repo: repo,
		bus:  bus,
	}

	records, err := repo.GetAllRecords()
	if err != nil {
		logger.Error("failed to load completion records", "error", err)
		return l
	}
	for _, r := range records {
		if r.TrackerID == "" || r.Day == "" {
			logger.Warn("skipping malformed completion record", "tracker", r.TrackerID, "day", r.Day)
			continue
		}
		if _, err := time.Parse("2006-01-02", r.Day); err != nil {
			logger.Warn("skipping completion record with invalid day", "tracker", r.TrackerID, "day", r.Day)
			continue
		}
		l.add(r.TrackerID, r.Day)
	}

	return l
}

func (l *Ledger) add(trackerID, day string) {
	set, ok := l.days[trackerID]
	if !ok {
		set = make(map[string]struct{})
		l.days[trackerID] = set
	}
	set[day] = struct{}{}
}

// Toggle flips the completion state for the tracker's calendar day and
// returns the new state. It is the sole mutation entry point. The
// in-memory flip always succeeds; the persistence write is attempted
// immediately and its failure only logged.
func (l *Ledger) Toggle(trackerID string, date time.Time) bool {
	day := models.DayKey(date)

	l.mu.Lock()
	set := l.days[trackerID]
	_, completed := set[day]
	if completed {
		delete(set, day)
	} else {
		l.add(trackerID, day)
	}
	l.mu.Unlock()

	if completed {
		if err := l.repo.DeleteRecord(trackerID, day); err != nil {
			logger.Error("failed to persist record removal", "tracker", trackerID, "day", day, "error", err)
		}
	} else {
		if err := l.repo.AddRecord(models.CompletionRecord{TrackerID: trackerID, Day: day}); err != nil {
			logger.Error("failed to persist completion record", "tracker", trackerID, "day", day, "error", err)
		}
	}

	if l.bus != nil {
		l.bus.Publish(events.Event{Kind: events.RecordsChanged})
	}

	return !completed
}

// IsCompleted reports whether a record exists for the tracker on the
// calendar day of the given date.
func (l *Ledger) IsCompleted(trackerID string, date time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.days[trackerID][models.DayKey(date)]
	return ok
}

// CompletionCount returns the number of completed days for the tracker
// across all dates.
func (l *Ledger) CompletionCount(trackerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.days[trackerID])
}

// CompletedDays returns the tracker's completed days (YYYY-MM-DD),
// unordered.
func (l *Ledger) CompletedDays(trackerID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.days[trackerID]))
	for day := range l.days[trackerID] {
		out = append(out, day)
	}
	return out
}

// AllRecords returns a snapshot of every completion record.
func (l *Ledger) AllRecords() []models.CompletionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.CompletionRecord
	for trackerID, set := range l.days {
		for day := range set {
			out = append(out, models.CompletionRecord{TrackerID: trackerID, Day: day})
		}
	}
	return out
}

// Forget drops a tracker's in-memory records after the tracker has been
// deleted; the store cascades the persisted rows.
func (l *Ledger) Forget(trackerID string) {
	l.mu.Lock()
	delete(l.days, trackerID)
	l.mu.Unlock()

	if l.bus != nil {
		l.bus.Publish(events.Event{Kind: events.RecordsChanged})
	}
}
