package models

import "time"

// CompletionRecord marks that a tracker was completed on a specific
// calendar day. At most one record exists per (tracker, day).
type CompletionRecord struct {
	TrackerID string `json:"tracker_id"`
	Day       string `json:"day"` // YYYY-MM-DD format
}

// DayKey reduces a timestamp to its calendar day in the timestamp's
// location. All day-granularity comparisons go through this.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewCompletionRecord builds a record for the calendar day of the given
// timestamp.
func NewCompletionRecord(trackerID string, date time.Time) CompletionRecord {
	return CompletionRecord{TrackerID: trackerID, Day: DayKey(date)}
}
