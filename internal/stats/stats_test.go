package stats

import (
	"math"
	"testing"

	"github.com/habita/habita/internal/models"
)

// 2024-01-01 is a Monday, 2024-01-02 a Tuesday, and so on.
func fixtures() []models.Category {
	return []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			{ID: "t1", Name: "Drink water", Emoji: "🙂", Color: 1,
				Schedule: models.Schedule{models.Monday, models.Tuesday, models.Wednesday}},
			{ID: "t2", Name: "Run", Emoji: "🙌", Color: 2,
				Schedule: models.Schedule{models.Monday}},
			{ID: "t3", Name: "Dentist", Emoji: "😪", Color: 3}, // one-off
		}},
	}
}

func rec(id, day string) models.CompletionRecord {
	return models.CompletionRecord{TrackerID: id, Day: day}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(fixtures(), nil)
	if s.Completed != 0 || s.PerfectDays != 0 || s.BestPeriod != 0 || s.Average != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestCompute_PerfectDays(t *testing.T) {
	records := []models.CompletionRecord{
		// Monday 2024-01-01: both scheduled trackers done -> perfect.
		rec("t1", "2024-01-01"), rec("t2", "2024-01-01"),
		// Tuesday 2024-01-02: only t1 scheduled, done -> perfect.
		rec("t1", "2024-01-02"),
		// Wednesday 2024-01-03: t1 scheduled but a different tracker done -> not perfect.
		rec("t2", "2024-01-03"),
		// Monday 2024-01-08: one of two scheduled done -> not perfect.
		rec("t1", "2024-01-08"),
	}

	s := Compute(fixtures(), records)
	if s.Completed != 5 {
		t.Errorf("Completed = %d, want 5", s.Completed)
	}
	if s.PerfectDays != 2 {
		t.Errorf("PerfectDays = %d, want 2", s.PerfectDays)
	}
	if s.BestPeriod != 2 {
		t.Errorf("BestPeriod = %d, want 2 (Jan 1-2 run)", s.BestPeriod)
	}
	if math.Abs(s.Average-5.0/4.0) > 1e-9 {
		t.Errorf("Average = %f, want 1.25", s.Average)
	}
}

func TestCompute_OneOffDoesNotSpoilDays(t *testing.T) {
	// t3 has no schedule; completing only the recurring trackers still
	// yields a perfect day.
	records := []models.CompletionRecord{
		rec("t1", "2024-01-02"), // Tuesday, only t1 recurring
	}
	s := Compute(fixtures(), records)
	if s.PerfectDays != 1 {
		t.Errorf("PerfectDays = %d, want 1", s.PerfectDays)
	}
}

func TestCompute_BestPeriodBreaks(t *testing.T) {
	records := []models.CompletionRecord{
		rec("t1", "2024-01-01"), rec("t2", "2024-01-01"), // Mon, perfect
		rec("t1", "2024-01-02"), // Tue, perfect
		// Jan 3 skipped
		rec("t1", "2024-01-08"), rec("t2", "2024-01-08"), // Mon, perfect
		rec("t1", "2024-01-09"), // Tue, perfect
		rec("t1", "2024-01-10"), // Wed, perfect
	}
	s := Compute(fixtures(), records)
	if s.PerfectDays != 5 {
		t.Errorf("PerfectDays = %d, want 5", s.PerfectDays)
	}
	if s.BestPeriod != 3 {
		t.Errorf("BestPeriod = %d, want 3 (Jan 8-10 run)", s.BestPeriod)
	}
}
