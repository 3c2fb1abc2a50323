// Package stats computes the aggregate figures shown by 'habita stats'.
package stats

import (
	"sort"
	"time"

	"github.com/habita/habita/internal/models"
)

// Summary holds the aggregate completion figures.
type Summary struct {
	Completed   int     // total completion records across all trackers
	PerfectDays int     // days where every scheduled tracker was completed
	BestPeriod  int     // longest run of consecutive perfect days
	Average     float64 // completions per day, over days with any completion
}

// Compute derives the summary from the full tracker collection and record
// set. A day is perfect when every recurring tracker scheduled on its
// weekday has a record; one-off trackers never count against a day.
func Compute(categories []models.Category, records []models.CompletionRecord) Summary {
	var recurring []models.Tracker
	for _, cat := range categories {
		for _, t := range cat.Trackers {
			if !t.IsOneOff() {
				recurring = append(recurring, t)
			}
		}
	}

	byDay := make(map[string]map[string]struct{}) // day -> completed tracker ids
	for _, rec := range records {
		if byDay[rec.Day] == nil {
			byDay[rec.Day] = make(map[string]struct{})
		}
		byDay[rec.Day][rec.TrackerID] = struct{}{}
	}

	summary := Summary{Completed: len(records)}
	if len(byDay) > 0 {
		summary.Average = float64(len(records)) / float64(len(byDay))
	}

	var perfect []time.Time
	for day, done := range byDay {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		wd := models.WeekdayOf(date)
		scheduled := 0
		completed := 0
		for _, t := range recurring {
			if !t.Schedule.Contains(wd) {
				continue
			}
			scheduled++
			if _, ok := done[t.ID]; ok {
				completed++
			}
		}
		if scheduled > 0 && completed == scheduled {
			perfect = append(perfect, date)
		}
	}
	summary.PerfectDays = len(perfect)

	// Longest run of consecutive perfect calendar days.
	sort.Slice(perfect, func(i, j int) bool { return perfect[i].Before(perfect[j]) })
	streak := 0
	for i, day := range perfect {
		if i > 0 && day.Sub(perfect[i-1]) == 24*time.Hour {
			streak++
		} else {
			streak = 1
		}
		if streak > summary.BestPeriod {
			summary.BestPeriod = streak
		}
	}

	return summary
}
