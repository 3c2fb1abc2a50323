package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/habita/habita/internal/models"
)

// 2024-01-01 is a Monday.
func date(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func tracker(id, name string, days ...models.WeekDay) models.Tracker {
	return models.Tracker{
		ID:       id,
		Name:     name,
		Emoji:    "🙂",
		Color:    1,
		Schedule: models.Schedule(days),
	}
}

func noneCompleted(string, time.Time) bool { return false }

func TestScheduleMatch(t *testing.T) {
	tr := tracker("t1", "Drink water", models.Monday, models.Wednesday)

	if !ScheduleMatch(tr, date(1)) { // Monday
		t.Error("expected match on Monday")
	}
	if ScheduleMatch(tr, date(2)) { // Tuesday
		t.Error("expected no match on Tuesday")
	}
	if !ScheduleMatch(tr, date(3)) { // Wednesday
		t.Error("expected match on Wednesday")
	}
}

func TestScheduleMatch_OneOffMatchesEveryDate(t *testing.T) {
	oneOff := tracker("t1", "Dentist")

	for day := 1; day <= 7; day++ {
		if !ScheduleMatch(oneOff, date(day)) {
			t.Errorf("one-off tracker should match %s", date(day).Format("2006-01-02"))
		}
	}
}

func TestVisibleCategories_ModeComposition(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
			tracker("t2", "Run", models.Monday),
			tracker("t3", "Yoga", models.Tuesday),
		}},
	}
	monday := date(1)

	completed := func(id string, _ time.Time) bool { return id == "t1" }

	// Completed and Uncompleted partition the schedule-matched set.
	got := e.VisibleCategories(cats, monday, models.FilterCompleted, "", completed)
	if len(got) != 1 || len(got[0].Trackers) != 1 || got[0].Trackers[0].ID != "t1" {
		t.Fatalf("completed filter: got %+v", got)
	}

	got = e.VisibleCategories(cats, monday, models.FilterUncompleted, "", completed)
	if len(got) != 1 || len(got[0].Trackers) != 1 || got[0].Trackers[0].ID != "t2" {
		t.Fatalf("uncompleted filter: got %+v", got)
	}

	all := e.VisibleCategories(cats, monday, models.FilterAll, "", completed)
	if len(all) != 1 || len(all[0].Trackers) != 2 {
		t.Fatalf("all filter: got %+v", all)
	}
}

func TestVisibleCategories_TodayIgnoresPickedDate(t *testing.T) {
	// Fixed clock: today is Monday 2024-01-01.
	e := NewWithNow(func() time.Time { return date(1) })

	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
		}},
	}

	// Whatever date is picked, Today mode evaluates against the real today.
	for day := 1; day <= 7; day++ {
		got := e.VisibleCategories(cats, date(day), models.FilterToday, "", noneCompleted)
		if len(got) != 1 || got[0].Trackers[0].ID != "t1" {
			t.Errorf("picked date %d: today mode output changed: %+v", day, got)
		}
	}
}

func TestVisibleCategories_SearchIsSubstringAfterMode(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
			tracker("t2", "Water plants", models.Monday),
			tracker("t3", "Run", models.Monday),
		}},
	}
	monday := date(1)

	got := e.VisibleCategories(cats, monday, models.FilterAll, "WATER", noneCompleted)
	if len(got) != 1 || len(got[0].Trackers) != 2 {
		t.Fatalf("case-insensitive search: got %+v", got)
	}

	// Searching never adds trackers the mode filter excluded.
	completed := func(id string, _ time.Time) bool { return id == "t1" }
	got = e.VisibleCategories(cats, monday, models.FilterUncompleted, "water", completed)
	if len(got) != 1 || len(got[0].Trackers) != 1 || got[0].Trackers[0].ID != "t2" {
		t.Fatalf("search composed with mode: got %+v", got)
	}
}

func TestVisibleCategories_SearchIsLiteral(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
		}},
	}
	monday := date(1)

	// Surrounding whitespace is part of the query, not stripped.
	got := e.VisibleCategories(cats, monday, models.FilterAll, " water", noneCompleted)
	if len(got) != 1 {
		t.Errorf("expected %q to match %q", " water", "Drink water")
	}
	got = e.VisibleCategories(cats, monday, models.FilterAll, "water ", noneCompleted)
	if len(got) != 0 {
		t.Errorf("expected %q not to match %q", "water ", "Drink water")
	}
	got = e.VisibleCategories(cats, monday, models.FilterAll, " ", noneCompleted)
	if len(got) != 1 {
		t.Errorf("expected %q to match %q", " ", "Drink water")
	}
}

func TestVisibleCategories_EmptyCategoriesCollapse(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
		}},
		{ID: "c2", Title: "Chores", Trackers: []models.Tracker{
			tracker("t2", "Laundry", models.Saturday),
		}},
		{ID: "c3", Title: "Empty"},
	}

	got := e.VisibleCategories(cats, date(1), models.FilterAll, "", noneCompleted)
	if len(got) != 1 || got[0].Title != "Health" {
		t.Fatalf("expected only Health, got %+v", got)
	}
	for _, cat := range got {
		if len(cat.Trackers) == 0 {
			t.Errorf("category %s has no trackers in output", cat.Title)
		}
	}
}

func TestVisibleCategories_DeterministicAndNonMutating(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
			tracker("t2", "Run", models.Monday),
		}},
	}
	snapshot := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday),
			tracker("t2", "Run", models.Monday),
		}},
	}

	first := e.VisibleCategories(cats, date(1), models.FilterAll, "", noneCompleted)
	second := e.VisibleCategories(cats, date(1), models.FilterAll, "", noneCompleted)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated computation produced different results")
	}
	if !reflect.DeepEqual(cats, snapshot) {
		t.Error("input categories were mutated")
	}
	// Relative order of trackers is preserved.
	if first[0].Trackers[0].ID != "t1" || first[0].Trackers[1].ID != "t2" {
		t.Errorf("tracker order changed: %+v", first[0].Trackers)
	}
}

func TestVisibleCategories_EndToEndScenario(t *testing.T) {
	e := New()
	cats := []models.Category{
		{ID: "c1", Title: "Health", Trackers: []models.Tracker{
			tracker("t1", "Drink water", models.Monday, models.Wednesday, models.Friday),
		}},
	}
	wednesday := date(3)

	done := map[string]bool{}
	isCompleted := func(id string, d time.Time) bool {
		return done[id+"/"+models.DayKey(d)]
	}

	got := e.VisibleCategories(cats, wednesday, models.FilterAll, "", isCompleted)
	if len(got) != 1 || got[0].Title != "Health" || got[0].Trackers[0].Name != "Drink water" {
		t.Fatalf("all mode: got %+v", got)
	}

	// Complete it for that Wednesday.
	done["t1/"+models.DayKey(wednesday)] = true

	got = e.VisibleCategories(cats, wednesday, models.FilterUncompleted, "", isCompleted)
	if len(got) != 0 {
		t.Fatalf("uncompleted after completion: category should disappear, got %+v", got)
	}

	got = e.VisibleCategories(cats, wednesday, models.FilterCompleted, "", isCompleted)
	if len(got) != 1 || got[0].Trackers[0].ID != "t1" {
		t.Fatalf("completed after completion: got %+v", got)
	}
}
