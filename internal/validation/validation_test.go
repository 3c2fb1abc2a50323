package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/habita/habita/internal/models"
)

func validTracker(id, name string) models.Tracker {
	return models.Tracker{
		ID:       id,
		Name:     name,
		Emoji:    "🙂",
		Color:    1,
		Schedule: models.Schedule{models.Monday},
	}
}

func TestName(t *testing.T) {
	if err := Name("Drink water"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if !errors.Is(Name(""), ErrEmptyName) {
		t.Error("empty name should be ErrEmptyName")
	}
	if !errors.Is(Name("   "), ErrEmptyName) {
		t.Error("whitespace-only name should be ErrEmptyName")
	}
	if !errors.Is(Name(strings.Repeat("x", 39)), ErrNameTooLong) {
		t.Error("39-char name should be ErrNameTooLong")
	}
	if err := Name(strings.Repeat("x", 38)); err != nil {
		t.Errorf("38-char name rejected: %v", err)
	}
	// Length is in runes.
	if err := Name(strings.Repeat("ы", 38)); err != nil {
		t.Errorf("38-rune cyrillic name rejected: %v", err)
	}
}

func TestCategoryTitle_Duplicates(t *testing.T) {
	existing := []models.Category{
		{ID: "c1", Title: "Health"},
		{ID: "c2", Title: "Chores"},
	}

	if !errors.Is(CategoryTitle("Health", existing, ""), ErrDuplicateName) {
		t.Error("duplicate title should be rejected")
	}
	if err := CategoryTitle("Work", existing, ""); err != nil {
		t.Errorf("unique title rejected: %v", err)
	}
	// Renaming a category to its own title is fine.
	if err := CategoryTitle("Health", existing, "c1"); err != nil {
		t.Errorf("self-rename rejected: %v", err)
	}
}

func TestTracker(t *testing.T) {
	siblings := []models.Tracker{validTracker("t1", "Drink water")}

	if err := Tracker(validTracker("t2", "Run"), siblings, ""); err != nil {
		t.Errorf("valid tracker rejected: %v", err)
	}
	if !errors.Is(Tracker(validTracker("t2", "Drink water"), siblings, ""), ErrDuplicateName) {
		t.Error("duplicate name within category should be rejected")
	}
	if err := Tracker(validTracker("t1", "Drink water"), siblings, "t1"); err != nil {
		t.Errorf("editing a tracker under its own name rejected: %v", err)
	}

	bad := validTracker("t2", "Run")
	bad.Emoji = "x"
	if !errors.Is(Tracker(bad, nil, ""), ErrInvalidEmoji) {
		t.Error("off-palette emoji should be rejected")
	}

	bad = validTracker("t2", "Run")
	bad.Color = 19
	if !errors.Is(Tracker(bad, nil, ""), ErrInvalidColor) {
		t.Error("off-palette color should be rejected")
	}

	bad = validTracker("t2", "Run")
	bad.Schedule = models.Schedule{models.WeekDay(0)}
	if !errors.Is(Tracker(bad, nil, ""), ErrInvalidSchedule) {
		t.Error("invalid weekday should be rejected")
	}

	// Empty schedule is a one-off event, not an error.
	oneOff := validTracker("t2", "Dentist")
	oneOff.Schedule = nil
	if err := Tracker(oneOff, nil, ""); err != nil {
		t.Errorf("one-off tracker rejected: %v", err)
	}
}
