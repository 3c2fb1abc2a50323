// Package validation holds the precondition checks the storage layer
// applies to mutation requests. Checks return typed errors so callers can
// distinguish user mistakes from storage faults.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/models"
)

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrNameTooLong     = errors.New("name exceeds maximum length")
	ErrDuplicateName   = errors.New("name already in use")
	ErrInvalidEmoji    = errors.New("emoji is not in the palette")
	ErrInvalidColor    = errors.New("color is not in the palette")
	ErrInvalidSchedule = errors.New("schedule contains an invalid weekday")
	ErrNotFound        = errors.New("not found")
)

// Name checks the shared non-empty and length rules for tracker names and
// category titles. Length is measured in runes, not bytes, so multi-byte
// names get the full budget.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > constants.MaxNameLength {
		return fmt.Errorf("%w (%d > %d)", ErrNameTooLong, utf8.RuneCountInString(name), constants.MaxNameLength)
	}
	return nil
}

// CategoryTitle validates a new or renamed category title against the
// titles already in use. Comparison is exact; excludeID skips the category
// being renamed.
func CategoryTitle(title string, existing []models.Category, excludeID string) error {
	if err := Name(title); err != nil {
		return err
	}
	for _, cat := range existing {
		if cat.ID != excludeID && cat.Title == title {
			return fmt.Errorf("%w: category %q", ErrDuplicateName, title)
		}
	}
	return nil
}

// Tracker validates a tracker against its would-be siblings in the target
// category. excludeID skips the tracker being edited.
func Tracker(t models.Tracker, siblings []models.Tracker, excludeID string) error {
	if err := Name(t.Name); err != nil {
		return err
	}
	if !models.ValidEmoji(t.Emoji) {
		return fmt.Errorf("%w: %q", ErrInvalidEmoji, t.Emoji)
	}
	if !models.ValidColor(t.Color) {
		return fmt.Errorf("%w: %d", ErrInvalidColor, t.Color)
	}
	for _, wd := range t.Schedule {
		if !wd.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidSchedule, int(wd))
		}
	}
	for _, sibling := range siblings {
		if sibling.ID != excludeID && sibling.Name == t.Name {
			return fmt.Errorf("%w: tracker %q", ErrDuplicateName, t.Name)
		}
	}
	return nil
}
