package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/engine"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/ledger"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/storage"
)

// Context carries the shared collaborators into every command.
type Context struct {
	Store  storage.Provider
	Engine *engine.Engine
	Bus    *events.Bus
}

// Ledger builds a completion ledger over the store's current records.
func (c *Context) Ledger() *ledger.Ledger {
	return ledger.New(c.Store, c.Bus)
}

// Location resolves the configured timezone, falling back to the system
// local zone.
func (c *Context) Location() *time.Location {
	settings, err := c.Store.GetSettings()
	if err != nil || settings.Timezone == "" || settings.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// parseDate parses a --date flag value (YYYY-MM-DD), defaulting to today
// in the given location.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// parseSchedule parses a comma-separated weekday list, e.g. "mon,wed,fri".
// An empty string yields an empty schedule (a one-off event).
func parseSchedule(s string) (models.Schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var schedule models.Schedule
	for _, part := range strings.Split(s, ",") {
		wd, err := models.ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, wd)
	}
	return schedule.Normalized(), nil
}

// findCategoryByTitle resolves a category title with a friendlier error.
func findCategoryByTitle(store storage.Provider, title string) (models.Category, error) {
	cat, err := store.GetCategoryByTitle(title)
	if err != nil {
		return models.Category{}, fmt.Errorf("category %q not found", title)
	}
	return cat, nil
}
