package cli

import (
	"fmt"
	"time"

	"github.com/habita/habita/internal/format"
)

type ToggleCmd struct {
	Name string `arg:"" help:"Tracker name."`
	Date string `short:"d" help:"Date to toggle (YYYY-MM-DD). Defaults to today."`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	loc := ctx.Location()
	date, err := parseDate(c.Date, loc)
	if err != nil {
		return err
	}

	// Completions may be recorded for today or any past day, never ahead
	// of time.
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date.After(today) {
		return fmt.Errorf("cannot mark a future date (%s)", date.Format("2006-01-02"))
	}

	t, _, err := ctx.Store.GetTrackerByName(c.Name)
	if err != nil {
		return fmt.Errorf("tracker %q not found", c.Name)
	}

	led := ctx.Ledger()
	if led.Toggle(t.ID, date) {
		fmt.Printf("Completed %s %s on %s (%s total)\n",
			t.Emoji, t.Name, date.Format("2006-01-02"), format.Days(led.CompletionCount(t.ID)))
	} else {
		fmt.Printf("Unmarked %s %s on %s\n", t.Emoji, t.Name, date.Format("2006-01-02"))
	}
	return nil
}
