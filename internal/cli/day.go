package cli

import (
	"fmt"

	"github.com/habita/habita/internal/format"
	"github.com/habita/habita/internal/models"
)

type DayCmd struct {
	Date   string `short:"d" help:"Date to show (YYYY-MM-DD). Defaults to today."`
	Filter string `short:"f" help:"Filter mode: all, today, completed, uncompleted. Persisted for next time."`
	Search string `help:"Case-insensitive substring match on tracker names."`
}

func (c *DayCmd) Run(ctx *Context) error {
	loc := ctx.Location()
	date, err := parseDate(c.Date, loc)
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	mode := settings.FilterMode
	if c.Filter != "" {
		mode, err = models.ParseFilterMode(c.Filter)
		if err != nil {
			return err
		}
		settings.FilterMode = mode
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return err
		}
	}

	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return err
	}
	led := ctx.Ledger()

	visible := ctx.Engine.VisibleCategories(cats, date, mode, c.Search, led.IsCompleted)
	fmt.Printf("%s (%s, filter: %s)\n", date.Format("Monday, 2 Jan 2006"), models.WeekdayOf(date).Abbrev(), mode)
	if len(visible) == 0 {
		fmt.Println("Nothing to show.")
		return nil
	}

	for _, cat := range visible {
		fmt.Printf("\n%s\n", cat.Title)
		for _, t := range cat.Trackers {
			mark := " "
			if led.IsCompleted(t.ID, date) {
				mark = "✓"
			}
			fmt.Printf("  [%s] %s %s (%s)\n", mark, t.Emoji, t.Name, format.Days(led.CompletionCount(t.ID)))
		}
	}
	return nil
}
