package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/habita/habita/internal/format"
	"github.com/habita/habita/internal/models"
	"github.com/habita/habita/internal/validation"
)

type TrackerAddCmd struct {
	Name     string `arg:"" optional:"" help:"Tracker name."`
	Category string `short:"c" help:"Category title. Prompts when omitted."`
	Emoji    string `short:"e" help:"Emoji from the palette."`
	Color    int    `help:"Color palette index (1-18)."`
	Schedule string `short:"s" help:"Comma-separated weekdays (mon,wed,fri). Empty for a one-off event."`
}

func (c *TrackerAddCmd) Run(ctx *Context) error {
	if c.Name == "" || c.Category == "" || c.Emoji == "" || c.Color == 0 {
		if err := c.prompt(ctx); err != nil {
			return err
		}
	}
	if c.Emoji == "" {
		c.Emoji = models.EmojiPalette[0]
	}
	if c.Color == 0 {
		c.Color = 1
	}

	cat, err := findCategoryByTitle(ctx.Store, c.Category)
	if err != nil {
		return err
	}
	schedule, err := parseSchedule(c.Schedule)
	if err != nil {
		return err
	}

	t := models.Tracker{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Emoji:     c.Emoji,
		Color:     c.Color,
		Schedule:  schedule,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddTracker(t, cat.ID); err != nil {
		return err
	}
	fmt.Printf("Added tracker: %s %s [%s]\n", t.Emoji, t.Name, t.Schedule)
	return nil
}

// prompt collects the missing fields interactively.
func (c *TrackerAddCmd) prompt(ctx *Context) error {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		return fmt.Errorf("no categories yet, add one first: habita category add <title>")
	}

	catOptions := make([]huh.Option[string], 0, len(cats))
	for _, cat := range cats {
		catOptions = append(catOptions, huh.NewOption(cat.Title, cat.Title))
	}
	emojiOptions := make([]huh.Option[string], 0, len(models.EmojiPalette))
	for _, e := range models.EmojiPalette {
		emojiOptions = append(emojiOptions, huh.NewOption(e, e))
	}
	colorOptions := make([]huh.Option[int], 0, len(models.ColorPalette))
	for i, hex := range models.ColorPalette {
		colorOptions = append(colorOptions, huh.NewOption(fmt.Sprintf("%2d %s", i+1, hex), i+1))
	}
	weekdayOptions := make([]huh.Option[models.WeekDay], 0, 7)
	for wd := models.Sunday; wd <= models.Saturday; wd++ {
		weekdayOptions = append(weekdayOptions, huh.NewOption(wd.String(), wd))
	}

	var schedule []models.WeekDay
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tracker Name").
				Value(&c.Name).
				Validate(validation.Name),
			huh.NewSelect[string]().
				Title("Category").
				Options(catOptions...).
				Value(&c.Category),
			huh.NewSelect[string]().
				Title("Emoji").
				Options(emojiOptions...).
				Value(&c.Emoji),
			huh.NewSelect[int]().
				Title("Color").
				Options(colorOptions...).
				Value(&c.Color),
			huh.NewMultiSelect[models.WeekDay]().
				Title("Schedule").
				Description("Leave empty for a one-off event").
				Options(weekdayOptions...).
				Value(&schedule),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return err
	}

	parts := make([]string, 0, len(schedule))
	for _, wd := range schedule {
		parts = append(parts, wd.Abbrev())
	}
	c.Schedule = strings.Join(parts, ",")
	return nil
}

type TrackerEditCmd struct {
	Name     string `arg:"" help:"Tracker name."`
	NewName  string `help:"New tracker name."`
	Category string `short:"c" help:"Move the tracker to this category."`
	Emoji    string `short:"e" help:"Emoji from the palette."`
	Color    int    `help:"Color palette index."`
	Schedule string `short:"s" help:"Comma-separated weekdays. Use 'none' to clear."`
}

func (c *TrackerEditCmd) Run(ctx *Context) error {
	t, categoryID, err := ctx.Store.GetTrackerByName(c.Name)
	if err != nil {
		return fmt.Errorf("tracker %q not found", c.Name)
	}

	if c.NewName != "" {
		t.Name = c.NewName
	}
	if c.Emoji != "" {
		t.Emoji = c.Emoji
	}
	if c.Color != 0 {
		t.Color = c.Color
	}
	if c.Schedule != "" {
		if strings.EqualFold(c.Schedule, "none") {
			t.Schedule = nil
		} else {
			schedule, err := parseSchedule(c.Schedule)
			if err != nil {
				return err
			}
			t.Schedule = schedule
		}
	}
	if c.Category != "" {
		cat, err := findCategoryByTitle(ctx.Store, c.Category)
		if err != nil {
			return err
		}
		categoryID = cat.ID
	}

	if err := ctx.Store.UpdateTracker(t, categoryID); err != nil {
		return err
	}
	fmt.Printf("Updated tracker: %s %s [%s]\n", t.Emoji, t.Name, t.Schedule)
	return nil
}

type TrackerDeleteCmd struct {
	Name string `arg:"" help:"Tracker name."`
}

func (c *TrackerDeleteCmd) Run(ctx *Context) error {
	t, _, err := ctx.Store.GetTrackerByName(c.Name)
	if err != nil {
		return fmt.Errorf("tracker %q not found", c.Name)
	}

	history := ctx.Ledger().CompletionCount(t.ID)
	if err := ctx.Store.DeleteTracker(t.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted tracker %q (%s of history)\n", t.Name, format.Days(history))
	return nil
}

type TrackerListCmd struct{}

func (c *TrackerListCmd) Run(ctx *Context) error {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return err
	}
	led := ctx.Ledger()

	total := 0
	for _, cat := range cats {
		if len(cat.Trackers) == 0 {
			continue
		}
		fmt.Printf("%s\n", cat.Title)
		for _, t := range cat.Trackers {
			fmt.Printf("  %s %s [%s] %s\n", t.Emoji, t.Name, t.Schedule, format.Days(led.CompletionCount(t.ID)))
			total++
		}
	}
	if total == 0 {
		fmt.Println("No trackers found.")
	}
	return nil
}
