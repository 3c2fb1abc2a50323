package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habita/habita/internal/format"
	"github.com/habita/habita/internal/models"
)

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *Context) error {
	cat := models.Category{
		ID:        uuid.New().String(),
		Title:     c.Title,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddCategory(cat); err != nil {
		return err
	}
	fmt.Printf("Added category: %s\n", c.Title)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *Context) error {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	for _, cat := range cats {
		fmt.Printf("%s (%d trackers)\n", cat.Title, len(cat.Trackers))
		for _, t := range cat.Trackers {
			fmt.Printf("  %s %s [%s]\n", t.Emoji, t.Name, t.Schedule)
		}
	}
	return nil
}

type CategoryRenameCmd struct {
	Title    string `arg:"" help:"Current category title."`
	NewTitle string `arg:"" help:"New category title."`
}

func (c *CategoryRenameCmd) Run(ctx *Context) error {
	cat, err := findCategoryByTitle(ctx.Store, c.Title)
	if err != nil {
		return err
	}
	if err := ctx.Store.RenameCategory(cat.ID, c.NewTitle); err != nil {
		return err
	}
	fmt.Printf("Renamed category %q to %q\n", c.Title, c.NewTitle)
	return nil
}

type CategoryDeleteCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryDeleteCmd) Run(ctx *Context) error {
	cat, err := findCategoryByTitle(ctx.Store, c.Title)
	if err != nil {
		return err
	}

	led := ctx.Ledger()
	history := 0
	for _, t := range cat.Trackers {
		history += led.CompletionCount(t.ID)
	}

	if err := ctx.Store.DeleteCategory(cat.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted category %q (%d trackers, %s of history)\n",
		c.Title, len(cat.Trackers), format.Days(history))
	return nil
}
