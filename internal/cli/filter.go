package cli

import (
	"fmt"

	"github.com/habita/habita/internal/models"
)

type FilterGetCmd struct{}

func (c *FilterGetCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	fmt.Println(settings.FilterMode)
	return nil
}

type FilterSetCmd struct {
	Mode string `arg:"" help:"Filter mode: all, today, completed, uncompleted."`
}

func (c *FilterSetCmd) Run(ctx *Context) error {
	mode, err := models.ParseFilterMode(c.Mode)
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	settings.FilterMode = mode
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Printf("Filter mode set to %s\n", mode)
	return nil
}
