package cli

import "fmt"

type InitCmd struct {
	Force bool `help:"Do not fail when storage already exists." default:"false"`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		if !c.Force {
			return err
		}
	}

	fmt.Printf("Initialized habita storage at %s\n", ctx.Store.GetConfigPath())
	fmt.Println("Next steps:")
	fmt.Println("  habita category add \"Health\"")
	fmt.Println("  habita tracker add")
	fmt.Println("  habita tui")
	return nil
}
