package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/habita/habita/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(ctx.Store, ctx.Bus)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
