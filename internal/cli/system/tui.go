package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	return ctx.WithLock(func() error {
		p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Clock()), tea.WithAltScreen())
		_, err := p.Run()
		return err
	})
}
