package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	repos, err := ctx.Repos()
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.PerformAutomaticBackup()

	model := tui.NewModel(ctx.Context(), ctx.Store, repos, tui.Options{
		Settings:    settings,
		PinnedTitle: ctx.PinnedTitle(),
		Now:         ctx.Now,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
