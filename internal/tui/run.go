package tui

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the terminal UI until the user quits or ctx is cancelled
func Run(ctx context.Context, deps Deps) error {
	program := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
