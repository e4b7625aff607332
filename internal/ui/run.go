// Package ui is the interactive terminal front-end of the task list.
package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"todo/internal/service"
	"todo/internal/tasklist"
)

// ErrNoTTY is returned by Run when stdout is not a terminal.
var ErrNoTTY = errors.New("interactive mode requires a terminal (try: todo list)")

// Run shows the task list screen until the user quits or ctx is done.
func Run(ctx context.Context, store service.Store, opts ...tasklist.Option) error {
	if !IsTTY(os.Stdout) {
		return ErrNoTTY
	}

	p := tea.NewProgram(New(ctx, store, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
