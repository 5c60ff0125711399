package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"ytsave/internal/batch"
	"ytsave/internal/progress"
)

// WorkFunc runs the batch, reporting through rep.
type WorkFunc func(ctx context.Context, rep progress.Reporter) error

// Run shows the TUI while work executes on its own goroutine. It returns
// after both the program and work have finished; quitting the UI cancels
// the context handed to work.
func Run(ctx context.Context, items []batch.WorkItem, work WorkFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, cancel, items)
	rep := m.reporter()

	done := make(chan error, 1)
	go func() {
		err := work(ctx, rep)
		done <- err
		rep.send(workDoneMsg{Err: err})
	}()

	prog := tea.NewProgram(m)
	_, progErr := prog.Run()
	if progErr != nil {
		cancel()
	}
	workErr := <-done

	if progErr != nil {
		return fmt.Errorf("ui: %w", progErr)
	}
	return workErr
}
