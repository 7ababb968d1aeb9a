// Package tui collects pointer motion from terminal mouse events.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eykd/stringgen-go/internal/entropy"
)

// ErrCancelled is returned when the user aborts the sampling screen.
var ErrCancelled = errors.New("motion sampling cancelled")

// Tracker holds the last mouse position reported by the terminal.
// It is written by the Bubble Tea event loop and read by the mixer.
type Tracker struct {
	mu   sync.Mutex
	x, y int
}

// Set records a new position.
func (t *Tracker) Set(x, y int) {
	t.mu.Lock()
	t.x, t.y = x, y
	t.mu.Unlock()
}

// Position implements entropy.PointerSource.
func (t *Tracker) Position() (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.x, t.y, nil
}

// Collector runs a mixing pass behind a terminal progress screen.
type Collector struct {
	// In and Out default to the process stdin and stdout when nil.
	In  io.Reader
	Out io.Writer
}

// Collect starts the Bubble Tea program, runs mix on a goroutine against
// the mouse tracker, and waits for both to finish.
func (c Collector) Collect(ctx context.Context, mix entropy.MixFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := &Tracker{}
	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}
	p := tea.NewProgram(newModel(tracker, cancel), opts...)

	errc := make(chan error, 1)
	go func() {
		err := mix(ctx, tracker, throttle(func(accepted, target int) {
			p.Send(progressMsg{accepted: accepted, target: target})
		}))
		errc <- err
		p.Send(doneMsg{})
	}()

	final, runErr := p.Run()
	if runErr != nil {
		cancel()
		<-errc
		return fmt.Errorf("running motion screen: %w", runErr)
	}

	// The screen may quit first (Ctrl+C); the cancelled context stops the mixer.
	err := <-errc
	if m, ok := final.(Model); ok && m.cancelled && errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}

// throttle forwards roughly one progress update per percent.
func throttle(send entropy.ProgressFunc) entropy.ProgressFunc {
	last := 0
	return func(accepted, target int) {
		step := target / 100
		if step < 1 {
			step = 1
		}
		if accepted == target || accepted-last >= step {
			last = accepted
			send(accepted, target)
		}
	}
}
