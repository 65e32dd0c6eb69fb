package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"keymap/audio"
	"keymap/input"
	"keymap/timeline"
)

// Source runs a bubbletea screen and turns its key presses into input
// events. It implements input.Source.
type Source struct {
	program *tea.Program
	events  chan error
	done    chan struct{}
	runErr  error
	started bool
}

func New(words []string, opts ...tea.ProgramOption) *Source {
	events := make(chan error, 64)
	m := model{words: words, events: events}
	return &Source{
		program: tea.NewProgram(m, opts...),
		events:  events,
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background. The screen stays untouched
// until Start is called.
func (s *Source) Start() {
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.done)
		_, s.runErr = s.program.Run()
	}()
}

// Playing hands the screen the handle whose progress it shows.
func (s *Source) Playing(h audio.Handle) {
	s.program.Send(startedMsg{handle: h})
}

// Tapped advances the word display after an entry is recorded.
func (s *Source) Tapped(n int, e timeline.Entry) {
	s.program.Send(tapMsg{n: n, word: e.Word})
}

func (s *Source) Next(ctx context.Context) error {
	select {
	case err := <-s.events:
		return err
	case <-s.done:
		if s.runErr != nil {
			return s.runErr
		}
		return input.ErrInterrupted
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close quits the program and waits for the terminal to be restored. It is
// a no-op when the program never started.
func (s *Source) Close() error {
	if !s.started {
		return nil
	}
	s.program.Quit()
	<-s.done
	return s.runErr
}
