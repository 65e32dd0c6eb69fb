package input

import (
	"bufio"
	"context"
	"io"
)

// Lines treats every newline-terminated line of r as one event, so a key
// press is Enter, the same gate a cooked-mode terminal gives.
type Lines struct {
	events chan error
	done   chan struct{}
	err    error // sticky once the reader has stopped
}

func NewLines(r io.Reader) *Lines {
	l := &Lines{
		events: make(chan error),
		done:   make(chan struct{}),
	}
	go l.read(r)
	return l
}

func (l *Lines) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case l.events <- nil:
		case <-l.done:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case l.events <- err:
	case <-l.done:
	}
}

func (l *Lines) Next(ctx context.Context) error {
	if l.err != nil {
		return l.err
	}
	select {
	case err := <-l.events:
		l.err = err
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Lines) Close() error {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	return nil
}
