package input

import (
	"context"
	"errors"
)

// ErrInterrupted is returned by Next when the user aborts from the keyboard.
var ErrInterrupted = errors.New("interrupted")

// Source delivers one input event per Next call. Next blocks until an event
// arrives, the source fails, or ctx is done.
type Source interface {
	Next(ctx context.Context) error
	Close() error
}
