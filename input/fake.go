package input

import "context"

// Fake is a Source driven by the test: Press queues an event, Fail queues
// an error. OnNext, when set, runs before each Next returns an event.
type Fake struct {
	events chan error
	OnNext func(n int)
	calls  int
	closed bool
}

func NewFake(buffer int) *Fake {
	return &Fake{events: make(chan error, buffer)}
}

func (f *Fake) Press()         { f.events <- nil }
func (f *Fake) Fail(err error) { f.events <- err }

func (f *Fake) Next(ctx context.Context) error {
	select {
	case err := <-f.events:
		f.calls++
		if err == nil && f.OnNext != nil {
			f.OnNext(f.calls)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Calls is the number of events Next has returned.
func (f *Fake) Calls() int { return f.calls }

// Pending is the number of queued events nobody has consumed.
func (f *Fake) Pending() int { return len(f.events) }

func (f *Fake) Close() error {
	f.closed = true
	return nil
}

func (f *Fake) Closed() bool { return f.closed }
