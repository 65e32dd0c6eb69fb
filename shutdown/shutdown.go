package shutdown

import (
	"context"
	"os/signal"
)

// Context returns a context cancelled on the first termination signal.
// A second signal falls through to the default handler and kills the process.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, signals...)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
