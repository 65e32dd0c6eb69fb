package shutdown

import (
	"context"
	"testing"
)

func TestContextCancelledByParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := Context(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	if ctx.Err() != context.Canceled {
		t.Errorf("Err() = %v, want Canceled", ctx.Err())
	}
}
