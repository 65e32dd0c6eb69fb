package session

import (
	"fmt"
	"time"
)

// PlaybackError means the sample could not be decoded or the audio output
// could not play it.
type PlaybackError struct {
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback %s: %v", e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// OutputError means the timeline could not be written. The output file is
// left as it was before the run.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// CaptureError means waiting for the Index-th key press failed, Elapsed
// after playback started.
type CaptureError struct {
	Index   int
	Elapsed time.Duration
	Err     error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture press %d at %s: %v", e.Index, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
