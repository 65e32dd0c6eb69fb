package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"keymap/audio"
	"keymap/input"
	"keymap/log"
	"keymap/timeline"
)

// Runner plays one sample and records a timeline entry per input event.
type Runner struct {
	Config Config
	Output audio.Output
	Device *audio.DeviceInfo // nil selects the system default
	Input  input.Source
	Stdout io.Writer
	Now    func() time.Time

	// OnStart runs once playback has started.
	OnStart func(h audio.Handle)
	// OnTap runs after each entry is appended; n counts from 1.
	OnTap func(n int, e timeline.Entry)
}

func New(cfg Config, out audio.Output, in input.Source) *Runner {
	return &Runner{
		Config: cfg,
		Output: out,
		Input:  in,
		Stdout: os.Stdout,
		Now:    time.Now,
	}
}

// Run plays the sample and records presses until playback has reached the
// end and every word is used. Either condition alone keeps the loop going.
// On success the timeline has been written to the output file and echoed to
// Stdout, byte for byte the same. On error nothing has been written.
func (r *Runner) Run(ctx context.Context) (*timeline.Timeline, error) {
	cfg := r.Config

	sample, err := audio.Load(cfg.SamplePath)
	if err != nil {
		return nil, &PlaybackError{Path: cfg.SamplePath, Err: err}
	}
	h, err := r.Output.Open(sample, r.Device)
	if err != nil {
		return nil, &PlaybackError{Path: cfg.SamplePath, Err: err}
	}
	defer h.Close()

	if err := h.Start(); err != nil {
		return nil, &PlaybackError{Path: cfg.SamplePath, Err: err}
	}
	started := r.Now()
	log.SessionStart(cfg.SamplePath, cfg.OutputPath, len(cfg.Words), h.Duration())
	if r.OnStart != nil {
		r.OnStart(h)
	}

	words := newWordQueue(cfg.Words)
	tl := &timeline.Timeline{}
	for h.Position() != h.Duration() || !words.Empty() {
		if err := r.Input.Next(ctx); err != nil {
			return nil, &CaptureError{
				Index:   tl.Len() + 1,
				Elapsed: r.Now().Sub(started),
				Err:     err,
			}
		}
		e := timeline.NewEntry(words.Pop(), r.Now())
		tl.Append(e)
		log.Tap(tl.Len(), e.Word, e.Timestamp)
		if r.OnTap != nil {
			r.OnTap(tl.Len(), e)
		}
	}
	h.Stop()

	data := tl.Bytes()
	if err := timeline.WriteFile(cfg.OutputPath, data); err != nil {
		return nil, &OutputError{Path: cfg.OutputPath, Err: err}
	}
	if _, err := r.Stdout.Write(data); err != nil {
		return tl, fmt.Errorf("echoing timeline: %w", err)
	}

	log.SessionEnd(tl.Len(), r.Now().Sub(started))
	log.TimelineText(cfg.SamplePath, data)
	return tl, nil
}
