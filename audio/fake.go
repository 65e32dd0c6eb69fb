package audio

import (
	"sync"
	"time"
)

// FakeOutput opens FakeHandles whose position only moves when told to.
type FakeOutput struct {
	OpenErr error

	mu      sync.Mutex
	handles []*FakeHandle
}

func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

func (f *FakeOutput) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake", SampleRate: 44100, Default: true}}, nil
}

func (f *FakeOutput) Open(s *Sample, _ *DeviceInfo) (Handle, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	h := &FakeHandle{sample: s}
	f.mu.Lock()
	f.handles = append(f.handles, h)
	f.mu.Unlock()
	return h, nil
}

func (f *FakeOutput) Close() {}

// Last returns the most recently opened handle, or nil.
func (f *FakeOutput) Last() *FakeHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil
	}
	return f.handles[len(f.handles)-1]
}

type FakeHandle struct {
	sample *Sample

	mu      sync.Mutex
	frames  uint64
	started bool
	stopped bool
	closed  bool
}

func (h *FakeHandle) Start() error {
	h.mu.Lock()
	h.started = true
	h.mu.Unlock()
	return nil
}

func (h *FakeHandle) Stop() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
}

func (h *FakeHandle) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

func (h *FakeHandle) Duration() time.Duration { return h.sample.Duration() }

func (h *FakeHandle) Position() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return FramesToDuration(h.frames, h.sample.SampleRate)
}

// Advance plays n more frames, clamped to the end of the sample.
func (h *FakeHandle) Advance(n uint64) {
	h.mu.Lock()
	h.frames = min(h.frames+n, h.sample.Frames())
	h.mu.Unlock()
}

// Finish jumps to the end of the sample.
func (h *FakeHandle) Finish() {
	h.mu.Lock()
	h.frames = h.sample.Frames()
	h.mu.Unlock()
}

func (h *FakeHandle) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

func (h *FakeHandle) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

func (h *FakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
