//go:build linux

package audio

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseOutput struct {
	client *pulse.Client
}

func NewOutput() (Output, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("keymap"))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseOutput{client: c}, nil
}

func (p *pulseOutput) Devices() ([]DeviceInfo, error) {
	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("pulse list sinks: %w", err)
	}
	def, err := p.client.DefaultSink()
	if err != nil {
		return nil, fmt.Errorf("pulse default sink: %w", err)
	}
	var devices []DeviceInfo
	for _, s := range sinks {
		devices = append(devices, DeviceInfo{
			ID:         s.ID(),
			Name:       s.Name(),
			SampleRate: uint32(s.SampleRate()),
			Default:    s.ID() == def.ID(),
		})
	}
	return devices, nil
}

func (p *pulseOutput) Open(s *Sample, device *DeviceInfo) (Handle, error) {
	h := &pulseHandle{sample: s}

	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		pos := int(h.sent.Load())
		if pos >= len(s.PCM) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, s.PCM[pos:])
		h.sent.Add(int64(n))
		return n, nil
	})

	layout := pulse.PlaybackMono
	volumes := proto.ChannelVolumes{uint32(proto.VolumeNorm)}
	if s.Channels == 2 {
		layout = pulse.PlaybackStereo
		volumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
	}
	opts := []pulse.PlaybackOption{
		layout,
		pulse.PlaybackSampleRate(int(s.SampleRate)),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackMediaName(s.Path),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = volumes
		}),
	}
	sinkOpt, err := sinkOption(p.client.SinkByID, device)
	if err != nil {
		return nil, err
	}
	if sinkOpt != nil {
		opts = append(opts, sinkOpt)
	}

	stream, err := p.client.NewPlayback(reader, opts...)
	if err != nil {
		return nil, fmt.Errorf("pulse playback: %w", err)
	}
	h.stream = stream
	return h, nil
}

// sinkOption routes playback to device. A nil device keeps the server
// default; a device that cannot be found is an error, not a fallback.
func sinkOption(lookup func(id string) (*pulse.Sink, error), device *DeviceInfo) (pulse.PlaybackOption, error) {
	if device == nil {
		return nil, nil
	}
	sink, err := lookup(device.ID)
	if err != nil {
		return nil, fmt.Errorf("pulse sink %s: %w", device.ID, err)
	}
	return pulse.PlaybackSink(sink), nil
}

func (p *pulseOutput) Close() {
	p.client.Close()
}

type pulseHandle struct {
	sample *Sample
	stream *pulse.PlaybackStream
	sent   atomic.Int64 // interleaved samples handed to the server

	mu     sync.Mutex
	closed bool
}

func (h *pulseHandle) Start() error {
	h.stream.Start()
	if err := h.stream.Error(); err != nil {
		return fmt.Errorf("pulse start: %w", err)
	}
	return nil
}

func (h *pulseHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.stream.Stop()
	}
}

func (h *pulseHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.stream.Stop()
	h.stream.Close()
}

func (h *pulseHandle) Duration() time.Duration {
	return h.sample.Duration()
}

func (h *pulseHandle) Position() time.Duration {
	frames := uint64(h.sent.Load()) / uint64(h.sample.Channels)
	return FramesToDuration(frames, h.sample.SampleRate)
}
