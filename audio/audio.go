package audio

import (
	"errors"
	"strings"
	"time"
)

// ErrUnsupported is returned by Load for files that are neither 16-bit PCM
// WAV nor 16-bit FLAC.
var ErrUnsupported = errors.New("unsupported audio format")

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"bluetooth", " bt ", " bt)", " bt]",
}

// IsBluetooth reports whether a device name looks like a Bluetooth sink.
// Bluetooth output adds latency between a tap and what the user hears.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Sample is a fully decoded clip, 16-bit interleaved.
type Sample struct {
	Path       string
	SampleRate uint32
	Channels   uint16
	PCM        []int16
}

func (s *Sample) Frames() uint64 {
	if s.Channels == 0 {
		return 0
	}
	return uint64(len(s.PCM)) / uint64(s.Channels)
}

func (s *Sample) Duration() time.Duration {
	return FramesToDuration(s.Frames(), s.SampleRate)
}

// FramesToDuration converts a frame count at rate to a duration. Position
// and duration both go through here so they compare equal at the last frame.
func FramesToDuration(frames uint64, rate uint32) time.Duration {
	if rate == 0 {
		return 0
	}
	return time.Duration(frames * uint64(time.Second) / uint64(rate))
}

type DeviceInfo struct {
	ID         string // opaque platform-specific identifier
	Name       string
	SampleRate uint32 // native rate, 0 when the backend does not say
	Default    bool
}

// Output is a connection to the platform audio system.
type Output interface {
	Devices() ([]DeviceInfo, error)
	Open(s *Sample, device *DeviceInfo) (Handle, error)
	Close()
}

// Handle is an opened sample on an output device. Start returns immediately;
// playback advances on the backend's own thread.
type Handle interface {
	Start() error
	Stop()
	Close()
	Duration() time.Duration
	Position() time.Duration
}
