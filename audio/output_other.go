//go:build !linux

package audio

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
)

type malgoOutput struct {
	ctx *malgo.AllocatedContext
}

func NewOutput() (Output, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo: %w", err)
	}
	return &malgoOutput{ctx: ctx}, nil
}

func (m *malgoOutput) Devices() ([]DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	var result []DeviceInfo
	for _, d := range devices {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

func (m *malgoOutput) Open(s *Sample, device *DeviceInfo) (Handle, error) {
	h := &malgoHandle{sample: s}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(s.Channels)
	deviceConfig.SampleRate = s.SampleRate

	if device != nil {
		idBytes, err := hex.DecodeString(device.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid device ID: %w", err)
		}
		var devID malgo.DeviceID
		copy(devID[:], idBytes)
		deviceConfig.Playback.DeviceID = devID.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: h.dataCallback,
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("malgo device: %w", err)
	}
	h.device = dev
	return h, nil
}

func (m *malgoOutput) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoHandle struct {
	sample *Sample
	device *malgo.Device
	sent   atomic.Uint64 // interleaved samples copied to the device
	closed atomic.Bool
}

func (h *malgoHandle) dataCallback(pOutput, _ []byte, frameCount uint32) {
	pcm := h.sample.PCM
	pos := h.sent.Load()
	want := uint64(frameCount) * uint64(h.sample.Channels)
	remaining := uint64(len(pcm)) - pos
	if want > remaining {
		want = remaining
	}

	for i := uint64(0); i < want; i++ {
		binary.LittleEndian.PutUint16(pOutput[i*2:], uint16(pcm[pos+i]))
	}
	h.sent.Store(pos + want)

	// Zero-fill remainder
	for i := want * 2; i < uint64(len(pOutput)); i++ {
		pOutput[i] = 0
	}
}

func (h *malgoHandle) Start() error {
	return h.device.Start()
}

func (h *malgoHandle) Stop() {
	if !h.closed.Load() {
		h.device.Stop()
	}
}

func (h *malgoHandle) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.device.Uninit()
}

func (h *malgoHandle) Duration() time.Duration {
	return h.sample.Duration()
}

func (h *malgoHandle) Position() time.Duration {
	frames := h.sent.Load() / uint64(h.sample.Channels)
	return FramesToDuration(frames, h.sample.SampleRate)
}
