package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cryptix/wav"
)

const (
	wavHeaderSize = 44
	wavFormatPCM  = 1
)

func decodeWAV(f io.ReadSeeker) (*Sample, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < wavHeaderSize {
		return nil, fmt.Errorf("wav: %d byte file is shorter than a header: %w", size, ErrUnsupported)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	r, err := wav.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	info := r.GetFile()
	if info.AudioFormat != wavFormatPCM || info.SignificantBits != 16 {
		return nil, fmt.Errorf("wav: format %d, %d bits: %w", info.AudioFormat, info.SignificantBits, ErrUnsupported)
	}
	if info.Channels < 1 || info.Channels > 2 {
		return nil, fmt.Errorf("wav: %d channels: %w", info.Channels, ErrUnsupported)
	}

	data, err := r.GetDumbReader()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("wav: reading samples: %w", err)
	}

	frameBytes := 2 * int(info.Channels)
	raw = raw[:len(raw)-len(raw)%frameBytes]
	pcm := make([]int16, len(raw)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return &Sample{
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		PCM:        pcm,
	}, nil
}
