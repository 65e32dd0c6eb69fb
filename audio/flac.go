package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

func decodeFLAC(r io.Reader) (*Sample, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	if info.BitsPerSample != 16 {
		return nil, fmt.Errorf("flac: %d bits: %w", info.BitsPerSample, ErrUnsupported)
	}
	if info.NChannels < 1 || info.NChannels > 2 {
		return nil, fmt.Errorf("flac: %d channels: %w", info.NChannels, ErrUnsupported)
	}

	channels := int(info.NChannels)
	pcm := make([]int16, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac: parsing frame: %w", err)
		}
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				pcm = append(pcm, int16(frame.Subframes[ch].Samples[i]))
			}
		}
	}

	return &Sample{
		SampleRate: info.SampleRate,
		Channels:   uint16(channels),
		PCM:        pcm,
	}, nil
}
