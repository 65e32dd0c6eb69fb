package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Load decodes the sample at path, choosing the decoder by magic bytes.
func Load(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 12)
	if _, err := io.ReadFull(f, head); err != nil {
		return nil, fmt.Errorf("%s: reading header: %w", path, ErrUnsupported)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var s *Sample
	switch {
	case bytes.Equal(head[0:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		s, err = decodeWAV(f)
	case bytes.Equal(head[0:4], []byte("fLaC")):
		s, err = decodeFLAC(f)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}
