package input

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/term"
)

// Keys puts the terminal in raw mode and treats every key press as one
// event: a multi-byte character or an arrow key's escape sequence counts
// once. Ctrl+C and Ctrl+D end the session with ErrInterrupted.
type Keys struct {
	fd       int
	oldState *term.State
	events   chan error
	done     chan struct{}
	once     sync.Once
	err      error
}

func NewKeys(f *os.File) (*Keys, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	k := &Keys{
		fd:       fd,
		oldState: oldState,
		events:   make(chan error),
		done:     make(chan struct{}),
	}
	go k.read(f)
	return k, nil
}

func (k *Keys) read(r io.Reader) {
	buf := make([]byte, 64)
	var pending []byte
	for {
		n, err := r.Read(buf)
		pending = append(pending, buf[:n]...)
		for {
			size := keyLen(pending)
			if size == 0 {
				break
			}
			var ev error
			if size == 1 && (pending[0] == 3 || pending[0] == 4) { // Ctrl+C, Ctrl+D
				ev = ErrInterrupted
			}
			pending = pending[size:]
			if !k.send(ev) || ev != nil {
				return
			}
		}
		if err != nil {
			k.send(err)
			return
		}
	}
}

// keyLen returns the length of the first key press in p, or 0 when p is
// empty or holds only the start of one.
func keyLen(p []byte) int {
	switch {
	case len(p) == 0:
		return 0
	case p[0] == 0x1b:
		return escapeLen(p)
	case p[0] < utf8.RuneSelf:
		return 1
	case !utf8.FullRune(p):
		return 0
	}
	_, size := utf8.DecodeRune(p)
	return size
}

// escapeLen measures a CSI (ESC [ ... final) or SS3 (ESC O x) sequence.
// Any other byte after ESC starts a new key.
func escapeLen(p []byte) int {
	if len(p) == 1 {
		return 1
	}
	switch p[1] {
	case '[':
		for i := 2; i < len(p); i++ {
			if p[i] >= 0x40 && p[i] <= 0x7e {
				return i + 1
			}
		}
		return 0
	case 'O':
		if len(p) < 3 {
			return 0
		}
		return 3
	}
	return 1
}

func (k *Keys) send(ev error) bool {
	select {
	case k.events <- ev:
		return true
	case <-k.done:
		return false
	}
}

func (k *Keys) Next(ctx context.Context) error {
	if k.err != nil {
		return k.err
	}
	select {
	case err := <-k.events:
		k.err = err
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close restores the terminal. Safe to call more than once.
func (k *Keys) Close() error {
	var err error
	k.once.Do(func() {
		close(k.done)
		err = term.Restore(k.fd, k.oldState)
	})
	return err
}
