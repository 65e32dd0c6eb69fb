package audio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// picker is the state of the interactive output list.
type picker struct {
	devices []DeviceInfo
	cursor  int
}

func newPicker(devices []DeviceInfo) *picker {
	p := &picker{devices: devices}
	for i, d := range devices {
		if d.Default {
			p.cursor = i
			break
		}
	}
	return p
}

// label describes a device the way the list shows it: name, native rate
// when the backend reports one, and warnings that affect tap timing.
func label(d DeviceInfo) string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.SampleRate > 0 {
		fmt.Fprintf(&b, " (%d Hz)", d.SampleRate)
	}
	if d.Default {
		b.WriteString(" [default]")
	}
	if IsBluetooth(d.Name) {
		b.WriteString(" \x1b[33m[⚠ adds playback latency]\x1b[0m")
	}
	return b.String()
}

func (p *picker) render(w io.Writer) {
	fmt.Fprint(w, "\r\x1b[J")
	fmt.Fprint(w, "Play through (↑/↓, Enter to confirm):\r\n\r\n")
	for i, d := range p.devices {
		if i == p.cursor {
			fmt.Fprintf(w, "  \x1b[1;36m▶ %s\x1b[0m\r\n", label(d))
		} else {
			fmt.Fprintf(w, "    %s\r\n", label(d))
		}
	}
}

// lines is how far render moves the cursor down.
func (p *picker) lines() int { return len(p.devices) + 2 }

type pickAction int

const (
	pickMove pickAction = iota
	pickDone
	pickCancel
)

// key applies one read from the terminal.
func (p *picker) key(b []byte) pickAction {
	switch string(b) {
	case "\r", "\n":
		return pickDone
	case "\x03", "\x1b":
		return pickCancel
	case "k", "\x1b[A", "\x1bOA":
		p.cursor = max(p.cursor-1, 0)
	case "j", "\x1b[B", "\x1bOB":
		p.cursor = min(p.cursor+1, len(p.devices)-1)
	}
	return pickMove
}

// SelectDevice lets the user pick an output device on the terminal. With a
// single device it returns that device without prompting.
func SelectDevice(out Output) (*DeviceInfo, error) {
	devices, err := out.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no output devices found")
	case 1:
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	p := newPicker(devices)
	p.render(os.Stdout)

	buf := make([]byte, 8)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		switch p.key(buf[:n]) {
		case pickDone:
			fmt.Print("\r\n")
			return &p.devices[p.cursor], nil
		case pickCancel:
			fmt.Print("\r\n")
			return nil, fmt.Errorf("device selection cancelled")
		}
		fmt.Printf("\x1b[%dA", p.lines())
		p.render(os.Stdout)
	}
}

// FindDevice returns the device called name, or nil when it is absent.
func FindDevice(out Output, name string) (*DeviceInfo, error) {
	devices, err := out.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	for i := range devices {
		if devices[i].Name == name {
			return &devices[i], nil
		}
	}
	return nil, nil
}
