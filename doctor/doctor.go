package doctor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"keymap/audio"
	"keymap/clipboard"
	"keymap/input"
)

const previewLength = 2 * time.Second

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(samplePath string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("keymap doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	allPass := true

	sample, ok := checkSample(samplePath)
	if !ok {
		allPass = false
	}
	if allPass && !checkPlayback(sample) {
		allPass = false
	}
	if allPass && !checkKeys() {
		allPass = false
	}
	// Clipboard only matters for -copy; report it without failing the run.
	checkClipboard()

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkSample(path string) (*audio.Sample, bool) {
	fmt.Println()
	fmt.Println("[1/4] Sample file")

	s, err := audio.Load(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Printf("  FAIL: %s not found\n", path)
		case errors.Is(err, audio.ErrUnsupported):
			fmt.Printf("  FAIL: %v (need 16-bit PCM WAV or FLAC)\n", err)
		default:
			fmt.Printf("  FAIL: %v\n", err)
		}
		return nil, false
	}
	fmt.Printf("  PASS: %s, %d Hz, %d ch, %.1fs\n", path, s.SampleRate, s.Channels, s.Duration().Seconds())
	return s, true
}

// preview returns the first d of s.
func preview(s *audio.Sample, d time.Duration) *audio.Sample {
	n := int(uint64(d) * uint64(s.SampleRate) / uint64(time.Second) * uint64(s.Channels))
	if n > len(s.PCM) {
		n = len(s.PCM)
	}
	return &audio.Sample{
		Path:       s.Path,
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		PCM:        s.PCM[:n],
	}
}

func checkPlayback(s *audio.Sample) bool {
	fmt.Println()
	fmt.Println("[2/4] Audio output")

	out, err := audio.NewOutput()
	if err != nil {
		fmt.Printf("  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer out.Close()

	if devices, err := out.Devices(); err == nil {
		for _, d := range devices {
			tag := ""
			if audio.IsBluetooth(d.Name) {
				tag = " (Bluetooth: taps will lag what you hear)"
			}
			fmt.Printf("  device: %s%s\n", d.Name, tag)
		}
	}

	h, err := out.Open(preview(s, previewLength), nil)
	if err != nil {
		fmt.Printf("  FAIL: cannot open output: %v\n", err)
		return false
	}
	defer h.Close()

	fmt.Printf("  Playing the first %.0fs of the sample...\n", previewLength.Seconds())
	if err := h.Start(); err != nil {
		fmt.Printf("  FAIL: cannot start playback: %v\n", err)
		return false
	}
	deadline := time.Now().Add(h.Duration() + 2*time.Second)
	for h.Position() != h.Duration() && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if h.Position() != h.Duration() {
		fmt.Printf("  FAIL: playback stalled at %.1fs\n", h.Position().Seconds())
		return false
	}
	h.Stop()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Did you hear it? [y/n]: ")
	confirm, _ := reader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))
	if confirm != "y" && confirm != "yes" {
		fmt.Println("  FAIL: playback not confirmed")
		return false
	}
	fmt.Println("  PASS: playback verified by user")
	return true
}

func checkKeys() bool {
	fmt.Println()
	fmt.Println("[3/4] Key input (for -raw and -tui)")

	keys, err := input.NewKeys(os.Stdin)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Print("Press any key...\r\n")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = keys.Next(ctx)
	keys.Close()

	switch {
	case err == nil:
		fmt.Println("  PASS: key press detected")
		return true
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Println("  FAIL: timeout waiting for key press")
	default:
		fmt.Printf("  FAIL: %v\n", err)
	}
	return false
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[4/4] Clipboard (for -copy)")

	testStr := "keymap-doctor-test"
	if err := clipboard.Copy(testStr); err != nil {
		fmt.Printf("  WARN: clipboard copy failed: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  WARN: could not read clipboard: %v\n", err)
		return false
	}
	if got != testStr {
		fmt.Printf("  WARN: clipboard read back %q, want %q\n", got, testStr)
		return false
	}
	fmt.Println("  PASS: clipboard round trip")
	return true
}
