package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keymap/audio"
	"keymap/input"
	"keymap/session"
)

// writeSilence writes a silent 16-bit mono WAV at 1 kHz.
func writeSilence(t *testing.T, path string, frames int) {
	t.Helper()
	const headerSize = 44
	dataSize := frames * 2

	buf := make([]byte, headerSize+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(headerSize-8+dataSize))
	copy(buf[8:16], "WAVEfmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], 1000)
	binary.LittleEndian.PutUint32(buf[28:32], 2000)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
}

type playFixture struct {
	runner *session.Runner
	out    *audio.FakeOutput
	in     *input.Fake
	stdout bytes.Buffer
	stderr bytes.Buffer
	o      options
}

func newPlayFixture(t *testing.T, withSample bool, words ...string) *playFixture {
	t.Helper()
	dir := t.TempDir()
	cfg := session.Config{
		SamplePath: filepath.Join(dir, "sample.wav"),
		OutputPath: filepath.Join(dir, "output.txt"),
		Words:      words,
	}
	if withSample {
		writeSilence(t, cfg.SamplePath, 1000)
	}
	f := &playFixture{out: audio.NewFakeOutput(), in: input.NewFake(16), o: options{cfg: cfg}}
	f.runner = session.New(cfg, f.out, f.in)
	f.in.OnNext = func(n int) {
		if n == len(words) {
			f.out.Last().Finish()
		}
	}
	for range words {
		f.in.Press()
	}
	return f
}

func (f *playFixture) play() error {
	_, err := play(context.Background(), f.runner, f.o, &f.stdout, &f.stderr)
	return err
}

func TestPlayMissingSamplePrintsNothing(t *testing.T) {
	f := newPlayFixture(t, false, "black")
	f.o.raw = true

	err := f.play()
	var pe *session.PlaybackError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PlaybackError, got %v", err)
	}
	if f.stdout.Len() != 0 || f.stderr.Len() != 0 {
		t.Errorf("printed before the sample decoded: stdout=%q stderr=%q", f.stdout.String(), f.stderr.String())
	}
	if !f.in.Closed() {
		t.Error("input not closed after a failed run")
	}
	if _, err := os.Stat(f.o.cfg.OutputPath); !os.IsNotExist(err) {
		t.Errorf("output file exists after failed run: %v", err)
	}
}

func TestPlayHeldEcho(t *testing.T) {
	f := newPlayFixture(t, true, "black", "then")
	f.o.raw = true

	if err := f.play(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(f.o.cfg.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if f.stdout.String() != string(data) {
		t.Errorf("stdout %q != file %q", f.stdout.String(), data)
	}
	if !strings.HasPrefix(f.stderr.String(), "Playing ") || !strings.Contains(f.stderr.String(), "press any key") {
		t.Errorf("banner = %q", f.stderr.String())
	}
	if !f.in.Closed() {
		t.Error("input not closed")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPlayHeldEchoFailure(t *testing.T) {
	f := newPlayFixture(t, true, "black")
	f.o.raw = true

	_, err := play(context.Background(), f.runner, f.o, failWriter{}, &f.stderr)
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected echo failure, got %v", err)
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if o.cfg.SamplePath != "sample.wav" || o.cfg.OutputPath != "output.txt" {
		t.Errorf("paths = %q, %q", o.cfg.SamplePath, o.cfg.OutputPath)
	}
	if got := strings.Join(o.cfg.Words, " "); got != "black then white are all I see" {
		t.Errorf("words = %q", got)
	}
	if o.tui || o.raw || o.click || o.copy {
		t.Errorf("unexpected mode flags set: %+v", o)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	o, err := parseFlags([]string{"-sample", "song.flac", "-out", "taps.txt", "-words", "one, two,,three", "-raw"})
	if err != nil {
		t.Fatal(err)
	}
	if o.cfg.SamplePath != "song.flac" || o.cfg.OutputPath != "taps.txt" {
		t.Errorf("paths = %q, %q", o.cfg.SamplePath, o.cfg.OutputPath)
	}
	if got := strings.Join(o.cfg.Words, "|"); got != "one|two|three" {
		t.Errorf("words = %q", got)
	}
	if !o.raw {
		t.Error("-raw not set")
	}
}

func TestParseFlagsEmptyWords(t *testing.T) {
	o, err := parseFlags([]string{"-words", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(o.cfg.Words) != 0 {
		t.Errorf("words = %v, want none", o.cfg.Words)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	tests := [][]string{
		{"-tui", "-raw"},
		{"extra"},
		{"-nope"},
	}
	for _, args := range tests {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%v) succeeded, want error", args)
		}
	}
}

func TestTapKey(t *testing.T) {
	if got := tapKey(options{}); got != "Enter" {
		t.Errorf("default tap key = %q", got)
	}
	if got := tapKey(options{raw: true}); got != "any key" {
		t.Errorf("raw tap key = %q", got)
	}
}
