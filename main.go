package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"keymap/audio"
	"keymap/beep"
	"keymap/clipboard"
	"keymap/doctor"
	"keymap/input"
	"keymap/log"
	"keymap/session"
	"keymap/shutdown"
	"keymap/timeline"
	"keymap/tui"
)

var version = "dev"

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type options struct {
	cfg     session.Config
	logPath string
	device  string
	setup   bool
	tui     bool
	raw     bool
	click   bool
	copy    bool
	doctor  bool
	version bool
}

func parseFlags(args []string) (options, error) {
	def := session.DefaultConfig()
	var o options
	var words string

	fs := flag.NewFlagSet("keymap", flag.ContinueOnError)
	fs.StringVar(&o.cfg.SamplePath, "sample", def.SamplePath, "Audio sample to play (16-bit PCM WAV or FLAC)")
	fs.StringVar(&o.cfg.OutputPath, "out", def.OutputPath, "Timeline output file (overwritten)")
	fs.StringVar(&words, "words", strings.Join(def.Words, ","), "Comma-separated words, one per tap")
	fs.StringVar(&o.logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	fs.StringVar(&o.device, "device", "", "Use named output device")
	fs.BoolVar(&o.setup, "setup", false, "Select output device interactively")
	fs.BoolVar(&o.tui, "tui", false, "Show a terminal UI; any key is a tap")
	fs.BoolVar(&o.raw, "raw", false, "Any key is a tap (default: Enter is a tap)")
	fs.BoolVar(&o.click, "click", false, "Play a click on every tap")
	fs.BoolVar(&o.copy, "copy", false, "Copy the timeline to the clipboard when done")
	fs.BoolVar(&o.doctor, "doctor", false, "Run system diagnostics and exit")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.tui && o.raw {
		return o, fmt.Errorf("-tui and -raw are mutually exclusive")
	}
	o.cfg.Words = splitWords(words)
	return o, nil
}

func splitWords(s string) []string {
	var words []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func run(args []string) int {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	if o.version {
		fmt.Printf("keymap %s\n", version)
		return exitOK
	}
	if o.doctor {
		return doctor.Run(o.cfg.SamplePath)
	}

	logPath, err := log.ResolveDir(o.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return exitError
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	if crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
		crashFile.Close()
	}

	out, err := audio.NewOutput()
	if err != nil {
		log.Errorf("audio output init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", &session.PlaybackError{Path: o.cfg.SamplePath, Err: err})
		return exitError
	}
	defer out.Close()

	device, err := pickDevice(out, o)
	if err != nil {
		log.Warnf("device selection failed: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: %v, using system default\n", err)
	}

	if o.click {
		go beep.Init()
	} else {
		beep.Disable()
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	runner := session.New(o.cfg, out, nil)
	runner.Device = device

	var screen *tui.Source
	switch {
	case o.tui:
		screen = tui.New(o.cfg.Words, tea.WithAltScreen())
		runner.Input = screen
		runner.OnStart = func(h audio.Handle) {
			screen.Start()
			screen.Playing(h)
		}
	case o.raw:
		keys, err := input.NewKeys(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitError
		}
		runner.Input = keys
	default:
		runner.Input = input.NewLines(os.Stdin)
	}

	runner.OnTap = func(n int, e timeline.Entry) {
		beep.PlayTap()
		if screen != nil {
			screen.Tapped(n, e)
		}
	}

	tl, runErr := play(ctx, runner, o, os.Stdout, os.Stderr)
	if runErr != nil {
		return reportError(runErr)
	}

	if o.copy {
		if err := clipboard.Copy(string(tl.Bytes())); err != nil {
			log.Warnf("clipboard copy failed: %v", err)
			fmt.Fprintf(os.Stderr, "Warning: clipboard copy failed: %v\n", err)
		}
	}
	return exitOK
}

// play runs one session and then closes its input. Nothing reaches stdout
// or stderr before the sample has decoded and playback started. In -tui and
// -raw mode the echo is held until the terminal has been restored.
func play(ctx context.Context, r *session.Runner, o options, stdout, stderr io.Writer) (*timeline.Timeline, error) {
	onStart := r.OnStart
	r.OnStart = func(h audio.Handle) {
		if onStart != nil {
			onStart(h)
		}
		if !o.tui {
			fmt.Fprintf(stderr, "Playing %s; press %s at each word (%d words).\r\n",
				o.cfg.SamplePath, tapKey(o), len(o.cfg.Words))
		}
	}

	var held bytes.Buffer
	r.Stdout = stdout
	if o.tui || o.raw {
		r.Stdout = &held
	}

	tl, err := r.Run(ctx)
	if cerr := r.Input.Close(); cerr != nil {
		log.Warnf("closing input: %v", cerr)
	}
	if held.Len() > 0 {
		if _, werr := io.Copy(stdout, &held); werr != nil && err == nil {
			err = fmt.Errorf("echoing timeline: %w", werr)
		}
	}
	return tl, err
}

func tapKey(o options) string {
	if o.raw {
		return "any key"
	}
	return "Enter"
}

func pickDevice(out audio.Output, o options) (*audio.DeviceInfo, error) {
	switch {
	case o.device != "":
		dev, err := audio.FindDevice(out, o.device)
		if err != nil {
			return nil, err
		}
		if dev == nil {
			return nil, fmt.Errorf("device %q not found", o.device)
		}
		return dev, nil
	case o.setup:
		return audio.SelectDevice(out)
	}
	return nil, nil
}

func reportError(err error) int {
	log.Errorf("run failed: %v", err)
	fmt.Fprintf(os.Stderr, "\r\nError: %v\n", err)

	var ce *session.CaptureError
	if errors.As(err, &ce) && (errors.Is(err, input.ErrInterrupted) || errors.Is(err, context.Canceled)) {
		return exitInterrupted
	}
	return exitError
}
