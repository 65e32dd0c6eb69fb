package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog     zerolog.Logger
	diagFile    *os.File
	historyFile *os.File
	logMu       sync.Mutex
	logReady    bool
	pid         int
	dir         string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: KEYMAP_LOG_PATH environment variable
	envPath := os.Getenv("KEYMAP_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	historyPath := filepath.Join(dir, "timeline_log.txt")
	historyFile, err = os.OpenFile(historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05.000",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if historyFile != nil {
		historyFile.Close()
		historyFile = nil
	}
	logReady = false
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(sample, output string, words int, duration time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("sample", sample).
		Str("output", output).
		Int("words", words).
		Dur("duration", duration).
		Msg("session_start")
}

func Tap(n int, word string, ts int64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("n", n).
		Str("word", word).
		Int64("ts", ts).
		Msg("tap")
}

func SessionEnd(count int, elapsed time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("count", count).
		Dur("elapsed", elapsed).
		Msg("session_end")
}

// TimelineText appends a finished run to timeline_log.txt so earlier takes
// survive output.txt being overwritten.
func TimelineText(sample string, data []byte) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	header := fmt.Sprintf("# %s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, sample)
	if _, err := historyFile.WriteString(header); err != nil {
		diagLog.Error().Err(err).Msg("timeline_log write failed")
		return
	}
	if _, err := historyFile.Write(data); err != nil {
		diagLog.Error().Err(err).Msg("timeline_log write failed")
	}
}
