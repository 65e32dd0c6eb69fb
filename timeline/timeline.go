package timeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is one key press: the word it consumed (possibly empty) and the
// wall-clock time of the press in milliseconds since the Unix epoch.
type Entry struct {
	Word      string
	Timestamp int64
}

func NewEntry(word string, at time.Time) Entry {
	return Entry{Word: word, Timestamp: at.UnixMilli()}
}

// Line renders the entry as `"word",millis` without a trailing newline.
// The word is written exactly as captured, no escaping.
func (e Entry) Line() string {
	return `"` + e.Word + `",` + strconv.FormatInt(e.Timestamp, 10)
}

// Timeline holds entries in the order the presses were observed.
type Timeline struct {
	entries []Entry
}

func (t *Timeline) Append(e Entry) {
	t.entries = append(t.entries, e)
}

func (t *Timeline) Len() int {
	return len(t.entries)
}

// Entries returns a copy; callers cannot reorder the recorded presses.
func (t *Timeline) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Bytes serializes every entry on its own newline-terminated line.
func (t *Timeline) Bytes() []byte {
	var buf bytes.Buffer
	for _, e := range t.entries {
		buf.WriteString(e.Line())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile writes data to path through a temp file in the same directory
// and renames it into place, so path is either fully replaced or untouched.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
