package timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEntryLine(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{"black", 1700000000123}, `"black",1700000000123`},
		{Entry{"I", 5}, `"I",5`},
		{Entry{"", 42}, `"",42`},
		{Entry{`say "hi"`, 7}, `"say "hi"",7`},
	}
	for _, tt := range tests {
		if got := tt.entry.Line(); got != tt.want {
			t.Errorf("Line(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestNewEntryMillis(t *testing.T) {
	at := time.UnixMilli(1700000000999).Add(500 * time.Microsecond)
	e := NewEntry("see", at)
	if e.Timestamp != 1700000000999 {
		t.Errorf("Timestamp = %d, want 1700000000999", e.Timestamp)
	}
}

func TestTimelineBytes(t *testing.T) {
	var tl Timeline
	tl.Append(Entry{"black", 1})
	tl.Append(Entry{"then", 2})
	tl.Append(Entry{"", 3})

	want := "\"black\",1\n\"then\",2\n\"\",3\n"
	if got := string(tl.Bytes()); got != want {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
	if tl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tl.Len())
	}
}

func TestTimelineEmpty(t *testing.T) {
	var tl Timeline
	if len(tl.Bytes()) != 0 {
		t.Errorf("empty timeline serialized to %q", tl.Bytes())
	}
}

func TestEntriesIsCopy(t *testing.T) {
	var tl Timeline
	tl.Append(Entry{"black", 1})
	got := tl.Entries()
	got[0].Word = "white"
	if tl.Entries()[0].Word != "black" {
		t.Error("mutating Entries() result changed the timeline")
	}
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("\"black\",1\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "\"black\",1\n" {
		t.Errorf("file = %q", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only output.txt in dir, found %d entries", len(entries))
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "output.txt")
	if err := WriteFile(path, []byte("x")); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file should not exist, stat err = %v", err)
	}
}
