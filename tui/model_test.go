package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"keymap/audio"
	"keymap/input"
)

func newTestModel(words ...string) (model, chan error) {
	events := make(chan error, 8)
	return model{words: words, events: events}, events
}

func TestKeyPressIsEvent(t *testing.T) {
	m, events := newTestModel("black", "then")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd != nil {
		t.Error("plain key press should not return a command")
	}
	select {
	case err := <-events:
		if err != nil {
			t.Fatalf("event = %v, want nil", err)
		}
	default:
		t.Fatal("no event sent for key press")
	}
	if updated.(model).next != 0 {
		t.Error("word index moved before the tap was recorded")
	}
}

func TestCtrlCInterrupts(t *testing.T) {
	m, events := newTestModel("black")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	select {
	case err := <-events:
		if !errors.Is(err, input.ErrInterrupted) {
			t.Fatalf("event = %v, want ErrInterrupted", err)
		}
	default:
		t.Fatal("no interrupt sent")
	}
}

func TestTapAdvancesWords(t *testing.T) {
	m, _ := newTestModel("black", "then")

	var tm tea.Model = m
	tm, _ = tm.Update(tapMsg{n: 1, word: "black"})
	if !strings.Contains(tm.View(), "then") {
		t.Errorf("view should show next word:\n%s", tm.View())
	}
	tm, _ = tm.Update(tapMsg{n: 2, word: "then"})
	tm, _ = tm.Update(tapMsg{n: 3, word: ""})

	got := tm.(model)
	if got.next != 2 {
		t.Errorf("next = %d, want 2", got.next)
	}
	if got.taps != 3 {
		t.Errorf("taps = %d, want 3", got.taps)
	}
	if !strings.Contains(tm.View(), "all words placed") {
		t.Errorf("view should report exhausted words:\n%s", tm.View())
	}
}

func TestViewShowsProgress(t *testing.T) {
	m, _ := newTestModel("black")
	out := audio.NewFakeOutput()
	h, err := out.Open(&audio.Sample{SampleRate: 1000, Channels: 1, PCM: make([]int16, 2000)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	out.Last().Advance(500)

	var tm tea.Model = m
	tm, _ = tm.Update(startedMsg{handle: h})
	view := tm.View()
	if !strings.Contains(view, "0.5s / 2.0s") {
		t.Errorf("view missing progress:\n%s", view)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		pos, dur time.Duration
		filled   int
	}{
		{0, time.Second, 0},
		{500 * time.Millisecond, time.Second, 5},
		{time.Second, time.Second, 10},
		{0, 0, 0},
	}
	for _, tt := range tests {
		bar := renderBar(tt.pos, tt.dur, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("renderBar(%v, %v) filled %d, want %d", tt.pos, tt.dur, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("renderBar(%v, %v) width %d, want 10", tt.pos, tt.dur, got)
		}
	}
}

func TestCloseBeforeStart(t *testing.T) {
	s := New([]string{"black"})
	done := make(chan error, 1)
	go func() { done <- s.Close() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a program that never started")
	}
}
