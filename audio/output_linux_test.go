//go:build linux

package audio

import (
	"errors"
	"testing"

	"github.com/jfreymuth/pulse"
)

func TestSinkOptionDefault(t *testing.T) {
	called := false
	opt, err := sinkOption(func(string) (*pulse.Sink, error) {
		called = true
		return nil, nil
	}, nil)
	if err != nil || opt != nil || called {
		t.Errorf("nil device: option set=%v err=%v lookup called=%v", opt != nil, err, called)
	}
}

func TestSinkOptionMissingSink(t *testing.T) {
	missing := errors.New("no such entity")
	_, err := sinkOption(func(id string) (*pulse.Sink, error) {
		if id != "alsa_output.usb" {
			t.Errorf("looked up %q", id)
		}
		return nil, missing
	}, &DeviceInfo{ID: "alsa_output.usb", Name: "USB DAC"})
	if !errors.Is(err, missing) {
		t.Fatalf("expected the lookup error, got %v", err)
	}
}

func TestSinkOptionFound(t *testing.T) {
	opt, err := sinkOption(func(string) (*pulse.Sink, error) {
		return &pulse.Sink{}, nil
	}, &DeviceInfo{ID: "alsa_output.usb"})
	if err != nil || opt == nil {
		t.Errorf("option set=%v err=%v, want a sink option", opt != nil, err)
	}
}
