package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{Pedal1: true, Pedal2: false},
		{Pedal1: false, Pedal2: true},
		{Pedal1: true, Pedal2: true},
	}

	f := NewFakeReader(samples)

	p1, p2, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != true || p2 != false {
		t.Errorf("sample 0: expected (true, false), got (%v, %v)", p1, p2)
	}

	p1, p2, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != false || p2 != true {
		t.Errorf("sample 1: expected (false, true), got (%v, %v)", p1, p2)
	}

	p1, p2, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != true || p2 != true {
		t.Errorf("sample 2: expected (true, true), got (%v, %v)", p1, p2)
	}

	// Further reads repeat the last sample
	p1, p2, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != true || p2 != true {
		t.Errorf("sample 3 (repeat): expected (true, true), got (%v, %v)", p1, p2)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Pedal1: true, Pedal2: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([]Sample{{Pedal1: true, Pedal2: true}})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	samples := []Sample{
		{Pedal1: true, Pedal2: false},
		{Pedal1: false, Pedal2: true},
	}

	f := NewFakeReader(samples)
	f.Read()
	f.Reset()

	p1, p2, _ := f.Read()
	if p1 != true || p2 != false {
		t.Errorf("after reset: expected (true, false), got (%v, %v)", p1, p2)
	}
}
