package pedal

import (
	"testing"
	"time"
)

// baselinedBoard returns a board with both pedals baselined RELEASED.
func baselinedBoard(t *testing.T, now time.Time) *Board {
	t.Helper()
	b := NewBoard(testDebounce, testLong, now)
	b.Process(Sample{Time: now})
	b.Process(Sample{Time: now.Add(testDebounce)})
	if !b.IsBaselined() {
		t.Fatal("board should be baselined")
	}
	return b
}

func TestBoardIndependentPedals(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := baselinedBoard(t, now)

	// Both pedals pressed and released together: two SHORT events,
	// pedal 1 ordered first.
	b.Process(Sample{Pedal1: true, Pedal2: true, Time: now.Add(100 * time.Millisecond)})
	events := b.Process(Sample{Pedal1: true, Pedal2: true, Time: now.Add(130 * time.Millisecond)})
	if len(events) != 0 {
		t.Errorf("expected no events on press, got %d", len(events))
	}

	b.Process(Sample{Time: now.Add(300 * time.Millisecond)})
	events = b.Process(Sample{Time: now.Add(330 * time.Millisecond)})
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Pedal != Pedal1 || events[0].Kind != KindShort {
		t.Errorf("event 0: expected pedal 1 SHORT, got pedal %d %s", events[0].Pedal, events[0].Kind)
	}
	if events[1].Pedal != Pedal2 || events[1].Kind != KindShort {
		t.Errorf("event 1: expected pedal 2 SHORT, got pedal %d %s", events[1].Pedal, events[1].Kind)
	}
}

func TestBoardCounts(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := baselinedBoard(t, now)

	// One short press on pedal 1
	b.Process(Sample{Pedal1: true, Time: now.Add(100 * time.Millisecond)})
	b.Process(Sample{Pedal1: true, Time: now.Add(130 * time.Millisecond)})
	b.Process(Sample{Time: now.Add(300 * time.Millisecond)})
	b.Process(Sample{Time: now.Add(330 * time.Millisecond)})

	// One long press on pedal 2
	b.Process(Sample{Pedal2: true, Time: now.Add(1000 * time.Millisecond)})
	b.Process(Sample{Pedal2: true, Time: now.Add(1030 * time.Millisecond)})
	b.Process(Sample{Pedal2: true, Time: now.Add(1900 * time.Millisecond)})

	counts := b.Counts()
	want := EventCounts{Short1: 1, Long2: 1}
	if counts != want {
		t.Errorf("counts: got %+v, want %+v", counts, want)
	}
}

func TestBoardHeartbeat(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := baselinedBoard(t, now)
	interval := time.Minute

	if hb := b.CheckHeartbeat(now.Add(30*time.Second), interval); hb != nil {
		t.Error("expected no heartbeat before interval")
	}

	hb := b.CheckHeartbeat(now.Add(time.Minute), interval)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if hb.Uptime != time.Minute {
		t.Errorf("expected uptime 1m, got %v", hb.Uptime)
	}

	// Interval restarts from the last heartbeat
	if hb := b.CheckHeartbeat(now.Add(90*time.Second), interval); hb != nil {
		t.Error("expected no heartbeat 30s after the last one")
	}
	if hb := b.CheckHeartbeat(now.Add(2*time.Minute), interval); hb == nil {
		t.Error("expected heartbeat 1m after the last one")
	}
}

func TestBoardHeartbeatDisabled(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := baselinedBoard(t, now)

	if hb := b.CheckHeartbeat(now.Add(time.Hour), 0); hb != nil {
		t.Error("expected no heartbeat when disabled")
	}
}

func TestBoardHeartbeatRequiresBaseline(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewBoard(testDebounce, testLong, now)

	if hb := b.CheckHeartbeat(now.Add(time.Hour), time.Minute); hb != nil {
		t.Error("expected no heartbeat before baseline")
	}
}
