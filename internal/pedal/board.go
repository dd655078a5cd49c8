package pedal

import "time"

// Board advances both pedal classifiers in sequence from one shared sample.
// The two classifiers share nothing but the clock carried in each Sample.
type Board struct {
	p1            *Classifier
	p2            *Classifier
	startTime     time.Time
	counts        EventCounts
	lastHeartbeat time.Time
}

// NewBoard creates classifiers for both pedals with the given debounce
// interval and long-press threshold. The startTime is used for calculating
// uptime in heartbeat events.
func NewBoard(debounce, longThreshold time.Duration, startTime time.Time) *Board {
	return &Board{
		p1:            NewClassifier(Pedal1, debounce, longThreshold),
		p2:            NewClassifier(Pedal2, debounce, longThreshold),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process feeds one sample to both classifiers and returns any events,
// pedal 1 first if both fire on the same tick.
func (b *Board) Process(s Sample) []Event {
	events := b.p1.Process(s.Pedal1, s.Time)
	events = append(events, b.p2.Process(s.Pedal2, s.Time)...)

	for _, e := range events {
		switch {
		case e.Pedal == Pedal1 && e.Kind == KindShort:
			b.counts.Short1++
		case e.Pedal == Pedal1 && e.Kind == KindLong:
			b.counts.Long1++
		case e.Pedal == Pedal2 && e.Kind == KindShort:
			b.counts.Short2++
		case e.Pedal == Pedal2 && e.Kind == KindLong:
			b.counts.Long2++
		}
	}

	return events
}

// IsBaselined returns whether both classifiers have established a baseline.
func (b *Board) IsBaselined() bool {
	return b.p1.IsBaselined() && b.p2.IsBaselined()
}

// CurrentState returns the current stable contact states.
func (b *Board) CurrentState() (p1, p2 Contact) {
	return b.p1.Stable(), b.p2.Stable()
}

// Counts returns a copy of the per-event counters.
func (b *Board) Counts() EventCounts {
	return b.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if not yet baselined, if the
// interval has not elapsed, or if interval is <= 0 (disabled).
func (b *Board) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if !b.IsBaselined() {
		return nil
	}

	if now.Sub(b.lastHeartbeat) < interval {
		return nil
	}

	b.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(b.startTime),
		Counts:    b.counts,
	}
}
