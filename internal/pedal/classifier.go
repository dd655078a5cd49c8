package pedal

import "time"

// Classifier turns raw samples for one pedal into short/long press events.
type Classifier struct {
	debounce      time.Duration
	longThreshold time.Duration
	pedal         ID
	state         ButtonState
}

// NewClassifier creates a classifier for the given pedal with the given
// debounce interval and long-press threshold.
func NewClassifier(pedal ID, debounce, longThreshold time.Duration) *Classifier {
	return &Classifier{
		debounce:      debounce,
		longThreshold: longThreshold,
		pedal:         pedal,
	}
}

// Process takes a new raw reading and returns any events that should be
// emitted. At most one event is returned per call; a physical press yields
// exactly one event in total (short or long, never both).
func (c *Classifier) Process(pressed bool, now time.Time) []Event {
	contact := boolToContact(pressed)

	var events []Event

	if transitioned := c.debounceContact(contact, now); transitioned {
		switch c.state.Stable {
		case ContactPressed:
			// Press begins. The event is decided later: short on release,
			// long once the threshold elapses.
			c.state.Pressed = true
			c.state.PressStart = now
			c.state.LongSignaled = false

		case ContactReleased:
			if c.state.Pressed && !c.state.LongSignaled {
				events = append(events, Event{Timestamp: now, Pedal: c.pedal, Kind: KindShort})
			}
			// Release after a long press is consumed silently.
			c.state.Pressed = false
		}
	}

	// Long-press detection runs on every tick, independent of edges.
	if c.state.Pressed && !c.state.LongSignaled && now.Sub(c.state.PressStart) >= c.longThreshold {
		c.state.LongSignaled = true
		events = append(events, Event{Timestamp: now, Pedal: c.pedal, Kind: KindLong})
	}

	return events
}

// debounceContact handles debounce logic for the pedal's contact.
// Returns true if the stable state changed on this tick.
func (c *Classifier) debounceContact(contact Contact, now time.Time) bool {
	s := &c.state

	// First samples: establish a baseline before reporting transitions.
	if !s.Baselined {
		if s.Pending == "" || s.Pending != contact {
			// Start (or restart) observing
			s.Pending = contact
			s.PendingSince = now
			return false
		}

		if now.Sub(s.PendingSince) >= c.debounce {
			s.Stable = contact
			s.Baselined = true
			s.Pending = ""
		}
		return false
	}

	if contact == s.Stable {
		// No change from stable state, clear any pending
		s.Pending = ""
		return false
	}

	if s.Pending != contact {
		// New pending state, arm the debounce timer
		s.Pending = contact
		s.PendingSince = now
		return false
	}

	if now.Sub(s.PendingSince) >= c.debounce {
		s.Stable = contact
		s.Pending = ""
		return true
	}

	return false
}

// IsBaselined returns whether the classifier has established a baseline.
func (c *Classifier) IsBaselined() bool {
	return c.state.Baselined
}

// Stable returns the current debounced contact state.
func (c *Classifier) Stable() Contact {
	return c.state.Stable
}
