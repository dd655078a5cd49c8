// Package pedal contains pure press-classification logic for the footswitch.
// This package has NO external dependencies (no GPIO, serial, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package pedal

import "time"

// Contact represents the debounced contact state of one pedal.
type Contact string

const (
	ContactPressed  Contact = "PRESSED"
	ContactReleased Contact = "RELEASED"
)

// ID identifies one of the two pedals.
type ID int

const (
	Pedal1 ID = 1
	Pedal2 ID = 2
)

// Kind classifies a completed press.
type Kind string

const (
	KindShort Kind = "SHORT"
	KindLong  Kind = "LONG"
)

// Event represents a classified press to be emitted on the wire.
// Exactly one event fires per physical press: short on release if the
// long threshold was never reached, long while still held otherwise.
type Event struct {
	Timestamp time.Time
	Pedal     ID
	Kind      Kind
}

// ButtonState tracks debounce and press-tracking state for a single pedal.
type ButtonState struct {
	// Current stable (debounced) contact state
	Stable Contact
	// Pending contact state during debounce ("" = none)
	Pending Contact
	// Time when pending state was first observed
	PendingSince time.Time
	// Whether we have established a baseline
	Baselined bool
	// Whether a press is currently in progress
	Pressed bool
	// Time the current press became stable
	PressStart time.Time
	// Whether the long-press event already fired for the current press
	LongSignaled bool
}

// Sample is a single reading of both pedals (already in logical form).
type Sample struct {
	Pedal1 bool // true = contact closed
	Pedal2 bool
	Time   time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Short1 int
	Long1  int
	Short2 int
	Long2  int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

func boolToContact(pressed bool) Contact {
	if pressed {
		return ContactPressed
	}
	return ContactReleased
}
