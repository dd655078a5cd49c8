// Package mqtt publishes footswitch telemetry with abstraction for testing.
// The broker is an observer only: the serial link to the host carries the
// control path, MQTT just mirrors it for monitoring.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

// Topic is the MQTT topic for pedal press events.
const Topic = "lab/footswitch/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "lab/footswitch/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a pedal press event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event pedal.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Uptime    time.Duration
	Counts    *pedal.EventCounts
	Retained  bool // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Footswitch PressPayload `json:"footswitch"`
}

// PressPayload contains the pedal event details.
type PressPayload struct {
	Timestamp string `json:"timestamp"`
	Pedal     int    `json:"pedal"`
	Press     string `json:"press"`
	Symbol    string `json:"symbol"`
}

// FormatPayload creates the JSON payload for a pedal press event.
func FormatPayload(event pedal.Event) ([]byte, error) {
	payload := Payload{
		Footswitch: PressPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Pedal:     int(event.Pedal),
			Press:     string(event.Kind),
			Symbol:    wire.SymbolFor(event).Token(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp     string      `json:"timestamp"`
	Event         string      `json:"event"`
	Reason        string      `json:"reason,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds,omitempty"`
	Counts        *CountsJSON `json:"press_counts,omitempty"`
}

// CountsJSON is the JSON representation of press counts.
type CountsJSON struct {
	Short1 int `json:"b1_short"`
	Long1  int `json:"b1_long"`
	Short2 int `json:"b2_short"`
	Long2  int `json:"b2_long"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	inner := SystemPayloadInner{
		Timestamp:     event.Timestamp.UTC().Format(time.RFC3339),
		Event:         event.Event,
		Reason:        event.Reason,
		UptimeSeconds: int64(event.Uptime.Truncate(time.Second).Seconds()),
	}
	if event.Counts != nil {
		inner.Counts = &CountsJSON{
			Short1: event.Counts.Short1,
			Long1:  event.Counts.Long1,
			Short2: event.Counts.Short2,
			Long2:  event.Counts.Long2,
		}
	}
	return json.Marshal(SystemPayload{System: inner})
}
