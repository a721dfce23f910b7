// Package telemetry publishes lamp lifecycle and mode-change events over
// MQTT, with abstraction for testing. Telemetry is best-effort: failures are
// logged by callers and never affect rendering or sync.
package telemetry

import (
	"encoding/json"
	"time"

	"github.com/sweeney/halo-lamp/internal/lamp"
)

// Topic is the MQTT topic for lamp mode events.
const Topic = "home/halo/lamp/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/halo/lamp/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishMode sends a mode transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishMode(event ModeEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ModeEvent represents one mode transition of the lamp.
type ModeEvent struct {
	Timestamp  time.Time
	From       lamp.Mode
	To         lamp.Mode
	ColorIndex int
	Brightness uint8
	Code       string // current claimed flicker code, wire form
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for mode events.
type Payload struct {
	Lamp LampPayload `json:"lamp"`
}

// LampPayload contains the mode event details.
type LampPayload struct {
	Timestamp  string `json:"timestamp"`
	From       string `json:"from"`
	To         string `json:"to"`
	ColorIndex int    `json:"color_index"`
	Brightness uint8  `json:"brightness"`
	Code       string `json:"code,omitempty"`
}

// FormatModePayload creates the JSON payload for a mode event.
func FormatModePayload(event ModeEvent) ([]byte, error) {
	payload := Payload{
		Lamp: LampPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			From:       string(event.From),
			To:         string(event.To),
			ColorIndex: event.ColorIndex,
			Brightness: event.Brightness,
			Code:       event.Code,
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
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishMode(ModeEvent) error     { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NopPublisher) Close() error                    { return nil }
func (NopPublisher) IsConnected() bool               { return false }
