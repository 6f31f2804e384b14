package models

import "time"

// TemperatureSample is a single value received from the broker feed.
// Samples are ephemeral: only the most recent one is retained in memory.
type TemperatureSample struct {
	Value      float64   `json:"temperature"` // °C
	ObservedAt time.Time `json:"observed_at"`
}

// Connection states of the telemetry subscriber.
const (
	StateDisconnected = "DISCONNECTED"
	StateConnecting   = "CONNECTING"
	StateConnected    = "CONNECTED"
	StateReconnecting = "RECONNECTING"
)

// TelemetrySnapshot is the consistent view the subscriber publishes to
// its readers: the last known sample (nil if none was ever received),
// the connection state and the most recent transport error.
type TelemetrySnapshot struct {
	Sample          *TemperatureSample `json:"sample,omitempty"`
	ConnectionState string             `json:"connection_state"`
	LastError       string             `json:"last_error,omitempty"`
	DroppedPayloads uint64             `json:"dropped_payloads,omitempty"`
}
