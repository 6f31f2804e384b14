package models

import "time"

// TriggeredReading is the append-only record of a threshold crossing.
// ThresholdValue is an audit copy of the crossed threshold's value at
// evaluation time, not a reference into the thresholds table.
type TriggeredReading struct {
	ID             string    `json:"id"`
	Temperature    float64   `json:"temperature"`     // °C
	ThresholdValue float64   `json:"threshold_value"` // °C
	RecordedAt     time.Time `json:"recorded_at"`
}
