package models

import "time"

// Threshold is a configured trigger level. Creation-only: thresholds are
// never updated or deleted, newer ones simply supersede older ones.
type Threshold struct {
	ID        string    `json:"id"`
	Value     float64   `json:"value"` // °C
	CreatedAt time.Time `json:"created_at"`
}
