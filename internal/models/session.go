package models

import "time"

// Session is an issued bearer token. The token itself is the key; the
// lifetime is fixed at issue time and never extended.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
