package domain

import "time"

const (
	PresenceOnline  = "user:online"
	PresenceOffline = "user:offline"
)

// PresenceEvent is broadcast to connected sessions when an account logs in or out.
type PresenceEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"event"`
	AccountID string    `json:"accountId"`
	FullName  string    `json:"fullName,omitempty"`
	At        time.Time `json:"at"`
}
