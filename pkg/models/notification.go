package model

import "time"

// Notification is a rendered, user-facing event record.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}
