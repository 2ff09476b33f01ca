// Package audit publishes committed mutations and failures for consumers
// outside the process (mail workers, activity feeds).
package audit

import (
	"context"
	"time"
)

type Event struct {
	Kind       string    `json:"kind"`
	UserID     string    `json:"user_id"`
	SubjectID  string    `json:"subject_id,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
