// Package notifications keeps the bounded, newest-first list of
// human-readable event records shown to the signed-in user.
package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskmaster.app/taskmaster/internal/identity"
	"taskmaster.app/taskmaster/internal/logger"
	model "taskmaster.app/taskmaster/pkg/models"
)

const (
	DefaultLimit    = 10
	TimestampLayout = "2006-01-02 15:04"
)

// Event kinds.
const (
	KindCreated   = "created"
	KindCompleted = "completed"
	KindReopened  = "reopened"
	KindPaused    = "paused"
	KindResumed   = "resumed"
	KindDeleted   = "deleted"
	KindUpdated   = "updated"
	KindRestored  = "restored"
	KindImported  = "imported"
	KindShared    = "shared"
	KindReordered = "reordered"
	KindReminder  = "reminder"
	KindProfile   = "profile"
	KindWelcome   = "welcome"
	KindError     = "error"
)

type Event struct {
	Kind      string
	SubjectID string
	Message   string
}

type Config struct {
	Limit       int
	DedupWindow time.Duration
}

type Log struct {
	mu      sync.Mutex
	records []model.Notification
	limit   int
	enabled bool
	scope   string
	keys    KeyTracker
	window  time.Duration
	now     func() time.Time
}

func NewLog(cfg Config, keys KeyTracker) *Log {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if keys == nil {
		keys = NewMemoryKeyTracker()
	}
	return &Log{
		limit:   cfg.Limit,
		enabled: true,
		keys:    keys,
		window:  cfg.DedupWindow,
		now:     time.Now,
	}
}

// SetEnabled mirrors the bound user's notifications preference.
func (l *Log) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *Log) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// SetScope namespaces idempotency keys, normally by user id.
func (l *Log) SetScope(scope string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scope = scope
}

// Append records event unless notifications are disabled or an event with
// the same kind and subject was appended inside the dedup window.
func (l *Log) Append(ctx context.Context, event Event) (model.Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return model.Notification{}, false
	}

	now := l.now()

	if l.window > 0 {
		subject := event.SubjectID
		if subject == "" {
			subject = event.Message
		}
		key := fmt.Sprintf("notify:%s:%s:%s:%d", l.scope, event.Kind, subject, now.UnixNano()/int64(l.window))

		fresh, err := l.keys.Claim(ctx, key, l.window)
		if err != nil {
			logger.WarnContext(ctx, "Notification dedup unavailable", "kind", event.Kind, "error", err)
		} else if !fresh {
			logger.Debug("Duplicate notification dropped", "kind", event.Kind, "subject_id", event.SubjectID)
			return model.Notification{}, false
		}
	}

	record := model.Notification{
		ID:        identity.GenerateID(),
		Kind:      event.Kind,
		Message:   event.Message,
		Timestamp: now.Local().Format(TimestampLayout),
		CreatedAt: now,
	}

	records := make([]model.Notification, 0, l.limit)
	records = append(records, record)
	for _, r := range l.records {
		if len(records) == l.limit {
			break
		}
		records = append(records, r)
	}
	l.records = records

	return record, true
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// List returns the records newest-first with duplicate ids collapsed.
func (l *Log) List() []model.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{}, len(l.records))
	out := make([]model.Notification, 0, len(l.records))
	for _, r := range l.records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
