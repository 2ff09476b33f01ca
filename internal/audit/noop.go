package audit

import (
	"context"
	"log/slog"
)

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{
		logger: slog.Default().With("component", "noop_audit_publisher"),
	}
}

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.DebugContext(ctx, "Audit event (noop)", "kind", event.Kind, "user_id", event.UserID)
	return nil
}

var _ Publisher = (*NoopPublisher)(nil)
