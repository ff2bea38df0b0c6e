package commands

import (
	"context"
	"log/slog"

	"sscd/contexts/identity-access/client-self-service/ports"
)

// publishAdminEvent emits an audit event for a completed mutation. Audit
// delivery is best-effort and never fails the operation, but a publish
// failure must surface in the logs rather than vanish.
func publishAdminEvent(ctx context.Context, audit ports.AuditPublisher, logger *slog.Logger, event ports.AdminEvent) {
	if audit == nil {
		return
	}
	if err := audit.PublishAdminEvent(ctx, event); err != nil {
		logger.Warn("admin event publish failed",
			"event", "ssc_audit_publish_failed",
			"module", "identity-access/client-self-service",
			"layer", "application",
			"operation", event.Operation,
			"client_id", event.ExternalClientID,
			"error", err.Error(),
		)
	}
}
