package events

import (
	"context"
	"log/slog"

	"sscd/contexts/identity-access/client-self-service/ports"
	sharedevents "sscd/internal/shared/events"

	"github.com/google/uuid"
)

// AdminEventsTopic carries the audit trail of self-service client mutations.
const AdminEventsTopic = "identity-access.client-self-service.admin-events"

// Bus is the minimal publishing surface of the platform event bus.
type Bus interface {
	Publish(ctx context.Context, topic string, event sharedevents.Envelope) error
}

// Publisher emits admin audit events onto the shared bus.
type Publisher struct {
	bus    Bus
	logger *slog.Logger
}

func NewPublisher(bus Bus, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{bus: bus, logger: logger}
}

func (p *Publisher) PublishAdminEvent(ctx context.Context, event ports.AdminEvent) error {
	envelope := sharedevents.Envelope{
		EventID:        uuid.NewString(),
		EventType:      "client." + event.Operation,
		SourceService:  "identity-access/client-self-service",
		OccurredAtUTC:  event.OccurredAt.UTC(),
		EntityType:     "managed-client",
		EntityID:       event.ClientID,
		PayloadVersion: 1,
		Payload:        event,
	}
	if err := p.bus.Publish(ctx, AdminEventsTopic, envelope); err != nil {
		return err
	}
	p.logger.Info("admin event published",
		"event", "ssc_admin_event_published",
		"module", "identity-access/client-self-service",
		"layer", "adapter",
		"operation", event.Operation,
		"client_id", event.ClientID,
		"external_client_id", event.ExternalClientID,
		"user_id", event.UserID,
	)
	return nil
}
