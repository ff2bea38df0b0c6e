package commands

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// DeleteClientUseCase removes a managed client. No ACL-specific logic beyond
// the ownership re-check; the markers die with the record.
type DeleteClientUseCase struct {
	Clients ports.ClientDirectory
	Audit   ports.AuditPublisher
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (u DeleteClientUseCase) Execute(ctx context.Context, principal ports.Principal, id string) error {
	logger := application.ResolveLogger(u.Logger)

	client, err := application.LoadOwnedClient(ctx, u.Clients, principal, id)
	if err != nil {
		return err
	}
	if err := u.Clients.DeleteClient(ctx, client.ID); err != nil {
		return err
	}

	publishAdminEvent(ctx, u.Audit, logger, ports.AdminEvent{
		Operation:        ports.AdminOperationDelete,
		UserID:           principal.User.ID,
		ClientID:         client.ID,
		ExternalClientID: client.ClientID,
		OccurredAt:       u.Clock.Now(),
	})

	logger.Info("managed client deleted",
		"event", "ssc_client_deleted",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"client_id", client.ClientID,
		"user_id", principal.User.ID,
	)
	return nil
}
