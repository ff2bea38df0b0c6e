package commands

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// RegenerateSecretUseCase rotates a managed client's credential and returns
// the refreshed representation.
type RegenerateSecretUseCase struct {
	Clients ports.ClientDirectory
	Users   ports.IdentityDirectory
	Audit   ports.AuditPublisher
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (u RegenerateSecretUseCase) Execute(ctx context.Context, principal ports.Principal, id string) (application.ManagedClientView, error) {
	logger := application.ResolveLogger(u.Logger)
	var none application.ManagedClientView

	client, err := application.LoadOwnedClient(ctx, u.Clients, principal, id)
	if err != nil {
		return none, err
	}

	rotated, err := u.Clients.RotateSecret(ctx, client.ID)
	if err != nil {
		return none, err
	}

	publishAdminEvent(ctx, u.Audit, logger, ports.AdminEvent{
		Operation:        ports.AdminOperationRotateSecret,
		UserID:           principal.User.ID,
		ClientID:         rotated.ID,
		ExternalClientID: rotated.ClientID,
		OccurredAt:       u.Clock.Now(),
	})

	logger.Info("managed client secret rotated",
		"event", "ssc_client_secret_rotated",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"client_id", rotated.ClientID,
		"user_id", principal.User.ID,
	)
	return application.NewManagedClientView(ctx, u.Users, rotated), nil
}
