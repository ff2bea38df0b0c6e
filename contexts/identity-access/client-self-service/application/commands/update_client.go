package commands

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// UpdateClientUseCase rewrites a managed client's writable fields and
// replaces its manager set.
type UpdateClientUseCase struct {
	Clients  ports.ClientDirectory
	Users    ports.IdentityDirectory
	Managers ReplaceManagersUseCase
	Audit    ports.AuditPublisher
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u UpdateClientUseCase) Execute(ctx context.Context, principal ports.Principal, id string, spec ClientSpec) (application.ManagedClientView, error) {
	logger := application.ResolveLogger(u.Logger)
	var none application.ManagedClientView

	client, err := application.LoadOwnedClient(ctx, u.Clients, principal, id)
	if err != nil {
		return none, err
	}

	// Renaming the external client id is disallowed for managed clients: an
	// admin-granted capability on the old name must not silently follow a
	// new one.
	if spec.ClientID != "" && spec.ClientID != client.ClientID {
		return none, domainerrors.Validationf("Client ID must not change")
	}

	managers, err := u.Managers.ResolveUsernames(ctx, spec.Managers)
	if err != nil {
		return none, err
	}
	if err := validateManagerSet(managers, principal.User); err != nil {
		return none, err
	}

	updated := client
	updated.Attributes = cloneAttributes(client.Attributes)
	spec.applyTo(&updated)

	// Managers cannot toggle service accounts, and authorization services
	// cannot stay enabled once the preconditions (a confidential client)
	// are gone.
	updated.ServiceAccountsEnabled = client.ServiceAccountsEnabled
	if updated.BearerOnly || updated.PublicClient {
		updated.AuthorizationServicesEnabled = false
	}

	if err := u.Clients.ValidateClient(ctx, updated); err != nil {
		return none, err
	}

	persisted, err := u.Clients.UpdateClient(ctx, updated)
	if err != nil {
		return none, err
	}

	persisted, err = u.Managers.Execute(ctx, persisted, managers, principal.User)
	if err != nil {
		return none, err
	}

	publishAdminEvent(ctx, u.Audit, logger, ports.AdminEvent{
		Operation:        ports.AdminOperationUpdate,
		UserID:           principal.User.ID,
		ClientID:         persisted.ID,
		ExternalClientID: persisted.ClientID,
		OccurredAt:       u.Clock.Now(),
	})

	logger.Info("managed client updated",
		"event", "ssc_client_updated",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"client_id", persisted.ClientID,
		"user_id", principal.User.ID,
	)
	return application.NewManagedClientView(ctx, u.Users, persisted), nil
}

func cloneAttributes(attributes map[string]string) map[string]string {
	clone := make(map[string]string, len(attributes))
	for key, value := range attributes {
		clone[key] = value
	}
	return clone
}
