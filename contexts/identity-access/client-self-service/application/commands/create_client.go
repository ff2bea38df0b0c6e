package commands

import (
	"context"
	"log/slog"
	"strings"

	application "sscd/contexts/identity-access/client-self-service/application"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// CreateClientUseCase registers a new managed client. Manager usernames are
// resolved and both manager invariants checked before the directory create,
// so a rejected create never leaves an orphaned manager-less client behind.
type CreateClientUseCase struct {
	Clients           ports.ClientDirectory
	Users             ports.IdentityDirectory
	Managers          ReplaceManagersUseCase
	Audit             ports.AuditPublisher
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	MaxClientsPerUser int
	Logger            *slog.Logger
}

func (u CreateClientUseCase) Execute(ctx context.Context, principal ports.Principal, spec ClientSpec) (application.ManagedClientView, error) {
	logger := application.ResolveLogger(u.Logger)
	var none application.ManagedClientView

	if !strings.HasPrefix(spec.ClientID, services.ClientIDPrefix) {
		return none, domainerrors.Validationf("Client ID must start with '%s'", services.ClientIDPrefix)
	}

	managers, err := u.Managers.ResolveUsernames(ctx, spec.Managers)
	if err != nil {
		return none, err
	}
	if err := validateManagerSet(managers, principal.User); err != nil {
		return none, err
	}

	if err := u.enforceClientBound(ctx, principal); err != nil {
		return none, err
	}

	client := spec.newClient()
	id, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return none, err
	}
	client.ID = id

	if err := u.Clients.ValidateClient(ctx, client); err != nil {
		return none, err
	}

	created, err := u.Clients.CreateClient(ctx, client)
	if err != nil {
		return none, err
	}

	created, err = u.Managers.Execute(ctx, created, managers, principal.User)
	if err != nil {
		// The invariants already passed, so this is a directory fault
		// between create and marker attach. Compensate so no manager-less
		// client survives.
		if deleteErr := u.Clients.DeleteClient(ctx, created.ID); deleteErr != nil {
			logger.Error("compensating delete failed",
				"event", "ssc_create_compensation_failed",
				"module", "identity-access/client-self-service",
				"layer", "application",
				"client_id", created.ClientID,
				"error", deleteErr.Error(),
			)
		}
		return none, err
	}

	publishAdminEvent(ctx, u.Audit, logger, ports.AdminEvent{
		Operation:        ports.AdminOperationCreate,
		UserID:           principal.User.ID,
		ClientID:         created.ID,
		ExternalClientID: created.ClientID,
		OccurredAt:       u.Clock.Now(),
	})

	logger.Info("managed client created",
		"event", "ssc_client_created",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"client_id", created.ClientID,
		"user_id", principal.User.ID,
	)
	return application.NewManagedClientView(ctx, u.Users, created), nil
}

// enforceClientBound rejects creation once the caller manages the configured
// maximum number of clients.
func (u CreateClientUseCase) enforceClientBound(ctx context.Context, principal ports.Principal) error {
	limit := u.MaxClientsPerUser
	if limit <= 0 {
		limit = services.DefaultMaxClientsPerUser
	}

	candidates, err := u.Clients.SearchByAttributes(ctx, services.ManagerMarkersFor(principal.User.ID))
	if err != nil {
		return err
	}
	managed := 0
	for _, candidate := range candidates {
		if services.IsManager(candidate, principal.User.ID) {
			managed++
		}
	}
	if managed >= limit {
		return domainerrors.Validationf("User %s already manages the maximum of %d clients.", principal.User.Username, limit)
	}
	return nil
}
