package commands

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// ReplaceManagersUseCase validates and atomically replaces a client's
// manager set. The replacement is a single diff-and-apply attribute
// mutation, so a directory fault can never leave the client with a partial
// manager set.
type ReplaceManagersUseCase struct {
	Clients ports.ClientDirectory
	Users   ports.IdentityDirectory
	Logger  *slog.Logger
}

// validateManagerSet enforces the two manager-set invariants. It runs before
// any mutation so an early rejection leaves the existing set untouched.
func validateManagerSet(managers []entities.User, current entities.User) error {
	if len(managers) == 0 {
		return domainerrors.Validationf("Client needs at least one manager.")
	}
	for _, manager := range managers {
		if manager.ID == current.ID {
			return nil
		}
	}
	return domainerrors.Validationf("The current user must be manager of this client and cannot be removed.")
}

// Execute replaces the client's manager markers with markers for the given
// users and returns the client with the new attribute state applied.
func (u ReplaceManagersUseCase) Execute(ctx context.Context, client entities.Client, managers []entities.User, current entities.User) (entities.Client, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := validateManagerSet(managers, current); err != nil {
		logger.Debug("refusing manager set replacement",
			"event", "ssc_manager_set_rejected",
			"module", "identity-access/client-self-service",
			"layer", "application",
			"client_id", client.ClientID,
			"error", err.Error(),
		)
		return client, err
	}

	set := make(map[string]string, len(managers))
	for _, manager := range managers {
		for key, value := range services.ManagerMarkersFor(manager.ID) {
			set[key] = value
		}
	}
	var remove []string
	for _, key := range services.ManagerKeys(client) {
		if _, kept := set[key]; !kept {
			remove = append(remove, key)
		}
	}

	if err := u.Clients.UpdateAttributes(ctx, client.ID, set, remove); err != nil {
		return client, err
	}

	if client.Attributes == nil {
		client.Attributes = make(map[string]string)
	}
	for _, key := range remove {
		delete(client.Attributes, key)
	}
	for key, value := range set {
		client.Attributes[key] = value
	}

	logger.Debug("manager set replaced",
		"event", "ssc_manager_set_replaced",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"client_id", client.ClientID,
		"manager_count", len(managers),
	)
	return client, nil
}

// ResolveUsernames resolves every username before any mutation. The first
// unresolvable username fails the whole call with a not-found error naming
// it.
func (u ReplaceManagersUseCase) ResolveUsernames(ctx context.Context, usernames []string) ([]entities.User, error) {
	users := make([]entities.User, 0, len(usernames))
	for _, username := range usernames {
		user, found, err := u.Users.FindUserByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domainerrors.NotFoundf("The user %s was not found", username)
		}
		users = append(users, user)
	}
	return users, nil
}

// ExecuteByUsername resolves the usernames and delegates to Execute.
// All-or-nothing at the resolution stage: no mutation happens unless every
// username resolves.
func (u ReplaceManagersUseCase) ExecuteByUsername(ctx context.Context, client entities.Client, usernames []string, current entities.User) (entities.Client, error) {
	users, err := u.ResolveUsernames(ctx, usernames)
	if err != nil {
		return client, err
	}
	return u.Execute(ctx, client, users, current)
}
