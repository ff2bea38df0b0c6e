package queries

import (
	"context"
	"log/slog"
	"sort"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// ListClientsUseCase returns the clients the principal manages, annotated
// with resolved manager usernames.
type ListClientsUseCase struct {
	Clients ports.ClientDirectory
	Users   ports.IdentityDirectory
	Logger  *slog.Logger
}

// Execute queries the directory by marker attribute and then re-filters with
// the full ACL predicate. The directory's attribute search cannot be trusted
// to express the predicate precisely, so the manual re-check is mandatory.
func (u ListClientsUseCase) Execute(ctx context.Context, principal ports.Principal) ([]application.ManagedClientView, error) {
	logger := application.ResolveLogger(u.Logger)

	candidates, err := u.Clients.SearchByAttributes(ctx, services.ManagerMarkersFor(principal.User.ID))
	if err != nil {
		return nil, err
	}

	views := make([]application.ManagedClientView, 0, len(candidates))
	for _, client := range candidates {
		if !services.IsManager(client, principal.User.ID) {
			continue
		}
		views = append(views, application.NewManagedClientView(ctx, u.Users, client))
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Client.ClientID < views[j].Client.ClientID
	})

	logger.Debug("listed managed clients",
		"event", "ssc_clients_listed",
		"module", "identity-access/client-self-service",
		"layer", "application",
		"user_id", principal.User.ID,
		"count", len(views),
	)
	return views, nil
}
