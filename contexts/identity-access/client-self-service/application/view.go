package application

import (
	"context"
	"sort"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// ManagedClientView is a client annotated with its resolved manager
// usernames, shared by queries and commands.
type ManagedClientView struct {
	Client   entities.Client
	Managers []string
}

// ManagerNames resolves the client's manager markers to usernames. Markers
// whose user id no longer resolves are dropped, never errored; this is a
// display-path concession for deleted or renamed accounts. The result is
// sorted ascending.
func ManagerNames(ctx context.Context, users ports.IdentityDirectory, client entities.Client) []string {
	names := make([]string, 0)
	for _, id := range services.ManagerUserIDs(client) {
		user, found, err := users.FindUserByID(ctx, id)
		if err != nil || !found {
			continue
		}
		names = append(names, user.Username)
	}
	sort.Strings(names)
	return names
}

// NewManagedClientView builds the annotated view for a client.
func NewManagedClientView(ctx context.Context, users ports.IdentityDirectory, client entities.Client) ManagedClientView {
	return ManagedClientView{
		Client:   client,
		Managers: ManagerNames(ctx, users, client),
	}
}

// LoadOwnedClient resolves a client by id and re-checks entity-level
// ownership for the principal. Every single-client operation runs this
// independently of the coarse role check at the gateway.
func LoadOwnedClient(ctx context.Context, clients ports.ClientDirectory, principal ports.Principal, id string) (entities.Client, error) {
	client, found, err := clients.FindByID(ctx, id)
	if err != nil {
		return entities.Client{}, err
	}
	if !found {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	if !services.IsManager(client, principal.User.ID) {
		return entities.Client{}, domainerrors.Forbiddenf("You do not have access to this client!")
	}
	return client, nil
}
