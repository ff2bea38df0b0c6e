package queries

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// GetClientUseCase resolves one managed client with an ownership re-check.
type GetClientUseCase struct {
	Clients ports.ClientDirectory
	Users   ports.IdentityDirectory
	Logger  *slog.Logger
}

func (u GetClientUseCase) Execute(ctx context.Context, principal ports.Principal, id string) (application.ManagedClientView, error) {
	client, err := application.LoadOwnedClient(ctx, u.Clients, principal, id)
	if err != nil {
		return application.ManagedClientView{}, err
	}
	return application.NewManagedClientView(ctx, u.Users, client), nil
}
