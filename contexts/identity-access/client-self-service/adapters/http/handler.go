package httpadapter

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/application/commands"
	"sscd/contexts/identity-access/client-self-service/application/queries"
	"sscd/contexts/identity-access/client-self-service/domain/entities"
	"sscd/contexts/identity-access/client-self-service/ports"
	httptransport "sscd/contexts/identity-access/client-self-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	Authorize        queries.AuthorizeUseCase
	ListClients      queries.ListClientsUseCase
	GetClient        queries.GetClientUseCase
	CreateClient     commands.CreateClientUseCase
	UpdateClient     commands.UpdateClientUseCase
	DeleteClient     commands.DeleteClientUseCase
	RegenerateSecret commands.RegenerateSecretUseCase
	Logger           *slog.Logger
}

// AuthorizeHandler runs the gateway for one request.
func (h Handler) AuthorizeHandler(ctx context.Context, bearerToken string, preflight bool) (queries.AuthorizationDecision, error) {
	return h.Authorize.Execute(ctx, queries.AuthorizeQuery{
		BearerToken: bearerToken,
		Preflight:   preflight,
	})
}

// ListClientsHandler returns the caller's managed clients.
func (h Handler) ListClientsHandler(ctx context.Context, principal ports.Principal) ([]httptransport.ClientRepresentation, error) {
	views, err := h.ListClients.Execute(ctx, principal)
	if err != nil {
		return nil, err
	}
	representations := make([]httptransport.ClientRepresentation, 0, len(views))
	for _, view := range views {
		representations = append(representations, toRepresentation(view))
	}
	return representations, nil
}

// CreateClientHandler registers a new managed client.
func (h Handler) CreateClientHandler(ctx context.Context, principal ports.Principal, request httptransport.WritableClientRepresentation) (httptransport.ClientRepresentation, error) {
	view, err := h.CreateClient.Execute(ctx, principal, toClientSpec(request))
	if err != nil {
		return httptransport.ClientRepresentation{}, err
	}
	return toRepresentation(view), nil
}

// GetClientHandler returns one managed client, ownership-checked.
func (h Handler) GetClientHandler(ctx context.Context, principal ports.Principal, id string) (httptransport.ClientRepresentation, error) {
	view, err := h.GetClient.Execute(ctx, principal, id)
	if err != nil {
		return httptransport.ClientRepresentation{}, err
	}
	return toRepresentation(view), nil
}

// UpdateClientHandler rewrites one managed client, ownership-checked.
func (h Handler) UpdateClientHandler(ctx context.Context, principal ports.Principal, id string, request httptransport.WritableClientRepresentation) (httptransport.ClientRepresentation, error) {
	view, err := h.UpdateClient.Execute(ctx, principal, id, toClientSpec(request))
	if err != nil {
		return httptransport.ClientRepresentation{}, err
	}
	return toRepresentation(view), nil
}

// DeleteClientHandler removes one managed client, ownership-checked.
func (h Handler) DeleteClientHandler(ctx context.Context, principal ports.Principal, id string) error {
	return h.DeleteClient.Execute(ctx, principal, id)
}

// RegenerateSecretHandler rotates the credential and returns the refreshed
// representation.
func (h Handler) RegenerateSecretHandler(ctx context.Context, principal ports.Principal, id string) (httptransport.ClientRepresentation, error) {
	view, err := h.RegenerateSecret.Execute(ctx, principal, id)
	if err != nil {
		return httptransport.ClientRepresentation{}, err
	}
	return toRepresentation(view), nil
}

func toClientSpec(request httptransport.WritableClientRepresentation) commands.ClientSpec {
	return commands.ClientSpec{
		ClientID:           request.ClientID,
		Name:               request.Name,
		Description:        request.Description,
		RootURL:            request.RootURL,
		BaseURL:            request.BaseURL,
		Enabled:            request.Enabled,
		RedirectURIs:       request.RedirectURIs,
		WebOrigins:         request.WebOrigins,
		PublicClient:       request.PublicClient,
		FrontchannelLogout: request.FrontchannelLogout,
		Logout: entities.LogoutSettings{
			BackchannelRevokeOfflineTokens: request.BackchannelLogoutRevokeOfflineTokens,
			BackchannelSessionRequired:     request.BackchannelLogoutSessionRequired,
			BackchannelLogoutURL:           request.BackchannelLogoutURL,
			FrontchannelLogoutURL:          request.FrontchannelLogoutURL,
			PostLogoutRedirectURIs:         request.PostLogoutRedirectURIs,
		},
		Managers: request.Managers,
	}
}

func toRepresentation(view application.ManagedClientView) httptransport.ClientRepresentation {
	client := view.Client
	logout := client.LogoutSettings()

	enabled := client.Enabled
	public := client.PublicClient
	frontchannel := client.FrontchannelLogout
	revoke := logout.BackchannelRevokeOfflineTokens != nil && *logout.BackchannelRevokeOfflineTokens
	sessionRequired := logout.BackchannelSessionRequired != nil && *logout.BackchannelSessionRequired

	return httptransport.ClientRepresentation{
		WritableClientRepresentation: httptransport.WritableClientRepresentation{
			ClientID:     client.ClientID,
			Name:         client.Name,
			Description:  client.Description,
			RootURL:      client.RootURL,
			BaseURL:      client.BaseURL,
			Enabled:      &enabled,
			RedirectURIs: emptyIfNil(client.RedirectURIs),
			WebOrigins:   emptyIfNil(client.WebOrigins),

			PublicClient:       &public,
			FrontchannelLogout: &frontchannel,

			BackchannelLogoutRevokeOfflineTokens: &revoke,
			BackchannelLogoutSessionRequired:     &sessionRequired,
			BackchannelLogoutURL:                 logout.BackchannelLogoutURL,
			FrontchannelLogoutURL:                logout.FrontchannelLogoutURL,
			PostLogoutRedirectURIs:               logout.PostLogoutRedirectURIs,

			Managers: view.Managers,
		},

		ID:     client.ID,
		Secret: client.Secret,

		StandardFlowEnabled:          client.StandardFlowEnabled,
		ImplicitFlowEnabled:          client.ImplicitFlowEnabled,
		DirectAccessGrantsEnabled:    client.DirectAccessGrantsEnabled,
		ServiceAccountsEnabled:       client.ServiceAccountsEnabled,
		AuthorizationServicesEnabled: client.AuthorizationServicesEnabled,
	}
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
