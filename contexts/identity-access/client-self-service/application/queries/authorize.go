package queries

import (
	"context"
	"log/slog"

	application "sscd/contexts/identity-access/client-self-service/application"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// AuthorizeQuery carries the raw bearer token of the inbound request.
// Preflight requests skip authentication entirely.
type AuthorizeQuery struct {
	BearerToken string
	Preflight   bool
}

// AuthorizationDecision is the per-request gateway outcome. CORS is always
// populated: open on every rejection path (the caller is not yet
// known-valid, so an origin restriction cannot be computed), restricted to
// the token's registered origins on success.
type AuthorizationDecision struct {
	Principal ports.Principal
	CORS      ports.CORSPolicy
	Preflight bool
}

// AuthorizeUseCase is the single authorization gateway every request passes
// through: locate the well-known gateway client, divert preflight, then
// authenticate and check the required management role.
type AuthorizeUseCase struct {
	Clients ports.ClientDirectory
	Tokens  ports.TokenAuthority
	Logger  *slog.Logger
}

func (u AuthorizeUseCase) Execute(ctx context.Context, query AuthorizeQuery) (AuthorizationDecision, error) {
	logger := application.ResolveLogger(u.Logger)
	decision := AuthorizationDecision{CORS: ports.OpenCORSPolicy()}

	_, found, err := u.Clients.FindByClientID(ctx, services.GatewayClientID)
	if err != nil {
		return decision, err
	}
	if !found {
		logger.Warn("gateway client missing from realm",
			"event", "ssc_gateway_client_missing",
			"module", "identity-access/client-self-service",
			"layer", "application",
			"gateway_client_id", services.GatewayClientID,
		)
		return decision, domainerrors.Misconfiguredf(
			"Self Service Clients not activated on this realm. Please ask your admin to create the %s client.",
			services.GatewayClientID,
		)
	}

	if query.Preflight {
		decision.Preflight = true
		return decision, nil
	}

	principal, authenticated, err := u.Tokens.AuthenticateBearerToken(ctx, query.BearerToken)
	if err != nil {
		return decision, err
	}
	if !authenticated {
		return decision, domainerrors.ErrNotAuthorized
	}

	token := principal.Token
	grants, hasResourceAccess := token.ResourceRoles(services.GatewayClientID)
	if token.RealmAccess == nil || !hasResourceAccess || !grants.HasRole(services.ManagerClientRole) {
		logger.Debug("caller lacks manager role",
			"event", "ssc_manager_role_missing",
			"module", "identity-access/client-self-service",
			"layer", "application",
			"user_id", principal.User.ID,
		)
		return decision, domainerrors.Forbiddenf(
			"Token is missing the %s client role of client %s.",
			services.ManagerClientRole, services.GatewayClientID,
		)
	}

	decision.Principal = principal
	decision.CORS = ports.CORSPolicy{AllowedOrigins: token.AllowedOrigins}
	return decision, nil
}
