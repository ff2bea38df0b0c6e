package token

import (
	"context"
	"log/slog"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
	"sscd/contexts/identity-access/client-self-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator validates HS256-signed bearer tokens issued by the identity
// provider and maps their claims onto the caller principal. An invalid or
// expired token is an unauthenticated caller, not an infrastructure error.
type Authenticator struct {
	secret []byte
	issuer string
	logger *slog.Logger
}

func NewAuthenticator(secret []byte, issuer string, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		secret: secret,
		issuer: issuer,
		logger: logger,
	}
}

type roleGrantsClaim struct {
	Roles []string `json:"roles"`
}

type accessTokenClaims struct {
	jwt.RegisteredClaims

	PreferredUsername string                     `json:"preferred_username"`
	RealmAccess       *roleGrantsClaim           `json:"realm_access,omitempty"`
	ResourceAccess    map[string]roleGrantsClaim `json:"resource_access,omitempty"`
	AllowedOrigins    []string                   `json:"allowed-origins,omitempty"`
}

func (a *Authenticator) AuthenticateBearerToken(_ context.Context, bearerToken string) (ports.Principal, bool, error) {
	if bearerToken == "" {
		return ports.Principal{}, false, nil
	}

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}

	var claims accessTokenClaims
	parsed, err := jwt.ParseWithClaims(bearerToken, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, options...)
	if err != nil || !parsed.Valid {
		a.logger.Debug("bearer token rejected",
			"event", "ssc_token_rejected",
			"module", "identity-access/client-self-service",
			"layer", "adapter",
		)
		return ports.Principal{}, false, nil
	}

	accessToken := entities.AccessToken{
		Subject:        claims.Subject,
		Username:       claims.PreferredUsername,
		AllowedOrigins: claims.AllowedOrigins,
	}
	if claims.RealmAccess != nil {
		accessToken.RealmAccess = &entities.RoleGrants{Roles: claims.RealmAccess.Roles}
	}
	if len(claims.ResourceAccess) > 0 {
		accessToken.ResourceAccess = make(map[string]entities.RoleGrants, len(claims.ResourceAccess))
		for clientID, grants := range claims.ResourceAccess {
			accessToken.ResourceAccess[clientID] = entities.RoleGrants{Roles: grants.Roles}
		}
	}

	principal := ports.Principal{
		User: entities.User{
			ID:       claims.Subject,
			Username: claims.PreferredUsername,
		},
		Token: accessToken,
	}
	return principal, true, nil
}
