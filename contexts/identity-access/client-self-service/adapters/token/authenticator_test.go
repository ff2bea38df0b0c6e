package token

import (
	"context"
	"testing"
	"time"

	"sscd/contexts/identity-access/client-self-service/domain/services"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func managerClaims(expiry time.Time) accessTokenClaims {
	return accessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "https://idp.example.test",
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		PreferredUsername: "alice",
		RealmAccess:       &roleGrantsClaim{Roles: []string{"default-roles"}},
		ResourceAccess: map[string]roleGrantsClaim{
			services.GatewayClientID: {Roles: []string{services.ManagerClientRole}},
		},
		AllowedOrigins: []string{"https://clients.example.test"},
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, "https://idp.example.test", nil)
	bearer := signToken(t, managerClaims(time.Now().Add(time.Hour)))

	principal, ok, err := auth.AuthenticateBearerToken(context.Background(), bearer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("valid token must authenticate")
	}
	if principal.User.ID != "user-1" || principal.User.Username != "alice" {
		t.Fatalf("principal = %+v", principal.User)
	}
	grants, ok := principal.Token.ResourceRoles(services.GatewayClientID)
	if !ok || !grants.HasRole(services.ManagerClientRole) {
		t.Fatal("resource access roles lost in claim mapping")
	}
	if len(principal.Token.AllowedOrigins) != 1 {
		t.Fatalf("allowed origins = %v", principal.Token.AllowedOrigins)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, "", nil)
	bearer := signToken(t, managerClaims(time.Now().Add(-time.Hour)))

	_, ok, err := auth.AuthenticateBearerToken(context.Background(), bearer)
	if err != nil {
		t.Fatalf("expired token is unauthenticated, not an error: %v", err)
	}
	if ok {
		t.Fatal("expired token must not authenticate")
	}
}

func TestAuthenticateWrongIssuer(t *testing.T) {
	auth := NewAuthenticator(testSecret, "https://idp.example.test", nil)
	claims := managerClaims(time.Now().Add(time.Hour))
	claims.Issuer = "https://other.example.test"

	_, ok, _ := auth.AuthenticateBearerToken(context.Background(), signToken(t, claims))
	if ok {
		t.Fatal("token from a foreign issuer must not authenticate")
	}
}

func TestAuthenticateWrongSecretAndGarbage(t *testing.T) {
	auth := NewAuthenticator(testSecret, "", nil)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, managerClaims(time.Now().Add(time.Hour))).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	for _, bearer := range []string{forged, "not-a-jwt", ""} {
		if _, ok, err := auth.AuthenticateBearerToken(context.Background(), bearer); err != nil || ok {
			t.Fatalf("bearer %q: ok=%v err=%v", bearer, ok, err)
		}
	}
}
