package ports

import (
	"context"
	"time"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts entity id generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Principal is the authenticated caller for the current request.
type Principal struct {
	User  entities.User
	Token entities.AccessToken
}

// CORSPolicy is the per-request cross-origin policy computed by the
// authorization gateway. An open policy is used on every path where the
// caller identity is not yet known-valid.
type CORSPolicy struct {
	AllowAllOrigins bool
	AllowedOrigins  []string
}

// OpenCORSPolicy returns the wildcard-origin policy.
func OpenCORSPolicy() CORSPolicy {
	return CORSPolicy{AllowAllOrigins: true}
}

// AllowsOrigin reports whether the policy admits the given request origin.
func (p CORSPolicy) AllowsOrigin(origin string) bool {
	if p.AllowAllOrigins {
		return true
	}
	for _, allowed := range p.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ClientDirectory is the external store of client registrations. It
// guarantees atomic single-entity attribute mutation (UpdateAttributes) and
// surfaces duplicate external client ids as domain conflict errors.
type ClientDirectory interface {
	FindByClientID(ctx context.Context, clientID string) (entities.Client, bool, error)
	FindByID(ctx context.Context, id string) (entities.Client, bool, error)
	CreateClient(ctx context.Context, client entities.Client) (entities.Client, error)
	UpdateClient(ctx context.Context, client entities.Client) (entities.Client, error)
	DeleteClient(ctx context.Context, id string) error
	RotateSecret(ctx context.Context, id string) (entities.Client, error)

	// SearchByAttributes may be over-inclusive; callers must re-check
	// results against the full ACL predicate.
	SearchByAttributes(ctx context.Context, attributes map[string]string) ([]entities.Client, error)

	// UpdateAttributes applies set and remove in one atomic mutation of the
	// client's attribute map.
	UpdateAttributes(ctx context.Context, id string, set map[string]string, remove []string) error

	// ValidateClient runs directory-side structural validation.
	ValidateClient(ctx context.Context, client entities.Client) error
}

// IdentityDirectory resolves user identities.
type IdentityDirectory interface {
	FindUserByUsername(ctx context.Context, username string) (entities.User, bool, error)
	FindUserByID(ctx context.Context, id string) (entities.User, bool, error)
}

// TokenAuthority validates bearer tokens. A missing or invalid token yields
// found=false, not an error; errors are reserved for infrastructure faults.
type TokenAuthority interface {
	AuthenticateBearerToken(ctx context.Context, bearerToken string) (Principal, bool, error)
}

// AdminEvent records a successful administrative operation on a managed
// client for the audit stream.
type AdminEvent struct {
	Operation        string    `json:"operation"`
	UserID           string    `json:"user_id"`
	ClientID         string    `json:"client_id"`
	ExternalClientID string    `json:"external_client_id"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Admin event operations.
const (
	AdminOperationCreate       = "create"
	AdminOperationUpdate       = "update"
	AdminOperationDelete       = "delete"
	AdminOperationRotateSecret = "rotate-secret"
)

// AuditPublisher emits admin events after successful mutations.
type AuditPublisher interface {
	PublishAdminEvent(ctx context.Context, event AdminEvent) error
}
