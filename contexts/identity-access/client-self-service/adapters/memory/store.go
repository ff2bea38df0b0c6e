package memory

import (
	"context"
	"sync"
	"time"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the client directory, identity
// directory, token authority, audit, clock, and id-generation ports. It is
// intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	clients map[string]entities.Client
	users   map[string]entities.User
	tokens  map[string]ports.Principal
	audit   []ports.AdminEvent
}

// NewStore builds an in-memory adapter seeded with the well-known gateway
// client and a baseline set of directory users, each with a registered
// bearer token "token-<username>" carrying the manager role.
func NewStore() *Store {
	store := &Store{
		clients: make(map[string]entities.Client),
		users:   make(map[string]entities.User),
		tokens:  make(map[string]ports.Principal),
	}

	store.clients["gateway-client-uuid"] = entities.Client{
		ID:       "gateway-client-uuid",
		ClientID: services.GatewayClientID,
		Name:     "Self Service Clients Gateway",
		Enabled:  true,
	}

	for _, seed := range []entities.User{
		{ID: "user-alice", Username: "alice"},
		{ID: "user-bob", Username: "bob"},
		{ID: "user-carol", Username: "carol"},
	} {
		store.users[seed.ID] = seed
		store.tokens["token-"+seed.Username] = ports.Principal{
			User: seed,
			Token: entities.AccessToken{
				Subject:     seed.ID,
				Username:    seed.Username,
				RealmAccess: &entities.RoleGrants{Roles: []string{"default-roles"}},
				ResourceAccess: map[string]entities.RoleGrants{
					services.GatewayClientID: {Roles: []string{services.ManagerClientRole}},
				},
				AllowedOrigins: []string{"https://clients.example.test"},
			},
		}
	}
	return store
}

// AddUser registers an additional directory user.
func (s *Store) AddUser(user entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// RegisterToken associates a bearer token with a principal.
func (s *Store) RegisterToken(bearerToken string, principal ports.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[bearerToken] = principal
}

// RemoveUser deletes a user so marker resolution can be exercised against
// vanished accounts.
func (s *Store) RemoveUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// AdminEvents returns the published audit events.
func (s *Store) AdminEvents() []ports.AdminEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.AdminEvent(nil), s.audit...)
}

// FindByClientID looks a client up by its external client id.
func (s *Store) FindByClientID(_ context.Context, clientID string) (entities.Client, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, client := range s.clients {
		if client.ClientID == clientID {
			return cloneClient(client), true, nil
		}
	}
	return entities.Client{}, false, nil
}

// FindByID looks a client up by its entity id.
func (s *Store) FindByID(_ context.Context, id string) (entities.Client, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[id]
	if !ok {
		return entities.Client{}, false, nil
	}
	return cloneClient(client), true, nil
}

// CreateClient persists a new client record. Confidential clients get a
// generated secret when none is set.
func (s *Store) CreateClient(_ context.Context, client entities.Client) (entities.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clients {
		if existing.ClientID == client.ClientID {
			return entities.Client{}, domainerrors.Conflictf("Client %s already exists", client.ClientID)
		}
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Secret == "" && !client.PublicClient {
		client.Secret = uuid.NewString()
	}
	if client.Attributes == nil {
		client.Attributes = make(map[string]string)
	}
	s.clients[client.ID] = cloneClient(client)
	return cloneClient(client), nil
}

// UpdateClient rewrites an existing client record.
func (s *Store) UpdateClient(_ context.Context, client entities.Client) (entities.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client.ID]; !ok {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	for id, existing := range s.clients {
		if id != client.ID && existing.ClientID == client.ClientID {
			return entities.Client{}, domainerrors.Conflictf("Client %s already exists", client.ClientID)
		}
	}
	s.clients[client.ID] = cloneClient(client)
	return cloneClient(client), nil
}

// DeleteClient removes a client record.
func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return domainerrors.NotFoundf("Could not find client")
	}
	delete(s.clients, id)
	return nil
}

// RotateSecret assigns a fresh credential.
func (s *Store) RotateSecret(_ context.Context, id string) (entities.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[id]
	if !ok {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	client.Secret = uuid.NewString()
	s.clients[id] = client
	return cloneClient(client), nil
}

// SearchByAttributes returns clients whose attribute map contains every
// given pair.
func (s *Store) SearchByAttributes(_ context.Context, attributes map[string]string) ([]entities.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []entities.Client
	for _, client := range s.clients {
		matched := true
		for key, value := range attributes {
			if client.Attributes[key] != value {
				matched = false
				break
			}
		}
		if matched {
			matches = append(matches, cloneClient(client))
		}
	}
	return matches, nil
}

// UpdateAttributes applies set and remove as one mutation under the store
// lock.
func (s *Store) UpdateAttributes(_ context.Context, id string, set map[string]string, remove []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return domainerrors.NotFoundf("Could not find client")
	}
	attributes := make(map[string]string, len(client.Attributes)+len(set))
	for key, value := range client.Attributes {
		attributes[key] = value
	}
	for _, key := range remove {
		delete(attributes, key)
	}
	for key, value := range set {
		attributes[key] = value
	}
	client.Attributes = attributes
	s.clients[id] = client
	return nil
}

// ValidateClient runs the directory-side structural validation.
func (s *Store) ValidateClient(_ context.Context, client entities.Client) error {
	return services.ValidateClientStructure(client)
}

// FindUserByUsername resolves a directory user by username.
func (s *Store) FindUserByUsername(_ context.Context, username string) (entities.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return entities.User{}, false, nil
}

// FindUserByID resolves a directory user by id.
func (s *Store) FindUserByID(_ context.Context, id string) (entities.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok, nil
}

// AuthenticateBearerToken resolves a registered bearer token. Unknown
// tokens are unauthenticated, not errors.
func (s *Store) AuthenticateBearerToken(_ context.Context, bearerToken string) (ports.Principal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	principal, ok := s.tokens[bearerToken]
	return principal, ok, nil
}

// PublishAdminEvent records the event for inspection.
func (s *Store) PublishAdminEvent(_ context.Context, event ports.AdminEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, event)
	return nil
}

// Now implements the clock port.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID implements the id generator port.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneClient(client entities.Client) entities.Client {
	clone := client
	clone.RedirectURIs = append([]string(nil), client.RedirectURIs...)
	clone.WebOrigins = append([]string(nil), client.WebOrigins...)
	if client.Attributes != nil {
		clone.Attributes = make(map[string]string, len(client.Attributes))
		for key, value := range client.Attributes {
			clone.Attributes[key] = value
		}
	}
	return clone
}
