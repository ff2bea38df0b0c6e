package entities

// User is an identity resolved through the Identity Directory.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RoleGrants is a set of role names scoped to a realm or a client.
type RoleGrants struct {
	Roles []string `json:"roles"`
}

// HasRole reports whether the grant set contains the given role.
func (g RoleGrants) HasRole(role string) bool {
	for _, granted := range g.Roles {
		if granted == role {
			return true
		}
	}
	return false
}

// AccessToken is the validated bearer token produced by the Token Authority.
type AccessToken struct {
	Subject        string                `json:"subject"`
	Username       string                `json:"username"`
	RealmAccess    *RoleGrants           `json:"realm_access,omitempty"`
	ResourceAccess map[string]RoleGrants `json:"resource_access,omitempty"`
	AllowedOrigins []string              `json:"allowed_origins,omitempty"`
}

// ResourceRoles returns the role grants scoped to the given client id.
func (t AccessToken) ResourceRoles(clientID string) (RoleGrants, bool) {
	grants, ok := t.ResourceAccess[clientID]
	return grants, ok
}
