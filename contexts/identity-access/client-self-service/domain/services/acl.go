package services

import (
	"sort"
	"strings"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
)

const (
	// GatewayClientID is the well-known client whose role grants gate the
	// whole API surface.
	GatewayClientID = "self-service-clients"

	// ManagerClientRole is the client role of GatewayClientID a caller must
	// hold to reach any route.
	ManagerClientRole = "manage-self-service-clients"

	// ClientIDPrefix is the reserved namespace every managed client's
	// external client id must start with.
	ClientIDPrefix = "ssc-"

	// ManagerAttributePrefix + user id is the attribute key marking a user
	// as manager of a client; the value must be exactly
	// ManagerAttributeValue. The set of such keys is the ACL.
	ManagerAttributePrefix = "self-service-clients-user-"
	ManagerAttributeValue  = "manager"

	// DefaultMaxClientsPerUser bounds how many clients one user may manage.
	DefaultMaxClientsPerUser = 25
)

// ManagerMarkersFor returns the single-entry marker mapping for a user.
func ManagerMarkersFor(userID string) map[string]string {
	return map[string]string{ManagerAttributePrefix + userID: ManagerAttributeValue}
}

// IsManager reports whether every marker pair for the user is present
// verbatim on the client. Absent keys or mismatched values yield false.
func IsManager(client entities.Client, userID string) bool {
	for key, value := range ManagerMarkersFor(userID) {
		if client.Attributes[key] != value {
			return false
		}
	}
	return true
}

// ManagerKeys returns all attribute keys on the client carrying a manager
// marker, sorted for deterministic output.
func ManagerKeys(client entities.Client) []string {
	var keys []string
	for key, value := range client.Attributes {
		if strings.HasPrefix(key, ManagerAttributePrefix) && value == ManagerAttributeValue {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ManagerUserIDs returns the user ids encoded in the client's manager
// markers.
func ManagerUserIDs(client entities.Client) []string {
	keys := ManagerKeys(client)
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, ManagerAttributePrefix))
	}
	return ids
}

// ClearManagers removes every manager marker from the client's attribute
// map. Idempotent; non-marker attributes are untouched.
func ClearManagers(client *entities.Client) {
	for _, key := range ManagerKeys(*client) {
		delete(client.Attributes, key)
	}
}
