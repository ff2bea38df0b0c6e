package commands

import (
	"sscd/contexts/identity-access/client-self-service/domain/entities"
)

// ClientSpec is the transport-agnostic writable description of a managed
// client. Nil booleans mean "not supplied": on create they take the listed
// defaults, on update they leave the current value unchanged.
type ClientSpec struct {
	ClientID    string
	Name        string
	Description string
	RootURL     string
	BaseURL     string

	// Defaults to true on create.
	Enabled *bool

	RedirectURIs []string
	WebOrigins   []string

	PublicClient       *bool
	FrontchannelLogout *bool

	Logout entities.LogoutSettings

	// Usernames of the users that may edit this client.
	Managers []string
}

// newClient materializes a fresh client entity for creation.
func (s ClientSpec) newClient() entities.Client {
	client := entities.Client{
		ClientID:     s.ClientID,
		Name:         s.Name,
		Description:  s.Description,
		RootURL:      s.RootURL,
		BaseURL:      s.BaseURL,
		Enabled:      s.Enabled == nil || *s.Enabled,
		RedirectURIs: append([]string(nil), s.RedirectURIs...),
		WebOrigins:   append([]string(nil), s.WebOrigins...),
		Attributes:   make(map[string]string),
	}
	if s.PublicClient != nil {
		client.PublicClient = *s.PublicClient
	}
	if s.FrontchannelLogout != nil {
		client.FrontchannelLogout = *s.FrontchannelLogout
	}
	client.ApplyLogoutSettings(s.Logout)
	return client
}

// applyTo overlays the spec on an existing client. The id, external client
// id, secret, flow flags, and the manager ACL subspace are never touched
// here.
func (s ClientSpec) applyTo(client *entities.Client) {
	client.Name = s.Name
	client.Description = s.Description
	client.RootURL = s.RootURL
	client.BaseURL = s.BaseURL
	if s.Enabled != nil {
		client.Enabled = *s.Enabled
	}
	client.RedirectURIs = append([]string(nil), s.RedirectURIs...)
	client.WebOrigins = append([]string(nil), s.WebOrigins...)
	if s.PublicClient != nil {
		client.PublicClient = *s.PublicClient
	}
	if s.FrontchannelLogout != nil {
		client.FrontchannelLogout = *s.FrontchannelLogout
	}
	client.ApplyLogoutSettings(s.Logout)
}
