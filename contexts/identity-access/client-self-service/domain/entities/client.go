package entities

import "strings"

// Reserved attribute keys carrying OIDC logout configuration. Writable
// representations never set attributes directly; these keys and the manager
// ACL subspace are the only attribute state a manager can influence.
const (
	AttrBackchannelLogoutRevokeOfflineTokens = "backchannel.logout.revoke.offline.tokens"
	AttrBackchannelLogoutSessionRequired     = "backchannel.logout.session.required"
	AttrBackchannelLogoutURL                 = "backchannel.logout.url"
	AttrFrontchannelLogoutURL                = "frontchannel.logout.url"
	AttrPostLogoutRedirectURIs               = "post.logout.redirect.uris"
)

// Separator used by the directory encoding for multi-valued URI attributes.
const postLogoutRedirectURISeparator = "##"

// Client is a managed OAuth/OIDC client registration owned by the Client
// Directory. Attributes is an opaque string-to-string bag holding protocol
// configuration plus, under a reserved key prefix, the manager ACL.
type Client struct {
	ID                           string            `json:"id"`
	ClientID                     string            `json:"client_id"`
	Name                         string            `json:"name"`
	Description                  string            `json:"description"`
	RootURL                      string            `json:"root_url"`
	BaseURL                      string            `json:"base_url"`
	Enabled                      bool              `json:"enabled"`
	PublicClient                 bool              `json:"public_client"`
	BearerOnly                   bool              `json:"bearer_only"`
	FrontchannelLogout           bool              `json:"frontchannel_logout"`
	StandardFlowEnabled          bool              `json:"standard_flow_enabled"`
	ImplicitFlowEnabled          bool              `json:"implicit_flow_enabled"`
	DirectAccessGrantsEnabled    bool              `json:"direct_access_grants_enabled"`
	ServiceAccountsEnabled       bool              `json:"service_accounts_enabled"`
	AuthorizationServicesEnabled bool              `json:"authorization_services_enabled"`
	Secret                       string            `json:"secret,omitempty"`
	RedirectURIs                 []string          `json:"redirect_uris"`
	WebOrigins                   []string          `json:"web_origins"`
	Attributes                   map[string]string `json:"attributes"`
}

// LogoutSettings is the decoded view of the reserved logout attribute keys.
// Nil booleans mean the corresponding attribute key is absent.
type LogoutSettings struct {
	BackchannelRevokeOfflineTokens *bool
	BackchannelSessionRequired     *bool
	BackchannelLogoutURL           string
	FrontchannelLogoutURL          string
	PostLogoutRedirectURIs         []string
}

// ApplyLogoutSettings replaces the full logout attribute subspace with the
// given settings. Absent booleans and empty URLs remove their keys.
func (c *Client) ApplyLogoutSettings(s LogoutSettings) {
	if c.Attributes == nil {
		c.Attributes = make(map[string]string)
	}
	delete(c.Attributes, AttrBackchannelLogoutRevokeOfflineTokens)
	delete(c.Attributes, AttrBackchannelLogoutSessionRequired)
	delete(c.Attributes, AttrBackchannelLogoutURL)
	delete(c.Attributes, AttrFrontchannelLogoutURL)
	delete(c.Attributes, AttrPostLogoutRedirectURIs)

	if s.BackchannelRevokeOfflineTokens != nil {
		c.Attributes[AttrBackchannelLogoutRevokeOfflineTokens] = formatBool(*s.BackchannelRevokeOfflineTokens)
	}
	if s.BackchannelSessionRequired != nil {
		c.Attributes[AttrBackchannelLogoutSessionRequired] = formatBool(*s.BackchannelSessionRequired)
	}
	if s.BackchannelLogoutURL != "" {
		c.Attributes[AttrBackchannelLogoutURL] = s.BackchannelLogoutURL
	}
	if s.FrontchannelLogoutURL != "" {
		c.Attributes[AttrFrontchannelLogoutURL] = s.FrontchannelLogoutURL
	}
	if len(s.PostLogoutRedirectURIs) > 0 {
		c.Attributes[AttrPostLogoutRedirectURIs] = strings.Join(s.PostLogoutRedirectURIs, postLogoutRedirectURISeparator)
	}
}

// LogoutSettings decodes the reserved logout attribute keys.
func (c Client) LogoutSettings() LogoutSettings {
	settings := LogoutSettings{
		BackchannelLogoutURL:   c.Attributes[AttrBackchannelLogoutURL],
		FrontchannelLogoutURL:  c.Attributes[AttrFrontchannelLogoutURL],
		PostLogoutRedirectURIs: []string{},
	}
	if raw, ok := c.Attributes[AttrBackchannelLogoutRevokeOfflineTokens]; ok {
		value := raw == "true"
		settings.BackchannelRevokeOfflineTokens = &value
	}
	if raw, ok := c.Attributes[AttrBackchannelLogoutSessionRequired]; ok {
		value := raw == "true"
		settings.BackchannelSessionRequired = &value
	}
	if raw, ok := c.Attributes[AttrPostLogoutRedirectURIs]; ok && raw != "" {
		settings.PostLogoutRedirectURIs = strings.Split(raw, postLogoutRedirectURISeparator)
	}
	return settings
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
