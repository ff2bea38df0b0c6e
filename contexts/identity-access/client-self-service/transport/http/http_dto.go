package httptransport

// WritableClientRepresentation is the request body for creating or updating
// a managed client. Attributes cannot be set directly; the logout settings
// below are the only attribute-backed fields a manager may write. Field
// names follow the identity provider's client representation wire format.
type WritableClientRepresentation struct {
	ClientID     string   `json:"clientId"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	RootURL      string   `json:"rootUrl"`
	BaseURL      string   `json:"baseUrl"`
	Enabled      *bool    `json:"enabled"`
	RedirectURIs []string `json:"redirectUris"`
	WebOrigins   []string `json:"webOrigins"`

	PublicClient       *bool `json:"publicClient"`
	FrontchannelLogout *bool `json:"frontchannelLogout"`

	BackchannelLogoutRevokeOfflineTokens *bool    `json:"backchannelLogoutRevokeOfflineTokens"`
	BackchannelLogoutSessionRequired     *bool    `json:"backchannelLogoutSessionRequired"`
	BackchannelLogoutURL                 string   `json:"backchannelLogoutUrl"`
	FrontchannelLogoutURL                string   `json:"frontchannelLogoutUrl"`
	PostLogoutRedirectURIs               []string `json:"postLogoutRedirectUris"`

	// Usernames of the users that may edit this client.
	Managers []string `json:"managers"`
}

// ClientRepresentation is the read shape: the writable fields plus
// server-assigned state.
type ClientRepresentation struct {
	WritableClientRepresentation

	ID     string `json:"id"`
	Secret string `json:"secret,omitempty"`

	StandardFlowEnabled          bool `json:"standardFlowEnabled"`
	ImplicitFlowEnabled          bool `json:"implicitFlowEnabled"`
	DirectAccessGrantsEnabled    bool `json:"directAccessGrantsEnabled"`
	ServiceAccountsEnabled       bool `json:"serviceAccountsEnabled"`
	AuthorizationServicesEnabled bool `json:"authorizationServicesEnabled"`
}

// GatewayStatusResponse is returned from the API root after a successful
// gateway authorization.
type GatewayStatusResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
