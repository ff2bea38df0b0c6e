package services

import (
	"net/url"
	"strings"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
)

// ValidateClientStructure is the structural validation the Client Directory
// runs on a client record before persisting it. Both directory adapters
// delegate here so memory and postgres reject the same inputs.
func ValidateClientStructure(client entities.Client) error {
	if strings.TrimSpace(client.ClientID) == "" {
		return domainerrors.Validationf("Client ID is required")
	}
	if client.RootURL != "" && !isValidBaseURL(client.RootURL) {
		return domainerrors.Validationf("invalid root URL: %s", client.RootURL)
	}
	if client.BaseURL != "" && !isValidBaseURL(client.BaseURL) && !strings.HasPrefix(client.BaseURL, "/") {
		return domainerrors.Validationf("invalid base URL: %s", client.BaseURL)
	}
	for _, uri := range client.RedirectURIs {
		if !isValidRedirectURI(uri) {
			return domainerrors.Validationf("invalid redirect URI: %s", uri)
		}
	}
	for _, origin := range client.WebOrigins {
		if origin != "*" && origin != "+" && !isValidBaseURL(origin) {
			return domainerrors.Validationf("invalid web origin: %s", origin)
		}
	}
	return nil
}

func isValidBaseURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// Redirect URIs may be absolute, relative to the root URL, or carry a
// trailing wildcard segment.
func isValidRedirectURI(raw string) bool {
	if raw == "" {
		return false
	}
	if strings.HasPrefix(raw, "/") {
		return true
	}
	trimmed := strings.TrimSuffix(raw, "*")
	if trimmed == "" {
		return false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
