package httpserver

import (
	"net/http"

	"sscd/contexts/identity-access/client-self-service/ports"
)

const (
	corsAllowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowedHeaders = "Authorization, Content-Type"
)

// applyCORS writes the response CORS headers for the decided policy. An open
// policy answers with the wildcard origin; a restricted one echoes the
// request origin only when the token registered it.
func applyCORS(w http.ResponseWriter, r *http.Request, policy ports.CORSPolicy) {
	header := w.Header()
	if policy.AllowAllOrigins {
		header.Set("Access-Control-Allow-Origin", "*")
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" || !policy.AllowsOrigin(origin) {
		return
	}
	header.Set("Access-Control-Allow-Origin", origin)
	header.Set("Access-Control-Allow-Credentials", "true")
	header.Add("Vary", "Origin")
}

// writePreflight completes an OPTIONS preflight exchange.
func writePreflight(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Access-Control-Allow-Methods", corsAllowedMethods)
	header.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
	header.Set("Access-Control-Max-Age", "3600")
	w.WriteHeader(http.StatusOK)
}
