package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	clientselfservice "sscd/contexts/identity-access/client-self-service"
	sscqueries "sscd/contexts/identity-access/client-self-service/application/queries"
	sscerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	sschttp "sscd/contexts/identity-access/client-self-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "sscd/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	selfService clientselfservice.Module
}

func New(
	selfService clientselfservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		selfService: selfService,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	// The swagger mount must stay method-qualified: a bare "/swagger/"
	// pattern overlaps "OPTIONS /" with neither more specific, which the
	// mux rejects at registration.
	s.mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Covers the whole API subtree; method-disjoint from every other route.
	s.mux.HandleFunc("OPTIONS /", s.handlePreflight)

	s.mux.HandleFunc("GET /{$}", s.handleGatewayStatus)
	s.mux.HandleFunc("GET /clients", s.handleListClients)
	s.mux.HandleFunc("POST /clients", s.handleCreateClient)
	s.mux.HandleFunc("GET /clients/{client_id}", s.handleGetClient)
	s.mux.HandleFunc("PUT /clients/{client_id}", s.handleUpdateClient)
	s.mux.HandleFunc("DELETE /clients/{client_id}", s.handleDeleteClient)
	s.mux.HandleFunc("POST /clients/{client_id}/secret/regenerate", s.handleRegenerateSecret)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	decision, err := s.selfService.Handler.AuthorizeHandler(r.Context(), bearerToken(r), true)
	applyCORS(w, r, decision.CORS)
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	writePreflight(w)
}

func (s *Server) handleGatewayStatus(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sschttp.GatewayStatusResponse{
		UserID:   decision.Principal.User.ID,
		Username: decision.Principal.User.Username,
	})
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	resp, err := s.selfService.Handler.ListClientsHandler(r.Context(), decision.Principal)
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	var req sschttp.WritableClientRepresentation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSelfServiceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.selfService.Handler.CreateClientHandler(r.Context(), decision.Principal, req)
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	resp, err := s.selfService.Handler.GetClientHandler(r.Context(), decision.Principal, r.PathValue("client_id"))
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	var req sschttp.WritableClientRepresentation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSelfServiceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if _, err := s.selfService.Handler.UpdateClientHandler(r.Context(), decision.Principal, r.PathValue("client_id"), req); err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	if err := s.selfService.Handler.DeleteClientHandler(r.Context(), decision.Principal, r.PathValue("client_id")); err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegenerateSecret(w http.ResponseWriter, r *http.Request) {
	decision, ok := s.authorize(w, r)
	if !ok {
		return
	}
	resp, err := s.selfService.Handler.RegenerateSecretHandler(r.Context(), decision.Principal, r.PathValue("client_id"))
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorize runs the gateway for one request and applies the decided CORS
// policy before anything else is written.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (sscqueries.AuthorizationDecision, bool) {
	decision, err := s.selfService.Handler.AuthorizeHandler(r.Context(), bearerToken(r), false)
	applyCORS(w, r, decision.CORS)
	if err != nil {
		writeSelfServiceDomainError(w, err)
		return decision, false
	}
	return decision, true
}

func writeSelfServiceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sscerrors.ErrNotAuthorized):
		writeSelfServiceError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, sscerrors.ErrMisconfigured):
		writeSelfServiceError(w, http.StatusForbidden, "not_activated", err.Error())
	case errors.Is(err, sscerrors.ErrForbidden):
		writeSelfServiceError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, sscerrors.ErrValidation):
		writeSelfServiceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, sscerrors.ErrNotFound):
		writeSelfServiceError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, sscerrors.ErrConflict):
		writeSelfServiceError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeSelfServiceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSelfServiceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sschttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
