package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	clientselfservice "sscd/contexts/identity-access/client-self-service"
	"sscd/contexts/identity-access/client-self-service/domain/entities"
	"sscd/contexts/identity-access/client-self-service/ports"
	sschttp "sscd/contexts/identity-access/client-self-service/transport/http"
)

func newTestServer() *Server {
	module := clientselfservice.NewInMemoryModule(nil)
	return New(module, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestPreflightNeedsNoAuthorization(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/clients", nil)
	req.Header.Set("Origin", "https://clients.example.test")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight allow-origin = %q, want *", got)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight must advertise allowed methods")
	}
}

func TestSwaggerMountCoexistsWithPreflight(t *testing.T) {
	// Registration itself must not conflict: the swagger mount is
	// method-qualified so "OPTIONS /" can cover its subtree too.
	server := newTestServer()

	swaggerReq := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	swaggerRR := httptest.NewRecorder()
	server.mux.ServeHTTP(swaggerRR, swaggerReq)
	if swaggerRR.Code != http.StatusOK {
		t.Fatalf("swagger ui: expected 200, got %d", swaggerRR.Code)
	}

	preflightReq := httptest.NewRequest(http.MethodOptions, "/swagger/doc.json", nil)
	preflightRR := httptest.NewRecorder()
	server.mux.ServeHTTP(preflightRR, preflightReq)
	if preflightRR.Code != http.StatusOK {
		t.Fatalf("preflight on swagger subtree: expected 200, got %d body=%s", preflightRR.Code, preflightRR.Body.String())
	}
	if preflightRR.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight must advertise allowed methods")
	}
}

func TestClientsEndpointRequiresToken(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodGet, "/clients", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestClientsEndpointRequiresManagerRole(t *testing.T) {
	server := newTestServer()
	server.selfService.Store.RegisterToken("token-norole", ports.Principal{
		User: entities.User{ID: "user-norole", Username: "norole"},
		Token: entities.AccessToken{
			Subject:     "user-norole",
			Username:    "norole",
			RealmAccess: &entities.RoleGrants{Roles: []string{"default-roles"}},
		},
	})

	rr := doJSON(t, server, http.MethodGet, "/clients", "token-norole", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGatewayStatus(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodGet, "/", "token-alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var status sschttp.GatewayStatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Username != "alice" || status.UserID == "" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestSuccessfulRequestEchoesRegisteredOrigin(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("Authorization", "Bearer token-alice")
	req.Header.Set("Origin", "https://clients.example.test")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://clients.example.test" {
		t.Fatalf("allow-origin = %q", got)
	}

	foreign := httptest.NewRequest(http.MethodGet, "/clients", nil)
	foreign.Header.Set("Authorization", "Bearer token-alice")
	foreign.Header.Set("Origin", "https://evil.example.test")
	rr2 := httptest.NewRecorder()
	server.mux.ServeHTTP(rr2, foreign)
	if rr2.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("foreign origin must not be echoed")
	}
}

func TestSelfServiceClientLifecycle(t *testing.T) {
	server := newTestServer()

	createBody := map[string]any{
		"clientId": "ssc-lifecycle",
		"name":     "Lifecycle App",
		"managers": []string{"alice", "bob"},
	}
	createRR := doJSON(t, server, http.MethodPost, "/clients", "token-alice", createBody)
	if createRR.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d body=%s", createRR.Code, createRR.Body.String())
	}
	var created sschttp.ClientRepresentation
	if err := json.Unmarshal(createRR.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Secret == "" {
		t.Fatalf("created representation incomplete: %+v", created)
	}

	listRR := doJSON(t, server, http.MethodGet, "/clients", "token-alice", nil)
	if listRR.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d body=%s", listRR.Code, listRR.Body.String())
	}
	var listed []sschttp.ClientRepresentation
	if err := json.Unmarshal(listRR.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ClientID != "ssc-lifecycle" {
		t.Fatalf("unexpected list: %+v", listed)
	}

	// bob is a manager too and must see the client.
	bobListRR := doJSON(t, server, http.MethodGet, "/clients", "token-bob", nil)
	var bobListed []sschttp.ClientRepresentation
	if err := json.Unmarshal(bobListRR.Body.Bytes(), &bobListed); err != nil {
		t.Fatalf("decode bob list: %v", err)
	}
	if len(bobListed) != 1 {
		t.Fatalf("bob must see the shared client, got %+v", bobListed)
	}

	// carol is no manager and must neither see nor reach it.
	carolGetRR := doJSON(t, server, http.MethodGet, "/clients/"+created.ID, "token-carol", nil)
	if carolGetRR.Code != http.StatusForbidden {
		t.Fatalf("carol get: expected 403, got %d body=%s", carolGetRR.Code, carolGetRR.Body.String())
	}

	updateBody := map[string]any{
		"clientId": "ssc-lifecycle",
		"name":     "Renamed App",
		"managers": []string{"alice"},
	}
	updateRR := doJSON(t, server, http.MethodPut, "/clients/"+created.ID, "token-alice", updateBody)
	if updateRR.Code != http.StatusNoContent {
		t.Fatalf("update: expected 204, got %d body=%s", updateRR.Code, updateRR.Body.String())
	}

	// bob was removed from the manager set by the update.
	bobGetRR := doJSON(t, server, http.MethodGet, "/clients/"+created.ID, "token-bob", nil)
	if bobGetRR.Code != http.StatusForbidden {
		t.Fatalf("bob get after removal: expected 403, got %d body=%s", bobGetRR.Code, bobGetRR.Body.String())
	}

	secretRR := doJSON(t, server, http.MethodPost, "/clients/"+created.ID+"/secret/regenerate", "token-alice", nil)
	if secretRR.Code != http.StatusOK {
		t.Fatalf("regenerate: expected 200, got %d body=%s", secretRR.Code, secretRR.Body.String())
	}
	var rotated sschttp.ClientRepresentation
	if err := json.Unmarshal(secretRR.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("decode rotated: %v", err)
	}
	if rotated.Secret == "" || rotated.Secret == created.Secret {
		t.Fatal("secret regeneration must assign a fresh secret")
	}

	deleteRR := doJSON(t, server, http.MethodDelete, "/clients/"+created.ID, "token-alice", nil)
	if deleteRR.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d body=%s", deleteRR.Code, deleteRR.Body.String())
	}

	goneRR := doJSON(t, server, http.MethodGet, "/clients/"+created.ID, "token-alice", nil)
	if goneRR.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d body=%s", goneRR.Code, goneRR.Body.String())
	}
}

func TestCreateClientValidationErrors(t *testing.T) {
	server := newTestServer()

	badPrefixRR := doJSON(t, server, http.MethodPost, "/clients", "token-alice", map[string]any{
		"clientId": "my-app",
		"managers": []string{"alice"},
	})
	if badPrefixRR.Code != http.StatusBadRequest {
		t.Fatalf("bad prefix: expected 400, got %d body=%s", badPrefixRR.Code, badPrefixRR.Body.String())
	}

	noManagersRR := doJSON(t, server, http.MethodPost, "/clients", "token-alice", map[string]any{
		"clientId": "ssc-app",
		"managers": []string{},
	})
	if noManagersRR.Code != http.StatusBadRequest {
		t.Fatalf("no managers: expected 400, got %d body=%s", noManagersRR.Code, noManagersRR.Body.String())
	}

	ghostRR := doJSON(t, server, http.MethodPost, "/clients", "token-alice", map[string]any{
		"clientId": "ssc-app",
		"managers": []string{"alice", "ghost"},
	})
	if ghostRR.Code != http.StatusNotFound {
		t.Fatalf("ghost manager: expected 404, got %d body=%s", ghostRR.Code, ghostRR.Body.String())
	}
}
