package commands

import (
	"context"
	"errors"
	"testing"

	"sscd/contexts/identity-access/client-self-service/adapters/memory"
	application "sscd/contexts/identity-access/client-self-service/application"
	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
	"sscd/contexts/identity-access/client-self-service/ports"
)

func newUpdateFixture(store *memory.Store) UpdateClientUseCase {
	managers := ReplaceManagersUseCase{Clients: store, Users: store}
	return UpdateClientUseCase{
		Clients:  store,
		Users:    store,
		Managers: managers,
		Audit:    store,
		Clock:    store,
	}
}

func createManagedClient(t *testing.T, store *memory.Store, principal ports.Principal, spec ClientSpec) application.ManagedClientView {
	t.Helper()
	view, err := newCreateFixture(store).Execute(context.Background(), principal, spec)
	if err != nil {
		t.Fatalf("fixture create failed: %v", err)
	}
	return view
}

func TestUpdateClientRejectsClientIDChange(t *testing.T) {
	store := memory.NewStore()
	principal := alicePrincipal(store)
	view := createManagedClient(t, store, principal, ClientSpec{ClientID: "ssc-app", Managers: []string{"alice"}})

	_, err := newUpdateFixture(store).Execute(context.Background(), principal, view.Client.ID, ClientSpec{
		ClientID: "ssc-renamed",
		Managers: []string{"alice"},
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateClientForbiddenForNonManager(t *testing.T) {
	store := memory.NewStore()
	alice := alicePrincipal(store)
	view := createManagedClient(t, store, alice, ClientSpec{ClientID: "ssc-app", Managers: []string{"alice"}})

	bobUser, _, _ := store.FindUserByUsername(context.Background(), "bob")
	bob := ports.Principal{User: bobUser}

	_, err := newUpdateFixture(store).Execute(context.Background(), bob, view.Client.ID, ClientSpec{
		ClientID: "ssc-app",
		Managers: []string{"bob"},
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateClientUnknownIDIsNotFound(t *testing.T) {
	store := memory.NewStore()
	principal := alicePrincipal(store)

	_, err := newUpdateFixture(store).Execute(context.Background(), principal, "no-such-id", ClientSpec{
		Managers: []string{"alice"},
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateClientPreservesProtectedFlags(t *testing.T) {
	store := memory.NewStore()
	principal := alicePrincipal(store)
	view := createManagedClient(t, store, principal, ClientSpec{ClientID: "ssc-app", Managers: []string{"alice"}})

	// Force directory-side state a manager must not be able to change.
	seeded := view.Client
	seeded.ServiceAccountsEnabled = true
	seeded.AuthorizationServicesEnabled = true
	if _, err := store.UpdateClient(context.Background(), seeded); err != nil {
		t.Fatalf("seed update failed: %v", err)
	}

	public := true
	updated, err := newUpdateFixture(store).Execute(context.Background(), principal, seeded.ID, ClientSpec{
		ClientID:     "ssc-app",
		PublicClient: &public,
		Managers:     []string{"alice"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if !updated.Client.ServiceAccountsEnabled {
		t.Fatal("service accounts flag must be preserved across updates")
	}
	if updated.Client.AuthorizationServicesEnabled {
		t.Fatal("authorization services must be forced off for a public client")
	}
}

func TestUpdateClientReplacesManagerSetAndLogoutSettings(t *testing.T) {
	store := memory.NewStore()
	principal := alicePrincipal(store)
	view := createManagedClient(t, store, principal, ClientSpec{ClientID: "ssc-app", Managers: []string{"alice", "bob"}})

	sessionRequired := true
	updated, err := newUpdateFixture(store).Execute(context.Background(), principal, view.Client.ID, ClientSpec{
		ClientID: "ssc-app",
		Logout: entities.LogoutSettings{
			BackchannelSessionRequired: &sessionRequired,
			BackchannelLogoutURL:       "https://app.example.test/bc",
		},
		Managers: []string{"alice", "carol"},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	bobUser, _, _ := store.FindUserByUsername(context.Background(), "bob")
	carolUser, _, _ := store.FindUserByUsername(context.Background(), "carol")
	if services.IsManager(updated.Client, bobUser.ID) {
		t.Fatal("bob must have been removed from the manager set")
	}
	if !services.IsManager(updated.Client, carolUser.ID) {
		t.Fatal("carol must have been added to the manager set")
	}

	logout := updated.Client.LogoutSettings()
	if logout.BackchannelSessionRequired == nil || !*logout.BackchannelSessionRequired {
		t.Fatal("backchannel session required flag lost")
	}
	if logout.BackchannelLogoutURL != "https://app.example.test/bc" {
		t.Fatalf("backchannel url = %q", logout.BackchannelLogoutURL)
	}

	// Persisted state must match the returned view.
	persisted, found, _ := store.FindByID(context.Background(), updated.Client.ID)
	if !found {
		t.Fatal("client vanished")
	}
	if !services.IsManager(persisted, carolUser.ID) || services.IsManager(persisted, bobUser.ID) {
		t.Fatal("persisted manager set does not match the returned view")
	}

	events := store.AdminEvents()
	if len(events) != 2 || events[1].Operation != ports.AdminOperationUpdate {
		t.Fatalf("expected create+update audit events, got %v", events)
	}
}
