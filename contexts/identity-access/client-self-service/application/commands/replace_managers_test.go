package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"sscd/contexts/identity-access/client-self-service/adapters/memory"
	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"
)

func TestValidateManagerSet(t *testing.T) {
	alice := entities.User{ID: "user-alice", Username: "alice"}
	bob := entities.User{ID: "user-bob", Username: "bob"}

	if err := validateManagerSet(nil, alice); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("empty set must be rejected, got %v", err)
	}
	if err := validateManagerSet([]entities.User{bob}, alice); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("set without current user must be rejected, got %v", err)
	}
	if err := validateManagerSet([]entities.User{bob, alice}, alice); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}
}

func TestReplaceManagersDiffAndApply(t *testing.T) {
	store := memory.NewStore()
	uc := ReplaceManagersUseCase{Clients: store, Users: store}

	alice, _, _ := store.FindUserByUsername(context.Background(), "alice")
	bob, _, _ := store.FindUserByUsername(context.Background(), "bob")
	carol, _, _ := store.FindUserByUsername(context.Background(), "carol")

	created, err := store.CreateClient(context.Background(), entities.Client{
		ClientID: "ssc-app",
		Attributes: map[string]string{
			services.ManagerAttributePrefix + alice.ID: services.ManagerAttributeValue,
			services.ManagerAttributePrefix + bob.ID:   services.ManagerAttributeValue,
			"frontchannel.logout.url":                  "https://app.example.test/fc",
		},
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	updated, err := uc.Execute(context.Background(), created, []entities.User{alice, carol}, alice)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	wantIDs := []string{alice.ID, carol.ID}
	gotIDs := services.ManagerUserIDs(updated)
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("manager ids = %v, want %v", gotIDs, wantIDs)
	}
	if updated.Attributes["frontchannel.logout.url"] == "" {
		t.Fatal("non-marker attributes must survive the replacement")
	}

	persisted, _, _ := store.FindByID(context.Background(), created.ID)
	if !reflect.DeepEqual(services.ManagerUserIDs(persisted), wantIDs) {
		t.Fatal("persisted manager set must match the applied one")
	}
}

func TestReplaceManagersEarlyRejectionLeavesSetUntouched(t *testing.T) {
	store := memory.NewStore()
	uc := ReplaceManagersUseCase{Clients: store, Users: store}

	alice, _, _ := store.FindUserByUsername(context.Background(), "alice")
	bob, _, _ := store.FindUserByUsername(context.Background(), "bob")

	created, err := store.CreateClient(context.Background(), entities.Client{
		ClientID:   "ssc-app",
		Attributes: map[string]string{services.ManagerAttributePrefix + alice.ID: services.ManagerAttributeValue},
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	if _, err := uc.Execute(context.Background(), created, []entities.User{bob}, alice); !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("removal of current manager must be rejected, got %v", err)
	}

	persisted, _, _ := store.FindByID(context.Background(), created.ID)
	if !services.IsManager(persisted, alice.ID) {
		t.Fatal("rejected replacement must not mutate the stored set")
	}
}

func TestExecuteByUsernameAllOrNothing(t *testing.T) {
	store := memory.NewStore()
	uc := ReplaceManagersUseCase{Clients: store, Users: store}

	alice, _, _ := store.FindUserByUsername(context.Background(), "alice")
	created, err := store.CreateClient(context.Background(), entities.Client{
		ClientID:   "ssc-app",
		Attributes: map[string]string{services.ManagerAttributePrefix + alice.ID: services.ManagerAttributeValue},
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	_, err = uc.ExecuteByUsername(context.Background(), created, []string{"alice", "ghost"}, alice)
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("unresolvable username must fail the whole call, got %v", err)
	}

	persisted, _, _ := store.FindByID(context.Background(), created.ID)
	if got := services.ManagerUserIDs(persisted); !reflect.DeepEqual(got, []string{alice.ID}) {
		t.Fatalf("manager set changed on failed resolution: %v", got)
	}
}
