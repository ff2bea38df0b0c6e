package clientselfservice

import (
	"log/slog"

	httpadapter "sscd/contexts/identity-access/client-self-service/adapters/http"
	"sscd/contexts/identity-access/client-self-service/adapters/memory"
	"sscd/contexts/identity-access/client-self-service/application/commands"
	"sscd/contexts/identity-access/client-self-service/application/queries"
	"sscd/contexts/identity-access/client-self-service/ports"
)

// Module is the client-self-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Clients           ports.ClientDirectory
	Users             ports.IdentityDirectory
	Tokens            ports.TokenAuthority
	Audit             ports.AuditPublisher
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	MaxClientsPerUser int
	Logger            *slog.Logger
}

// NewModule wires the self-service use-cases and transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	replaceManagers := commands.ReplaceManagersUseCase{
		Clients: deps.Clients,
		Users:   deps.Users,
		Logger:  deps.Logger,
	}

	authorize := queries.AuthorizeUseCase{
		Clients: deps.Clients,
		Tokens:  deps.Tokens,
		Logger:  deps.Logger,
	}
	listClients := queries.ListClientsUseCase{
		Clients: deps.Clients,
		Users:   deps.Users,
		Logger:  deps.Logger,
	}
	getClient := queries.GetClientUseCase{
		Clients: deps.Clients,
		Users:   deps.Users,
		Logger:  deps.Logger,
	}
	createClient := commands.CreateClientUseCase{
		Clients:           deps.Clients,
		Users:             deps.Users,
		Managers:          replaceManagers,
		Audit:             deps.Audit,
		Clock:             deps.Clock,
		IDGenerator:       deps.IDGenerator,
		MaxClientsPerUser: deps.MaxClientsPerUser,
		Logger:            deps.Logger,
	}
	updateClient := commands.UpdateClientUseCase{
		Clients:  deps.Clients,
		Users:    deps.Users,
		Managers: replaceManagers,
		Audit:    deps.Audit,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	deleteClient := commands.DeleteClientUseCase{
		Clients: deps.Clients,
		Audit:   deps.Audit,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	regenerateSecret := commands.RegenerateSecretUseCase{
		Clients: deps.Clients,
		Users:   deps.Users,
		Audit:   deps.Audit,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}

	handler := httpadapter.Handler{
		Authorize:        authorize,
		ListClients:      listClients,
		GetClient:        getClient,
		CreateClient:     createClient,
		UpdateClient:     updateClient,
		DeleteClient:     deleteClient,
		RegenerateSecret: regenerateSecret,
		Logger:           deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Clients:     store,
		Users:       store,
		Tokens:      store,
		Audit:       store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
