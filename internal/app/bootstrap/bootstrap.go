package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	clientselfservice "sscd/contexts/identity-access/client-self-service"
	eventsadapter "sscd/contexts/identity-access/client-self-service/adapters/events"
	postgresadapter "sscd/contexts/identity-access/client-self-service/adapters/postgres"
	tokenadapter "sscd/contexts/identity-access/client-self-service/adapters/token"
	"sscd/internal/platform/config"
	"sscd/internal/platform/db"
	"sscd/internal/platform/httpserver"
	"sscd/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.TokenHS256Secret) == "" {
		return nil, errors.New("TOKEN_HS256_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.Migrate(); err != nil {
		_ = pg.Close()
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	module := clientselfservice.NewModule(clientselfservice.Dependencies{
		Clients:           repo,
		Users:             repo,
		Tokens:            tokenadapter.NewAuthenticator([]byte(cfg.TokenHS256Secret), cfg.TokenIssuer, logger),
		Audit:             eventsadapter.NewPublisher(kafka, logger),
		Clock:             postgresadapter.SystemClock{},
		IDGenerator:       postgresadapter.UUIDGenerator{},
		MaxClientsPerUser: cfg.MaxClientsPerUser,
		Logger:            logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
