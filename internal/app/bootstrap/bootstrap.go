package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accesscontrol "agrilink/contexts/trust-network/access-control"
	accesspostgres "agrilink/contexts/trust-network/access-control/adapters/postgres"
	datasharing "agrilink/contexts/trust-network/data-sharing"
	dataevents "agrilink/contexts/trust-network/data-sharing/adapters/events"
	datamemory "agrilink/contexts/trust-network/data-sharing/adapters/memory"
	datapostgres "agrilink/contexts/trust-network/data-sharing/adapters/postgres"
	relationshipregistry "agrilink/contexts/trust-network/relationship-registry"
	registryevents "agrilink/contexts/trust-network/relationship-registry/adapters/events"
	registrymemory "agrilink/contexts/trust-network/relationship-registry/adapters/memory"
	registrypostgres "agrilink/contexts/trust-network/relationship-registry/adapters/postgres"
	registryworkers "agrilink/contexts/trust-network/relationship-registry/application/workers"
	"agrilink/internal/platform/config"
	"agrilink/internal/platform/db"
	"agrilink/internal/platform/httpserver"
	"agrilink/internal/platform/messaging"
	"agrilink/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  registryworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		if !cfg.SeedMemoryFixtures {
			return nil, errors.New("POSTGRES_DSN is required when SEED_MEMORY_FIXTURES is disabled")
		}
		return buildMemoryAPI(cfg, logger), nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := relationshipregistry.NewModule(relationshipregistry.Dependencies{
		Relationships: registryRepo,
		Invitations:   registryRepo,
		Users:         registryRepo,
		Tokens:        registrypostgres.UUIDTokenIssuer{TTL: cfg.InvitationTTL},
		Notifier:      registrypostgres.NewOutboxNotifier(registryRepo),
		Clock:         registrypostgres.SystemClock{},
		IDGenerator:   registrypostgres.UUIDGenerator{},
		Logger:        logger,
	})

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	accessModule := accesscontrol.NewModule(accesscontrol.Dependencies{
		Users:         accessRepo,
		Relationships: accessRepo,
		Clock:         accesspostgres.SystemClock{},
		Logger:        logger,
	})

	dataRepo := datapostgres.NewRepository(pg.DB, logger)
	dataModule := datasharing.NewModule(datasharing.Dependencies{
		Records:       dataRepo,
		Relationships: dataRepo,
		Users:         dataRepo,
		Notifier:      datapostgres.NewOutboxNotifier(dataRepo),
		Clock:         datapostgres.SystemClock{},
		IDGenerator:   datapostgres.UUIDGenerator{},
		Logger:        logger,
	})

	instruments := metrics.New(cfg.ServiceName)
	server := httpserver.New(registryModule, accessModule, dataModule, instruments, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// buildMemoryAPI wires the API against the seeded in-memory stores, with
// notifications published straight to the in-process bus instead of the
// transactional outbox.
func buildMemoryAPI(cfg config.Config, logger *slog.Logger) *APIApp {
	bus := messaging.NewBus(logger)

	registryStore := registrymemory.NewStore()
	registryModule := relationshipregistry.NewModule(relationshipregistry.Dependencies{
		Relationships: registryStore,
		Invitations:   registryStore,
		Users:         registryStore,
		Tokens:        registryStore,
		Notifier:      registryevents.NewNotifier(bus, logger),
		Clock:         registryStore,
		IDGenerator:   registryStore,
		Logger:        logger,
	})

	accessModule := accesscontrol.NewInMemoryModule(logger)

	dataStore := datamemory.NewStore()
	dataModule := datasharing.NewModule(datasharing.Dependencies{
		Records:       dataStore,
		Relationships: dataStore,
		Users:         dataStore,
		Notifier:      dataevents.NewNotifier(bus, logger),
		Clock:         dataStore,
		IDGenerator:   dataStore,
		Logger:        logger,
	})

	instruments := metrics.New(cfg.ServiceName)
	server := httpserver.New(registryModule, accessModule, dataModule, instruments, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		logger: logger,
	}
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: registryworkers.OutboxRelay{
			Outbox:    registryRepo,
			Publisher: bus,
			Clock:     registrypostgres.SystemClock{},
			Topic:     "trust.notifications",
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
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

func (w *WorkerApp) Run(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
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
