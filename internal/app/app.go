package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/league-engine/internal/config"
	"github.com/riskibarqy/league-engine/internal/domain/jobscheduler"
	"github.com/riskibarqy/league-engine/internal/domain/uow"
	"github.com/riskibarqy/league-engine/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/league-engine/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-engine/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-engine/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-engine/internal/platform/cache"
	idgen "github.com/riskibarqy/league-engine/internal/platform/id"
	"github.com/riskibarqy/league-engine/internal/platform/logging"
	"github.com/riskibarqy/league-engine/internal/platform/resilience"
	"github.com/riskibarqy/league-engine/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

// Container holds the wired services shared by the API and the CLI.
type Container struct {
	Fixtures        *usecase.FixtureService
	Materializer    *usecase.MaterializeService
	Memberships     *usecase.MembershipService
	Triggers        *usecase.TriggerService
	Achievements    *usecase.AchievementService
	JobOrchestrator *usecase.JobOrchestratorService

	logger  *logging.Logger
	closers []func() error
}

// NewContainer opens the configured storage driver and builds every service
// on top of it.
func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Container{logger: logger}

	var (
		tx           uow.Manager
		dispatchRepo jobscheduler.Repository
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		memory.Seed(store)
		tx = store
		dispatchRepo = memory.NewJobDispatchRepository()
		logger.Info("storage ready", "driver", cfg.StorageDriver, "seeded", true)
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)

		opts := []postgres.TxOption{postgres.WithLogger(logger)}
		if cfg.CacheEnabled {
			lookups := cache.NewStore(cfg.CacheTTL)
			opts = append(opts, postgres.WithRepositoryWrapper(func(repos uow.Repositories) uow.Repositories {
				return cacherepo.WrapRepositories(repos, lookups)
			}))
		}
		tx = postgres.NewTxManager(db, opts...)
		dispatchRepo = postgres.NewJobDispatchRepository(db)
		logger.Info("storage ready",
			"driver", cfg.StorageDriver,
			"db_name", dbNameFromURL(cfg.DBURL),
			"cache_enabled", cfg.CacheEnabled,
		)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	c.Fixtures = usecase.NewFixtureService(tx, cfg.LeagueLocation, logger)
	c.Materializer = usecase.NewMaterializeService(tx, idgen.NewUUIDGenerator(), usecase.MaterializeConfig{
		Location:   cfg.LeagueLocation,
		MaxWorkers: cfg.RebuildMaxWorkers,
	}, logger)
	c.Memberships = usecase.NewMembershipService(tx, logger)
	c.Achievements = usecase.NewAchievementService(tx, logger)

	queue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}
	c.JobOrchestrator = usecase.NewJobOrchestratorService(c.Materializer, queue, dispatchRepo, usecase.JobOrchestratorConfig{
		DebounceWindow: cfg.RebuildDebounceWindow,
	}, logger)

	var dispatcher usecase.RebuildDispatcher = usecase.NewInlineDispatcher(c.Materializer)
	if cfg.QStashEnabled {
		dispatcher = c.JobOrchestrator
	}
	c.Triggers = usecase.NewTriggerService(tx, c.Fixtures, c.Memberships, dispatcher, logger)

	return c, nil
}

// Close releases the storage driver.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(max(1, cfg.DBMaxOpenConns/2))
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewHTTPServer(cfg config.Config, c *Container, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Fixtures:        c.Fixtures,
		Materializer:    c.Materializer,
		Triggers:        c.Triggers,
		Achievements:    c.Achievements,
		JobOrchestrator: c.JobOrchestrator,
	}, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
