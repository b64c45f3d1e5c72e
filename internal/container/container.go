package container

import (
	"context"
	"fmt"
	"os"

	sources "unitestats/adapters/api"
	"unitestats/adapters/postgres"
	"unitestats/app"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/internal"
	"unitestats/internal/api"
	"unitestats/internal/config"
	"unitestats/internal/errors"
	"unitestats/internal/migration"
	"unitestats/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger
	Policy *daterange.Policy

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	MatchRepo    *postgres.MatchRepositoryImpl
	DailyResults ports.DailyResultStore

	// Sources
	CatalogClient *sources.CatalogClient
	StatsClient   *sources.StatsClient

	// Pipeline
	CatalogCache  *app.CatalogCache
	Enricher      *app.StatsEnricher
	StatsService  *app.StatsService
	PeriodService *app.PeriodStatsService
	Aggregation   *app.AggregationService
	Events        *api.EventHub
}

// New creates a new dependency injection container. The pipeline runs
// against the remote stats source when STATS_API_URL is set; otherwise it
// waits for InitWithDatabase to supply the stored-aggregate backend.
func New(cfg *config.Config) (*Container, error) {
	return NewWithClock(cfg, core.SystemClock{})
}

// NewWithClock is New with an explicit clock for the date window
func NewWithClock(cfg *config.Config, clock core.Clock) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel), os.Stderr)
	c := &Container{
		Config: cfg,
		Logger: logger,
		Policy: daterange.NewPolicy(clock),
		Events: api.NewEventHub(logger),
	}

	clientCfg := sources.DefaultClientConfig()
	clientCfg.Timeout = cfg.Sources.HTTPTimeout

	var err error
	c.CatalogClient, err = sources.NewCatalogClient(cfg.Sources.CatalogURL, clientCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog client")
	}
	c.CatalogCache = app.NewCatalogCache(c.CatalogClient, logger)
	c.Enricher = app.NewStatsEnricher(c.CatalogCache, logger)

	if cfg.Sources.StatsURL != "" {
		c.StatsClient, err = sources.NewStatsClient(cfg.Sources.StatsURL, clientCfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create stats client")
		}
		c.StatsService = app.NewStatsService(c.Policy, c.StatsClient, c.Enricher, logger)
		logger.Info("stats source: %s", cfg.Sources.StatsURL)
	}

	return c, nil
}

// ConnectDatabase opens and pings the configured database
func ConnectDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if !cfg.HasDatabase() {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	return db, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.MatchRepo = postgres.NewMatchRepository(db)
	c.DailyResults = postgres.NewDailyResultRepository(db)
	c.wireBackend()

	c.Logger.Info("container initialized with database connection")
	return nil
}

// wireBackend builds the services over the stored aggregates. Without a
// remote stats source the pipeline reads the local store in-process.
func (c *Container) wireBackend() {
	c.PeriodService = app.NewPeriodStatsService(c.DailyResults, c.Policy, c.Config.Batch.PeriodConcurrency, c.Logger)
	if c.MatchRepo != nil {
		c.Aggregation = app.NewAggregationService(c.MatchRepo, c.DailyResults, c.Policy, c.Logger)
	}

	if c.StatsService == nil {
		c.StatsService = app.NewStatsService(c.Policy, c.PeriodService, c.Enricher, c.Logger)
		c.Logger.Info("stats source: stored daily aggregates")
	}
}

// Migrate applies the schema to the connected database
func (c *Container) Migrate(ctx context.Context) error {
	if c.DB == nil {
		return errors.ConfigInvalid("DATABASE_URL is required to run migrations")
	}
	return migration.NewRunner(c.Logger).Run(ctx, c.DB)
}

// Ready reports whether the query pipeline has a stats source
func (c *Container) Ready() error {
	if c.StatsService == nil {
		return errors.ConfigInvalid("no stats source: set STATS_API_URL or DATABASE_URL")
	}
	return nil
}

// NewServer builds the HTTP server over the wired services
func (c *Container) NewServer() (*api.Server, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}
	return api.NewServer(api.Options{
		Stats:       c.StatsService,
		Period:      c.PeriodService,
		Catalog:     c.CatalogCache,
		Events:      c.Events,
		CORSOrigins: c.Config.Server.CORSOrigins,
		Logger:      c.Logger,
	}), nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Events != nil {
		c.Events.Close()
	}

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
