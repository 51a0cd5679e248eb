package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-city-info-api/app/db"
	"github.com/FACorreiaa/go-city-info-api/app/mail"
	"github.com/FACorreiaa/go-city-info-api/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-api/config"
	"github.com/FACorreiaa/go-city-info-api/internal/api/city"
	"github.com/FACorreiaa/go-city-info-api/internal/api/poi"
	"github.com/FACorreiaa/go-city-info-api/internal/repository"
	"github.com/FACorreiaa/go-city-info-api/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool // nil with the memory driver
	Repositories repository.Provider
	Mailer       mail.Service
	CityHandler  *city.Handler
	POIHandler   *poi.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.AppMetrics) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	repos, err := c.initRepositories(ctx, m)
	if err != nil {
		c.Close()
		return nil, err
	}
	if ttl := cfg.Cache.CitiesTTL; ttl > 0 {
		repos = repository.NewCachedProvider(repos, ttl)
	}
	c.Repositories = repos

	mailer, err := mail.New(*cfg, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize mail service: %w", err)
	}
	c.Mailer = mailer

	cityService := city.NewServiceImpl(repos, logger)
	c.CityHandler = city.NewCityHandler(cityService, logger)

	poiService := poi.NewServiceImpl(repos, mailer, m, cfg.Mail.Timeout, logger)
	c.POIHandler = poi.NewHandlerImpl(poiService, logger)

	logger.Info("Container initialized",
		slog.String("storage", cfg.Storage.Driver),
		slog.String("mail", cfg.MailDriver()),
	)
	return c, nil
}

func (c *Container) initRepositories(ctx context.Context, m *metrics.AppMetrics) (repository.Provider, error) {
	switch c.Config.Storage.Driver {
	case config.StorageMemory:
		store := repository.NewMemoryStore(repository.SeedCities())
		return repository.NewMemoryProvider(store, c.Logger), nil

	case config.StoragePostgres:
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to generate database config: %w", err)
		}
		if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		pool, err := database.Init(ctx, dbConfig, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		c.Pool = pool

		if !database.WaitForDB(ctx, pool, c.Logger) {
			return nil, errors.New("database not ready after waiting")
		}
		if err = repository.EnsureSeedData(ctx, pool, repository.SeedCities(), c.Logger); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		return repository.NewPostgresProvider(pool, c.Logger, m), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
	}
}

// RouterConfig hands the container's handlers to the router.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		CityHandler:    c.CityHandler,
		POIHandler:     c.POIHandler,
		AllowedOrigins: c.Config.Server.AllowedOrigins,
	}
}

// Close releases the database pool, if any.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("Database pool closed")
	}
}
