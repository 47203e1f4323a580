package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/Amitro123/EventPulse/internal/attribution"
	"github.com/Amitro123/EventPulse/internal/collector"
	"github.com/Amitro123/EventPulse/internal/handler"
	"github.com/Amitro123/EventPulse/internal/metrics"
	"github.com/Amitro123/EventPulse/internal/provider"
	"github.com/Amitro123/EventPulse/internal/repository"
	"github.com/Amitro123/EventPulse/internal/service"
	"github.com/Amitro123/EventPulse/pkg/config"
	"github.com/Amitro123/EventPulse/pkg/database"
	"github.com/Amitro123/EventPulse/pkg/logger"
	"github.com/Amitro123/EventPulse/pkg/redis"
)

// Container holds all dependencies of the EventPulse API
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher service.DiscoveryPublisher
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics

	// Collection
	Adapters     []provider.Adapter
	Orchestrator *collector.Orchestrator
	Resolver     *attribution.Resolver

	// Repositories
	EventCache repository.EventCache

	// Services
	EventService service.EventService

	// Handlers
	HealthHandler *handler.HealthHandler
	EventHandler  *handler.EventHandler
}

// ContainerConfig contains configuration for building the container.
// DB, Redis and Publisher are optional; nil disables the layer they back.
type ContainerConfig struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *database.PostgresDB
	Redis     *redis.Client
	Publisher service.DiscoveryPublisher
	Registry  *prometheus.Registry
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *ContainerConfig) (*Container, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, fmt.Errorf("container config is required")
	}

	c := &Container{
		Config:    cfg.Config,
		Logger:    cfg.Logger,
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Publisher: cfg.Publisher,
		Registry:  cfg.Registry,
	}
	if c.Logger == nil {
		c.Logger = logger.Get()
	}
	if c.Publisher == nil {
		c.Publisher = service.NewNoOpDiscoveryPublisher()
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	c.Metrics = metrics.New(c.Registry)

	if err := c.initCollection(); err != nil {
		return nil, err
	}
	if err := c.initRepositories(ctx); err != nil {
		return nil, err
	}

	// Initialize services
	c.EventService = service.NewEventService(service.EventServiceDeps{
		Collector: c.Orchestrator,
		Cache:     c.EventCache,
		Resolver:  c.Resolver,
		Hotels:    service.NewHotelLinkBuilder(c.Config.Booking.BaseURL, c.Config.Booking.AffiliateID),
		Publisher: c.Publisher,
		Logger:    c.Logger.With(zap.String("component", "event_service")),
		Metrics:   c.Metrics,
	})

	// Initialize handlers
	checks := map[string]handler.HealthChecker{}
	if c.DB != nil {
		checks["database"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(c.Config.App.Version, checks)
	c.EventHandler = handler.NewEventHandler(c.EventService, c.Config.Booking.DefaultCountryCode, c.Logger)

	return c, nil
}

func (c *Container) initCollection() error {
	opts := provider.DefaultOptions()
	opts.Breaker.OnStateChange = func(name string, from, to gobreaker.State) {
		c.Metrics.SetBreakerState(name, to)
		c.Logger.Warn("provider circuit breaker changed state",
			zap.String("provider", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	adapters, err := provider.NewChain(c.Config, opts, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to build provider chain: %w", err)
	}
	c.Adapters = adapters

	orchestrator, err := collector.New(adapters, collector.Config{
		Mode:           collector.Mode(c.Config.Collector.Mode),
		AdapterTimeout: c.Config.Collector.AdapterTimeout,
	}, c.Logger.With(zap.String("component", "collector")), c.Metrics)
	if err != nil {
		return fmt.Errorf("failed to build collector: %w", err)
	}
	c.Orchestrator = orchestrator
	c.Resolver = attribution.NewResolver()
	return nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	if c.DB != nil {
		store := repository.NewPostgresEventStore(c.DB.Pool())
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare event store: %w", err)
		}
		c.EventCache = store
	} else {
		c.EventCache = repository.NewMemoryEventCache()
	}

	// Wrap with cache if Redis is available
	if c.Redis != nil {
		c.EventCache = repository.NewCachedEventStore(c.EventCache, c.Redis, c.Config.Redis.CacheTTL, c.Logger, c.Metrics)
	}
	return nil
}

// Close releases the resources the container owns
func (c *Container) Close() error {
	return c.Publisher.Close()
}
