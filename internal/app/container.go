package app

import (
	"context"
	"fmt"

	"github.com/fairflicks/fairflicks-go/internal/config"
	"github.com/fairflicks/fairflicks-go/internal/server"
	"github.com/fairflicks/fairflicks-go/internal/service/ai"
	"github.com/fairflicks/fairflicks-go/internal/service/cache"
	"github.com/fairflicks/fairflicks-go/internal/service/catalog"
	"github.com/fairflicks/fairflicks-go/internal/service/database"
	"github.com/fairflicks/fairflicks-go/internal/service/profile"
	"github.com/fairflicks/fairflicks-go/internal/service/recommend"
	"go.uber.org/zap"
)

// Container owns every assembled service and the order they are torn
// down in.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Cache        *cache.CacheService
	Postgres     *database.PostgresService
	Interactions *database.InteractionRepository
	Catalog      *catalog.CatalogService
	AIManager    *ai.Manager
	Profiles     *profile.Store
	Recommender  *recommend.Service
	BiasAnalyzer *recommend.BiasAnalyzer
	Server       *server.Server

	closers []func() error
}

// Build wires the dependency graph bottom-up. On any failure it closes
// what was already opened and returns the error.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, c.fail(fmt.Errorf("cache service: %w", err))
	}
	c.Cache = cacheSvc
	c.pushCloser(cacheSvc.Close)

	if cfg.AnalyticsEnabled() {
		postgres, err := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if err != nil {
			return nil, c.fail(fmt.Errorf("postgres service: %w", err))
		}
		c.Postgres = postgres
		c.pushCloser(postgres.Close)

		c.Interactions = database.NewInteractionRepository(postgres, logger)
		if err := c.Interactions.EnsureSchema(ctx); err != nil {
			return nil, c.fail(fmt.Errorf("interaction schema: %w", err))
		}
	} else {
		logger.Info("Postgres not configured, interaction analytics disabled")
	}

	scraper := catalog.NewScraperService(cacheSvc, logger)
	catalogSvc, err := catalog.NewCatalogService(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cacheSvc, scraper, logger)
	if err != nil {
		return nil, c.fail(fmt.Errorf("catalog service: %w", err))
	}
	c.Catalog = catalogSvc

	gemini, err := ai.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		return nil, c.fail(fmt.Errorf("gemini provider: %w", err))
	}

	var fallback ai.Provider
	if cfg.OpenAI.APIKey != "" {
		fallback = ai.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	}

	manager, err := ai.NewManager(ai.ManagerConfig{
		Primary:        gemini,
		Fallback:       fallback,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, c.fail(fmt.Errorf("ai manager: %w", err))
	}
	c.AIManager = manager

	c.Profiles = profile.NewStore(ctx, cacheSvc, logger)
	c.Recommender = recommend.NewService(manager, logger)
	c.BiasAnalyzer = recommend.NewBiasAnalyzer(manager, logger)

	c.Server = server.New(cfg.Server.Addr, &server.Dependencies{
		Profiles:     c.Profiles,
		Recommender:  c.Recommender,
		BiasAnalyzer: c.BiasAnalyzer,
		Catalog:      catalogSvc,
		Interactions: c.Interactions,
		Logger:       logger,
	})

	return c, nil
}

func (c *Container) pushCloser(fn func() error) {
	c.closers = append(c.closers, fn)
}

func (c *Container) fail(err error) error {
	c.Close()
	return err
}

// Close tears services down in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Failed to close service", zap.Error(err))
		}
	}
	c.closers = nil
}
