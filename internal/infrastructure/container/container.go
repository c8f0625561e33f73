// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	assistantapp "github.com/caribbeanrecipe/assistant/internal/application/assistant"
	contentapp "github.com/caribbeanrecipe/assistant/internal/application/content"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/ai/openrouter"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/cache"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/http/handlers"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/http/server"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/monitoring"
	gormRepo "github.com/caribbeanrecipe/assistant/internal/infrastructure/persistence/gorm"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/spoonacular"
	"github.com/caribbeanrecipe/assistant/internal/ports/outbound"
	"github.com/caribbeanrecipe/assistant/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	GatewayModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Environment == "development",
		})
	},
)

// MonitoringModule provides the Prometheus registry and collectors
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return registry
	},
	func(registry *prometheus.Registry) *monitoring.Metrics {
		return monitoring.New(registry)
	},
)

// DatabaseModule provides the database connection
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := gormRepo.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Database),
		)
		return db, nil
	},
)

// CacheModule provides the featured content cache
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.FeaturedCache {
		if !cfg.Redis.Enabled {
			log.Info("redis disabled, featured content served without cache")
			return cache.NoopFeaturedCache{}
		}
		client := cache.NewRedisClient(cfg.Redis)
		return cache.NewFeaturedCache(client, cfg.Redis.FeaturedTTL, log)
	},
)

// GatewayModule provides the external service clients
var GatewayModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.Metrics) outbound.ModelGateway {
		return openrouter.NewClient(cfg.OpenRouter, log, metrics)
	},
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.Metrics) outbound.RecipeSearchAPI {
		return spoonacular.NewClient(cfg.Spoonacular, log, metrics)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewContentRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		gateway outbound.ModelGateway,
		recipes outbound.RecipeRepository,
		search outbound.RecipeSearchAPI,
		log *zap.Logger,
		metrics *monitoring.Metrics,
	) *assistantapp.Orchestrator {
		return assistantapp.NewOrchestrator(gateway, recipes, search, log, metrics)
	},
	func(
		gateway outbound.ModelGateway,
		repo outbound.ContentRepository,
		featuredCache outbound.FeaturedCache,
		cfg *config.Config,
		log *zap.Logger,
	) *contentapp.Service {
		return contentapp.NewService(gateway, repo, featuredCache, cfg.Content, log)
	},
)

// HTTPModule provides HTTP handlers and the server
var HTTPModule = fx.Provide(
	handlers.NewAssistantHandlers,
	handlers.NewContentHandlers,
	server.NewServer,
)

// LifecycleModule manages startup and shutdown
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("HTTP server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)
