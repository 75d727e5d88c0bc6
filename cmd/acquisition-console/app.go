package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"acquisition-console/internal/clients/lookup"
	"acquisition-console/internal/clients/prediction"
	"acquisition-console/internal/common/config"
	"acquisition-console/internal/common/database"
	"acquisition-console/internal/common/logger"
	"acquisition-console/internal/common/observability"
	"acquisition-console/internal/normalize"
	"acquisition-console/internal/server"
	"acquisition-console/internal/view"
	"acquisition-console/pkg/registry"
)

// app holds every wired component of one console process.
type app struct {
	cfg        *config.Config
	zap        *zap.Logger
	log        logger.Logger
	obs        *observability.Observability
	controller *view.Controller
	lookup     *lookup.Service
	catalog    *registry.FacetCatalog
	normalizer *normalize.Normalizer
	checks     map[string]server.HealthCheck
	closers    []func() error
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	a := &app{
		cfg:        cfg,
		zap:        zapLog,
		log:        log,
		normalizer: normalize.New(normalize.WithINRRate(cfg.Currency.INRRate)),
		checks:     map[string]server.HealthCheck{},
	}

	a.obs = observability.New(observability.Options{
		ServiceName:    cfg.Tracing.ServiceName,
		TracingEnabled: cfg.Tracing.Enabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Logger:         log,
	})

	catalog, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return nil, err
	}
	a.catalog = catalog

	predictor := prediction.NewClient(cfg.Prediction, log, a.obs)
	a.controller = view.NewController(predictor, log, view.WithObservability(a.obs))

	source, err := a.lookupSource(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.lookup = lookup.NewService(source, cfg.Currency.INRRate, log, a.obs)

	log.Info("console initialized", map[string]interface{}{
		"predictionUrl": cfg.Prediction.BaseURL,
		"lookupBackend": cfg.Lookup.Backend,
		"cacheTtlSec":   cfg.Lookup.CacheTTL,
	})
	return a, nil
}

// lookupSource builds the configured backend, wrapped in the Redis cache
// when cache_ttl is set.
func (a *app) lookupSource(ctx context.Context) (lookup.Source, error) {
	cfg := a.cfg
	var source lookup.Source

	switch cfg.Lookup.Backend {
	case config.LookupBackendDataset:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err = pg.Ping(ctx); err != nil {
				_ = pg.Close()
			}
			return err
		}, 5, 2*time.Second, a.log, "PostgreSQL connection")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		a.checks["postgres"] = pg.Ping

		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 5, 2*time.Second, a.log, "Elasticsearch connection")
		if err != nil {
			return nil, err
		}
		a.checks["elasticsearch"] = es.Ping

		source = lookup.NewDatasetSource(es, cfg.Lookup.CompanyIndex, pg, cfg.Lookup.CompetitorLimit)
	default:
		source = lookup.NewHTTPSource(cfg.Lookup)
	}

	if cfg.Lookup.CacheTTL > 0 {
		redis := database.NewRedis(cfg.Database.Redis)
		if err := redis.Ping(ctx); err != nil {
			// Cache errors are bypassed per call.
			a.log.Warn("redis unreachable at startup", map[string]interface{}{"error": err})
		}
		a.closers = append(a.closers, redis.Close)
		a.checks["redis"] = redis.Ping
		source = lookup.NewCachedSource(source, redis, time.Duration(cfg.Lookup.CacheTTL)*time.Second, a.log)
	}

	return source, nil
}

func (a *app) server() *server.Server {
	return server.New(a.cfg.Server, server.Deps{
		Controller: a.controller,
		Lookup:     a.lookup,
		Catalog:    a.catalog,
		Normalizer: a.normalizer,
		Checks:     a.checks,
		Logger:     a.log,
	})
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]interface{}{"error": err})
		}
	}
	a.obs.Shutdown()
	_ = a.zap.Sync()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			log.Info(operationName+" established", nil)
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
