package di

import (
	"context"
	"time"

	"ifn-backend/application/commands"
	"ifn-backend/application/commands/bus"
	commandhandlers "ifn-backend/application/commands/handlers"
	"ifn-backend/application/listview"
	"ifn-backend/application/ports"
	"ifn-backend/application/queries"
	querybus "ifn-backend/application/queries/bus"
	queryhandlers "ifn-backend/application/queries/handlers"
	"ifn-backend/application/search"
	domainconfig "ifn-backend/domain/config"
	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/config"
	"ifn-backend/infrastructure/observability"
	"ifn-backend/infrastructure/persistence/memory"
	"ifn-backend/interfaces/http/rest"
	"ifn-backend/interfaces/http/rest/middleware"
	"ifn-backend/pkg/auth"
	"ifn-backend/pkg/errors"
	pkgobservability "ifn-backend/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName         = "ifn-backend"
	metricsNamespace    = "ifn"
	developmentSecret   = "development-secret-change-in-production"
	sessionSweepEvery   = time.Minute
	cacheSweepEvery     = 5 * time.Minute
	defaultQueryTTL     = time.Minute
	listViewIdleDefault = 30 * time.Minute
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, errors.NewValidationError("invalid LOG_LEVEL " + cfg.LogLevel).WithCause(err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName), zap.String("environment", cfg.Environment)), nil
}

// ProvideListingSettings loads the listing settings. With WatchSettings the
// file is watched and every reader sees the latest valid version.
func ProvideListingSettings(cfg *config.Config, logger *zap.Logger) (domainconfig.ListingSource, func(), error) {
	if cfg.WatchSettings && cfg.SettingsPath != "" {
		watcher, err := config.NewSettingsWatcher(cfg.SettingsPath, cfg.Environment, logger)
		if err != nil {
			return nil, nil, err
		}
		return watcher, watcher.Stop, nil
	}

	settings, err := config.LoadSettings(cfg.SettingsPath, cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	return settings, func() {}, nil
}

// ProvideCollections registers every collection with the configured sentinels
func ProvideCollections(settings domainconfig.ListingSource) *inventory.Registry {
	return inventory.NewRegistry(inventory.Definitions(settings.Current().Sentinels()))
}

// ProvideCatalog creates one store per collection and fills them from the source chain
func ProvideCatalog(ctx context.Context, collections *inventory.Registry, sources *RecordSources, logger *zap.Logger) (*memory.Catalog, error) {
	catalog := memory.NewCatalog(collections.Names()...)
	for _, name := range catalog.Names() {
		records, err := sources.Source.LoadRecords(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", name)
		}
		if err := catalog.Seed(name, records); err != nil {
			return nil, errors.Wrapf(err, "seed %s", name)
		}
		logger.Info("Collection loaded", zap.String("collection", string(name)), zap.Int("records", len(records)))
	}
	return catalog, nil
}

// ProvideMetrics creates the Prometheus collector. It always exists so
// components can record unconditionally; EnableMetrics only controls /metrics.
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *pkgobservability.Tracer {
	return pkgobservability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideQueryCache creates the query result cache
func ProvideQueryCache() (*InMemoryCache, func()) {
	cache := NewInMemoryCache(cacheSweepEvery)
	return cache, cache.Stop
}

// ProvideSearcher creates the universal searcher shared by the search query
// and the search box of every list view
func ProvideSearcher(catalog *memory.Catalog, settings domainconfig.ListingSource) *search.Searcher {
	return search.NewSearcher(catalog, search.DefaultCategories(), settings.Current().SearchMinChars)
}

// ProvideQueryBus creates the query bus and registers every query handler
func ProvideQueryBus(
	cfg *config.Config,
	catalog *memory.Catalog,
	collections *inventory.Registry,
	settings domainconfig.ListingSource,
	searcher *search.Searcher,
	cache *InMemoryCache,
	metrics *observability.Collector,
	tracer *pkgobservability.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	ttl := cfg.QueryCacheTTL
	if ttl <= 0 {
		ttl = defaultQueryTTL
	}

	var middlewares []querybus.Middleware
	if tracer.Enabled() {
		middlewares = append(middlewares, querybus.TracingMiddleware(tracer))
	}
	middlewares = append(middlewares,
		querybus.NewMetricsMiddleware(metrics).Wrap,
		querybus.NewCachingMiddleware(cache, ttl, queries.VersionedKey(catalog)).Wrap,
	)
	qb := querybus.NewQueryBus(middlewares...)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.ListRecordsQuery{}, querybus.Typed(queryhandlers.NewListRecordsHandler(catalog, collections, settings, metrics, logger).Handle)},
		{queries.UniversalSearchQuery{}, querybus.Typed(queryhandlers.NewUniversalSearchHandler(searcher, settings).Handle)},
		{queries.ProblemReportQuery{}, querybus.Typed(queryhandlers.NewProblemReportHandler(catalog, collections).Handle)},
		{queries.ListCollectionsQuery{}, querybus.Typed(queryhandlers.NewListCollectionsHandler(catalog, collections).Handle)},
	}
	for _, reg := range registrations {
		if err := qb.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}
	return qb, nil
}

// ProvideListViewRegistry creates the registry of remote list views and
// starts evicting idle sessions
func ProvideListViewRegistry(
	catalog *memory.Catalog,
	collections *inventory.Registry,
	settings domainconfig.ListingSource,
	searcher *search.Searcher,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*listview.Registry, func()) {
	factory := func(name inventory.Name, roles []string) (*listview.Controller, error) {
		def, ok := collections.Get(name)
		if !ok {
			return nil, errors.NewNotFoundError("collection " + string(name)).WithCode(errors.CodeUnknownCollection)
		}
		store, err := catalog.Store(name)
		if err != nil {
			return nil, err
		}
		cfg := settings.Current()
		opts := listview.Options{
			PageSize:       cfg.PageSize,
			PageWindow:     cfg.PageWindow,
			Debounce:       cfg.DebounceWindow,
			Sentinel:       cfg.CategorySentinel,
			Roles:          roles,
			Logger:         logger,
			Metrics:        metrics,
			DisableStats:   !cfg.EnableStats,
			DisablePresets: !cfg.EnablePresets,
			SearchDebounce: cfg.SearchDebounce,
		}
		if cfg.EnableSearch {
			opts.Search = searcher
		}
		return listview.NewController(def, store, opts)
	}

	idle := settings.Current().SessionIdleTimeout
	if idle <= 0 {
		idle = listViewIdleDefault
	}
	registry := listview.NewRegistry(factory, idle, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go registry.Run(ctx, sessionSweepEvery)
	return registry, cancel
}

// ProvideCommandBus creates the command bus and registers the collection commands
func ProvideCommandBus(
	sources *RecordSources,
	catalog *memory.Catalog,
	collections *inventory.Registry,
	views *listview.Registry,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	cb := bus.NewCommandBus(bus.LoggingMiddleware(logger))

	handler := commandhandlers.NewCollectionHandler(sources.Source, sources.Writer, catalog, collections, views, logger)
	if err := cb.Register(commands.ReloadCollectionCommand{}, bus.Typed(handler.HandleReload)); err != nil {
		return nil, err
	}
	if err := cb.Register(commands.ImportRecordsCommand{}, bus.Typed(handler.HandleImport)); err != nil {
		return nil, err
	}
	return cb, nil
}

// ProvideErrorHandler creates the HTTP error renderer. Outside production it
// includes stack traces.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideAuthenticator creates the request authenticator. In Lambda the API
// Gateway authorizer has validated the token already.
func ProvideAuthenticator(cfg *config.Config, errs *errors.ErrorHandler, logger *zap.Logger) (*middleware.Authenticator, error) {
	var limiter *auth.UserRateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = auth.NewUserRateLimiter(cfg.RateLimitPerMinute)
	}

	if cfg.IsLambda {
		return middleware.NewAuthenticator(nil, limiter, true, errs, logger), nil
	}

	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using the development secret")
		secret = developmentSecret
	}
	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     secret,
		Issuer:        cfg.JWTIssuer,
	})
	if err != nil {
		return nil, err
	}
	return middleware.NewAuthenticator(validator, limiter, false, errs, logger), nil
}

// ProvideHealthChecks lists the dependencies /ready pings
func ProvideHealthChecks(sources *RecordSources) map[string]ports.HealthChecker {
	return sources.Checks
}

// ProvideRouterOptions maps configuration onto router options. Lambda
// requests carry their segment already, so only the server opens one.
func ProvideRouterOptions(cfg *config.Config, metrics *observability.Collector, tracer *pkgobservability.Tracer) rest.Options {
	opts := rest.Options{
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.CORSOrigins,
	}
	if tracer.Enabled() && !cfg.IsLambda {
		opts.Tracing = tracer.Middleware
	}
	if cfg.EnableMetrics {
		opts.MetricsHandler = metrics.Handler()
		opts.Observer = metrics
	}
	return opts
}
