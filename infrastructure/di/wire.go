//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"ifn-backend/infrastructure/config"
	"ifn-backend/infrastructure/observability"
	"ifn-backend/interfaces/http/rest"
	"ifn-backend/interfaces/http/rest/handlers"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideListingSettings,
	ProvideCollections,
	ProvideRecordSources,
	ProvideCatalog,
	ProvideMetrics,
	ProvideTracer,
	ProvideSearcher,
	ProvideQueryCache,
	ProvideQueryBus,
	ProvideListViewRegistry,
	ProvideCommandBus,
	ProvideErrorHandler,
	ProvideAuthenticator,
	ProvideHealthChecks,
	ProvideRouterOptions,
	handlers.NewRecordHandler,
	handlers.NewCatalogHandler,
	handlers.NewListViewHandler,
	handlers.NewHealthHandler,
	rest.NewRouter,
	wire.Bind(new(handlers.ListViewGauge), new(*observability.Collector)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
