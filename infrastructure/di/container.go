package di

import (
	"ifn-backend/application/commands/bus"
	"ifn-backend/application/listview"
	querybus "ifn-backend/application/queries/bus"
	domainconfig "ifn-backend/domain/config"
	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/config"
	"ifn-backend/infrastructure/observability"
	"ifn-backend/infrastructure/persistence/memory"
	"ifn-backend/interfaces/http/rest"
	pkgobservability "ifn-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Settings    domainconfig.ListingSource
	Collections *inventory.Registry
	Catalog     *memory.Catalog
	Sources     *RecordSources
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	ListViews   *listview.Registry
	Metrics     *observability.Collector
	Tracer      *pkgobservability.Tracer
	Router      *rest.Router
}
