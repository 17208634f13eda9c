package handlers

import (
	"context"
	"fmt"

	"ifn-backend/application/ports"
	"ifn-backend/application/queries"
	"ifn-backend/application/views"
	"ifn-backend/domain/config"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

// ListRecordsHandler renders one page of a collection
type ListRecordsHandler struct {
	catalog     ports.StoreCatalog
	collections *inventory.Registry
	settings    config.ListingSource
	metrics     ports.Metrics
	logger      *zap.Logger
}

// NewListRecordsHandler creates a new list records handler
func NewListRecordsHandler(
	catalog ports.StoreCatalog,
	collections *inventory.Registry,
	settings config.ListingSource,
	metrics ports.Metrics,
	logger *zap.Logger,
) *ListRecordsHandler {
	return &ListRecordsHandler{
		catalog:     catalog,
		collections: collections,
		settings:    settings,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle executes the list records query
func (h *ListRecordsHandler) Handle(ctx context.Context, query queries.ListRecordsQuery) (*queries.ListRecordsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	collection, store, err := lookup(h.collections, h.catalog, query.CollectionName())
	if err != nil {
		return nil, err
	}

	cfg := h.settings.Current()
	req := query.PageRequest()
	if req.Size > cfg.MaxPageSize {
		return nil, errors.NewInvalidPageRequest(req.Number, req.Size).
			WithDetails(map[string]interface{}{"max_page_size": cfg.MaxPageSize})
	}

	criteria := query.Criteria()
	if !cfg.EnablePresets && !collection.Schema.IsSentinel(criteria.Preset) {
		return nil, errors.NewFeatureDisabled("presets")
	}

	version := store.Version()
	page, prepared, err := listing.Run(store.GetAll(), criteria, collection.Schema, req)
	if err != nil {
		return nil, err
	}

	if n := len(prepared.Malformed); n > 0 {
		h.logger.Warn("Excluded malformed records",
			zap.String("collection", string(collection.Name)),
			zap.Int("count", n),
		)
	}
	if h.metrics != nil {
		h.metrics.PipelineRun(string(collection.Name), "query")
		h.metrics.MalformedRecords(string(collection.Name), len(prepared.Malformed))
	}

	renderer := views.NewRenderer(collection, cfg.PageWindow).WithRoles(query.Roles)
	result := &queries.ListRecordsResult{
		Model:     renderer.Render(page),
		Malformed: views.Reports(prepared.Malformed),
		Version:   version,
	}
	if cfg.EnableStats {
		stats := views.ComputeStats(prepared.Items)
		result.Stats = &stats
	}
	return result, nil
}

func lookup(collections *inventory.Registry, catalog ports.StoreCatalog, name inventory.Name) (inventory.Collection, ports.RecordStore, error) {
	collection, ok := collections.Get(name)
	if !ok {
		return inventory.Collection{}, nil, errors.NewNotFoundError("collection " + string(name)).
			WithCode(errors.CodeUnknownCollection)
	}
	store, err := catalog.Store(name)
	if err != nil {
		return inventory.Collection{}, nil, err
	}
	return collection, store, nil
}
