package handlers

import (
	"context"
	"fmt"

	"ifn-backend/application/ports"
	"ifn-backend/application/queries"
	"ifn-backend/application/views"
	"ifn-backend/domain/inventory"
)

// ProblemReportHandler summarises reported problems over a period
type ProblemReportHandler struct {
	catalog     ports.StoreCatalog
	collections *inventory.Registry
}

// NewProblemReportHandler creates a new problem report handler
func NewProblemReportHandler(catalog ports.StoreCatalog, collections *inventory.Registry) *ProblemReportHandler {
	return &ProblemReportHandler{catalog: catalog, collections: collections}
}

// Handle executes the report query
func (h *ProblemReportHandler) Handle(ctx context.Context, query queries.ProblemReportQuery) (*views.ProblemReport, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	collection, store, err := lookup(h.collections, h.catalog, inventory.Problemas)
	if err != nil {
		return nil, err
	}
	from, to := query.Range()
	report := views.BuildProblemReport(store.GetAll(), collection.Schema, from, to)
	return &report, nil
}
