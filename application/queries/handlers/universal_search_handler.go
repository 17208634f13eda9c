package handlers

import (
	"context"
	"fmt"

	"ifn-backend/application/queries"
	"ifn-backend/application/search"
	"ifn-backend/domain/config"
	"ifn-backend/pkg/errors"
)

// UniversalSearchHandler runs the cross-panel search
type UniversalSearchHandler struct {
	searcher *search.Searcher
	settings config.ListingSource
}

// NewUniversalSearchHandler creates a new universal search handler
func NewUniversalSearchHandler(searcher *search.Searcher, settings config.ListingSource) *UniversalSearchHandler {
	return &UniversalSearchHandler{searcher: searcher, settings: settings}
}

// Handle executes the search query
func (h *UniversalSearchHandler) Handle(ctx context.Context, query queries.UniversalSearchQuery) (*search.Results, error) {
	if !h.settings.Current().EnableSearch {
		return nil, errors.NewFeatureDisabled("universal search")
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	res, err := h.searcher.Search(query.Term)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
