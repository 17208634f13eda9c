package handlers

import (
	"context"

	"ifn-backend/application/ports"
	"ifn-backend/application/queries"
	"ifn-backend/domain/inventory"
)

// ListCollectionsHandler describes every registered collection
type ListCollectionsHandler struct {
	catalog     ports.StoreCatalog
	collections *inventory.Registry
}

// NewListCollectionsHandler creates a new list collections handler
func NewListCollectionsHandler(catalog ports.StoreCatalog, collections *inventory.Registry) *ListCollectionsHandler {
	return &ListCollectionsHandler{catalog: catalog, collections: collections}
}

// Handle executes the list collections query
func (h *ListCollectionsHandler) Handle(ctx context.Context, _ queries.ListCollectionsQuery) (*queries.ListCollectionsResult, error) {
	result := &queries.ListCollectionsResult{Collections: []queries.CollectionInfo{}}
	for _, name := range h.collections.Names() {
		collection, store, err := lookup(h.collections, h.catalog, name)
		if err != nil {
			return nil, err
		}
		info := queries.CollectionInfo{
			Name:          string(collection.Name),
			Title:         collection.Title,
			SearchFields:  collection.Schema.SearchFields,
			CategoryField: collection.Schema.CategoryField,
			DateField:     collection.Schema.DateField,
			Version:       store.Version(),
			Count:         len(store.GetAll()),
		}
		for _, p := range collection.Schema.Presets {
			info.Presets = append(info.Presets, queries.PresetInfo{Name: p.Name, Label: p.Label})
		}
		result.Collections = append(result.Collections, info)
	}
	return result, nil
}
