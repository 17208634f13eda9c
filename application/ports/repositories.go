package ports

import (
	"context"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
)

// RecordStore holds one collection in memory.
// This is a port in hexagonal architecture - listings only ever read snapshots from it.
type RecordStore interface {
	// GetAll returns a fresh slice with the current collection
	GetAll() []*entities.Record

	// Replace swaps the whole collection atomically; readers see the old or the new one
	Replace(records []*entities.Record) error

	// Version increments on every successful Replace
	Version() uint64
}

// StoreCatalog gives access to the store of every collection
type StoreCatalog interface {
	// Store returns the store for a collection or a not found error
	Store(name inventory.Name) (RecordStore, error)

	// Names lists the collections the catalog holds
	Names() []inventory.Name
}

// RecordSource loads a collection from wherever it is persisted
type RecordSource interface {
	LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error)
}

// RecordWriter persists a full collection. Used to seed sources.
type RecordWriter interface {
	SaveRecords(ctx context.Context, collection inventory.Name, records []*entities.Record) error
}

// HealthChecker is implemented by sources backed by a remote service
type HealthChecker interface {
	Ping(ctx context.Context) error
}
