// Package memory holds record collections in process memory.
package memory

import (
	"sort"
	"sync"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/validators"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
)

// Store is the in-memory RecordStore of one collection
type Store struct {
	mu        sync.RWMutex
	records   []*entities.Record
	version   uint64
	validator *validators.RecordValidator
}

var _ ports.RecordStore = (*Store)(nil)

// NewStore creates a store holding records
func NewStore(records []*entities.Record) (*Store, error) {
	s := &Store{validator: validators.NewRecordValidator()}
	if err := s.Replace(records); err != nil {
		return nil, err
	}
	s.version = 0
	return s, nil
}

// GetAll returns a copy of the collection
func (s *Store) GetAll() []*entities.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entities.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Replace swaps the collection. Duplicate ids reject the whole collection and
// leave the previous one in place.
func (s *Store) Replace(records []*entities.Record) error {
	if _, err := s.validator.ValidateCollection(records); err != nil {
		return err
	}
	next := make([]*entities.Record, len(records))
	copy(next, records)

	s.mu.Lock()
	s.records = next
	s.version++
	s.mu.Unlock()
	return nil
}

// Version returns the replace counter
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the collection size
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Catalog holds one store per collection. The set of collections is fixed at construction.
type Catalog struct {
	stores map[inventory.Name]*Store
}

var _ ports.StoreCatalog = (*Catalog)(nil)

// NewCatalog creates empty stores for the given collections
func NewCatalog(names ...inventory.Name) *Catalog {
	c := &Catalog{stores: make(map[inventory.Name]*Store, len(names))}
	for _, n := range names {
		c.stores[n] = &Store{validator: validators.NewRecordValidator()}
	}
	return c
}

// Store returns the store of a collection
func (c *Catalog) Store(name inventory.Name) (ports.RecordStore, error) {
	s, ok := c.stores[name]
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(name)).WithCode(errors.CodeUnknownCollection)
	}
	return s, nil
}

// Names returns the collection names in sorted order
func (c *Catalog) Names() []inventory.Name {
	names := make([]inventory.Name, 0, len(c.stores))
	for n := range c.stores {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Seed replaces the contents of a collection
func (c *Catalog) Seed(name inventory.Name, records []*entities.Record) error {
	s, err := c.Store(name)
	if err != nil {
		return err
	}
	return s.Replace(records)
}
