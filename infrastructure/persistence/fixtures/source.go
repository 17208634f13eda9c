// Package fixtures serves the bundled sample collections.
package fixtures

import (
	"context"
	"embed"
	"fmt"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

//go:embed data/*.json
var data embed.FS

// Source reads collections from the embedded JSON files
type Source struct {
	collections *inventory.Registry
	logger      *zap.Logger
}

var _ ports.RecordSource = (*Source)(nil)

// NewSource creates a fixture source that decodes with the layouts of collections
func NewSource(collections *inventory.Registry, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{collections: collections, logger: logger}
}

// Raw returns the JSON document of a collection
func Raw(collection inventory.Name) ([]byte, error) {
	b, err := data.ReadFile(fmt.Sprintf("data/%s.json", collection))
	if err != nil {
		return nil, errors.NewNotFoundError("fixture " + string(collection)).WithCode(errors.CodeUnknownCollection).WithCause(err)
	}
	return b, nil
}

// LoadRecords decodes a bundled collection. Rows that cannot become records are logged and skipped.
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	def, ok := s.collections.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	raw, err := Raw(collection)
	if err != nil {
		return nil, err
	}
	records, rejected, err := def.Layout.DecodeList(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode fixture %s", collection)
	}
	for _, r := range rejected {
		s.logger.Warn("Skipping fixture row", zap.String("collection", string(collection)), zap.Error(r))
	}
	return records, nil
}

// SeedAll loads every registered collection into the catalog stores
func SeedAll(ctx context.Context, src ports.RecordSource, catalog ports.StoreCatalog) error {
	for _, name := range catalog.Names() {
		records, err := src.LoadRecords(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "load %s", name)
		}
		store, err := catalog.Store(name)
		if err != nil {
			return err
		}
		if err := store.Replace(records); err != nil {
			return errors.Wrapf(err, "seed %s", name)
		}
	}
	return nil
}
