// Package sqlstore keeps whole collections as JSON documents in a SQL table.
// The sqlite and postgres packages open it with their own driver and dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

// Dialect holds the statements that differ between engines
type Dialect struct {
	Name        string
	CreateTable string
	Select      string
	Upsert      string
}

// Source reads and writes collection documents
type Source struct {
	db          *sql.DB
	dialect     Dialect
	collections *inventory.Registry
	logger      *zap.Logger
}

var (
	_ ports.RecordSource  = (*Source)(nil)
	_ ports.RecordWriter  = (*Source)(nil)
	_ ports.HealthChecker = (*Source)(nil)
)

// New creates the collections table if needed
func New(ctx context.Context, db *sql.DB, dialect Dialect, collections *inventory.Registry, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.ExecContext(ctx, dialect.CreateTable); err != nil {
		return nil, errors.NewDatabaseError(dialect.Name+" create table", err)
	}
	return &Source{db: db, dialect: dialect, collections: collections, logger: logger}, nil
}

// LoadRecords decodes the stored document of a collection. A collection never saved is empty.
func (s *Source) LoadRecords(ctx context.Context, collection inventory.Name) ([]*entities.Record, error) {
	def, ok := s.collections.Get(collection)
	if !ok {
		return nil, errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}

	start := time.Now()
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.dialect.Select, string(collection)).Scan(&payload)
	if stderrors.Is(err, sql.ErrNoRows) {
		return []*entities.Record{}, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError(s.dialect.Name+" select", err)
	}

	records, rejected, err := def.Layout.DecodeList(payload)
	if err != nil {
		return nil, errors.NewDatabaseError(s.dialect.Name+" decode", err)
	}
	for _, r := range rejected {
		s.logger.Warn("Skipping stored row", zap.String("collection", string(collection)), zap.Error(r))
	}
	s.logger.Debug("Loaded collection",
		zap.String("driver", s.dialect.Name),
		zap.String("collection", string(collection)),
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

// SaveRecords overwrites the document of a collection
func (s *Source) SaveRecords(ctx context.Context, collection inventory.Name, records []*entities.Record) error {
	if _, ok := s.collections.Get(collection); !ok {
		return errors.NewNotFoundError("collection " + string(collection)).WithCode(errors.CodeUnknownCollection)
	}
	if records == nil {
		records = []*entities.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, string(collection), payload); err != nil {
		return errors.NewDatabaseError(s.dialect.Name+" upsert", err)
	}
	return nil
}

// Ping checks the connection
func (s *Source) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool
func (s *Source) Close() error {
	return s.db.Close()
}
