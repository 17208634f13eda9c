// Package sqlite stores collections in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/persistence/sqlstore"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const defaultPath = "ifn.db"

// Dialect is the SQLite flavour of the collections table
var Dialect = sqlstore.Dialect{
	Name: "sqlite",
	CreateTable: `CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	Select: `SELECT payload FROM collections WHERE name = ?`,
	Upsert: `INSERT INTO collections (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
}

// Open opens or creates the database at path
func Open(ctx context.Context, path string, collections *inventory.Registry, logger *zap.Logger) (*sqlstore.Source, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	src, err := sqlstore.New(ctx, db, Dialect, collections, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}
