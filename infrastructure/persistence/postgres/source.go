// Package postgres stores collections in a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"ifn-backend/domain/inventory"
	"ifn-backend/infrastructure/persistence/sqlstore"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"go.uber.org/zap"
)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/ifn?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Dialect is the Postgres flavour of the collections table
var Dialect = sqlstore.Dialect{
	Name: "postgres",
	CreateTable: `CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	Select: `SELECT payload FROM collections WHERE name = $1`,
	Upsert: `INSERT INTO collections (name, payload) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
}

// Open connects to dsn, falling back to a local database
func Open(ctx context.Context, dsn string, collections *inventory.Registry, logger *zap.Logger) (*sqlstore.Source, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	src, err := sqlstore.New(ctx, db, Dialect, collections, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}

// OverrideSQLOpen swaps the opener used by Open and returns a restore func
func OverrideSQLOpen(fn func(driver, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}
