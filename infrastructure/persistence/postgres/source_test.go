package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/infrastructure/persistence/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registry() *inventory.Registry {
	return inventory.NewRegistry(inventory.Definitions(listing.DefaultSentinels))
}

func TestOpen_UsesPgxAndDefaultDSN(t *testing.T) {
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return nil, errors.New("no database")
	})
	defer restore()

	_, err := Open(context.Background(), "", registry(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres")
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, defaultDSN, gotDSN)
}

func TestDialect_UsesNumberedPlaceholders(t *testing.T) {
	assert.Contains(t, Dialect.Select, "$1")
	assert.Contains(t, Dialect.Upsert, "$2")
	assert.Contains(t, Dialect.CreateTable, "JSONB")
}

func TestSource_Integration(t *testing.T) {
	dsn := os.Getenv("IFN_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("IFN_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	reg := registry()
	src, err := Open(ctx, dsn, reg, nil)
	require.NoError(t, err)
	defer src.Close()

	want, err := fixtures.NewSource(reg, nil).LoadRecords(ctx, inventory.Problemas)
	require.NoError(t, err)
	require.NoError(t, src.SaveRecords(ctx, inventory.Problemas, want))

	got, err := src.LoadRecords(ctx, inventory.Problemas)
	require.NoError(t, err)
	assert.Len(t, got, len(want))
}
