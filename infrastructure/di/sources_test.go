package di

import (
	"context"
	"path/filepath"
	"testing"

	"ifn-backend/domain/config"
	"ifn-backend/domain/inventory"
	appconfig "ifn-backend/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testCollections() *inventory.Registry {
	return inventory.NewRegistry(inventory.Definitions(config.LoadListingConfig("test").Sentinels()))
}

func TestProvideRecordSources_Fixtures(t *testing.T) {
	cfg := &appconfig.Config{SourceDriver: appconfig.DriverFixtures}

	sources, cleanup, err := ProvideRecordSources(context.Background(), cfg, testCollections(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, sources.Writer)
	assert.Empty(t, sources.Checks)

	records, err := sources.Source.LoadRecords(context.Background(), inventory.Problemas)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestProvideRecordSources_SQLiteSeedsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := &appconfig.Config{
		SourceDriver:   appconfig.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "ifn.db"),
		SeedFromBundle: true,
	}
	collections := testCollections()
	logger := zaptest.NewLogger(t)

	for i := 0; i < 2; i++ {
		sources, cleanup, err := ProvideRecordSources(ctx, cfg, collections, logger)
		require.NoError(t, err)

		assert.NotNil(t, sources.Writer)
		assert.Contains(t, sources.Checks, appconfig.DriverSQLite)

		records, err := sources.Source.LoadRecords(ctx, inventory.Muestras)
		require.NoError(t, err)
		assert.Len(t, records, 7)
		cleanup()
	}
}

func TestProvideRecordSources_UnknownDriver(t *testing.T) {
	cfg := &appconfig.Config{SourceDriver: "cassandra"}

	_, _, err := ProvideRecordSources(context.Background(), cfg, testCollections(), zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "cassandra")
}
