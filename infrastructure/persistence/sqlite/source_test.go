package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/infrastructure/persistence/fixtures"
	"ifn-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*inventory.Registry, string) {
	t.Helper()
	reg := inventory.NewRegistry(inventory.Definitions(listing.DefaultSentinels))
	return reg, filepath.Join(t.TempDir(), "data", "ifn.db")
}

func TestSource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	reg, path := openTemp(t)
	src, err := Open(ctx, path, reg, nil)
	require.NoError(t, err)
	defer src.Close()

	want, err := fixtures.NewSource(reg, nil).LoadRecords(ctx, inventory.Muestras)
	require.NoError(t, err)
	require.NoError(t, src.SaveRecords(ctx, inventory.Muestras, want))

	got, err := src.LoadRecords(ctx, inventory.Muestras)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID(), got[i].ID())
		fecha, ok := got[i].Field(inventory.FieldFecha)
		require.True(t, ok)
		assert.Equal(t, valueobjects.KindDay, fecha.Kind())
	}
}

func TestSource_OverwriteAndReopen(t *testing.T) {
	ctx := context.Background()
	reg, path := openTemp(t)

	src, err := Open(ctx, path, reg, nil)
	require.NoError(t, err)
	first := []*entities.Record{entities.MustRecord("1", map[string]valueobjects.FieldValue{"nombre": valueobjects.String("Brigada Norte")})}
	second := []*entities.Record{entities.MustRecord("2", map[string]valueobjects.FieldValue{"nombre": valueobjects.String("Brigada Sur")})}
	require.NoError(t, src.SaveRecords(ctx, inventory.Brigadas, first))
	require.NoError(t, src.SaveRecords(ctx, inventory.Brigadas, second))
	require.NoError(t, src.Close())

	src, err = Open(ctx, path, reg, nil)
	require.NoError(t, err)
	defer src.Close()

	got, err := src.LoadRecords(ctx, inventory.Brigadas)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Brigada Sur", got[0].Text("nombre"))
}

func TestSource_EmptyAndUnknown(t *testing.T) {
	ctx := context.Background()
	reg, path := openTemp(t)
	src, err := Open(ctx, path, reg, nil)
	require.NoError(t, err)
	defer src.Close()

	got, err := src.LoadRecords(ctx, inventory.Tareas)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = src.LoadRecords(ctx, "usuarios")
	assert.True(t, errors.HasCode(err, errors.CodeUnknownCollection))
	assert.Error(t, src.SaveRecords(ctx, "usuarios", nil))
	assert.NoError(t, src.Ping(ctx))
}
