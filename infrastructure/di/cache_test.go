package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCache_TTL(t *testing.T) {
	now := time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC)
	c := NewInMemoryCache(0)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "records:muestras@1", 42, time.Minute))
	v, ok := c.Get(ctx, "records:muestras@1")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "records:muestras@1")
	assert.False(t, ok)

	c.sweep()
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryCache_DeleteAndStop(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Stop()
	c.Stop()
}
