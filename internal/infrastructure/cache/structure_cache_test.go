package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/infrastructure/cache"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.StructureCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewStructureCacheWithClient(client, ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestStructureCache_MissYSetConTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t, time.Minute)

	sp, err := c.GetStoragePoint(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, sp, "miss devuelve vacío sin error")

	require.NoError(t, c.SetStoragePoint(ctx, "loc-1", "sp-1"))
	assert.Equal(t, time.Minute, mr.TTL("wms:loc-sp:loc-1"))

	sp, err = c.GetStoragePoint(ctx, "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "sp-1", sp)

	mr.FastForward(2 * time.Minute)
	sp, err = c.GetStoragePoint(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, sp, "la entrada expira")
}

func TestStructureCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t, time.Minute)

	require.NoError(t, c.SetStoragePoint(ctx, "loc-1", "sp-1"))
	require.NoError(t, c.SetStoragePoint(ctx, "loc-2", "sp-1"))
	require.NoError(t, c.SetStoragePoint(ctx, "loc-3", "sp-2"))

	require.NoError(t, c.Invalidate(ctx, "loc-1", "loc-2"))
	assert.False(t, mr.Exists("wms:loc-sp:loc-1"))
	assert.False(t, mr.Exists("wms:loc-sp:loc-2"))
	assert.True(t, mr.Exists("wms:loc-sp:loc-3"))

	require.NoError(t, c.Invalidate(ctx), "sin ids no consulta redis")
}

func TestStructureCache_RedisCaido(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t, time.Minute)
	mr.Close()

	_, err := c.GetStoragePoint(ctx, "loc-1")
	assert.Error(t, err)
	assert.Error(t, c.SetStoragePoint(ctx, "loc-1", "sp-1"))
}

func TestNewStructureCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	c, err := cache.NewStructureCache(ctx, "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.SetStoragePoint(ctx, "loc-1", "sp-1"))
	got, err := mr.Get("wms:loc-sp:loc-1")
	require.NoError(t, err)
	assert.Equal(t, "sp-1", got)
	require.NoError(t, c.Close())

	_, err = cache.NewStructureCache(ctx, "::no-es-url", time.Minute)
	assert.Error(t, err)

	// una cache sin cliente no falla
	var inactive cache.StructureCache
	sp, err := inactive.GetStoragePoint(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, sp)
	require.NoError(t, inactive.SetStoragePoint(ctx, "loc-1", "sp-1"))
	require.NoError(t, inactive.Invalidate(ctx, "loc-1"))
}
