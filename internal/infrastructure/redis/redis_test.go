package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	infraredis "github.com/jhoicas/procurement-allocation/internal/infrastructure/redis"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestItemLocker_OcupadoEsConflicto(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	locker := infraredis.NewItemLocker(rdb, 5*time.Second)
	key := "allocation:item:rcv-001:li-1"

	release, err := locker.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	_, err = locker.Acquire(ctx, key)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = locker.Acquire(ctx, "allocation:item:rcv-001:li-2")
	require.NoError(t, err, "otra línea no queda bloqueada")

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))
	_, err = locker.Acquire(ctx, key)
	assert.NoError(t, err)
}

func TestItemLocker_LiberarTrasExpirarNoFalla(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	locker := infraredis.NewItemLocker(rdb, time.Second)

	release, err := locker.Acquire(ctx, "allocation:item:r:i")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	assert.NoError(t, release(ctx))
}

// countingCatalog origen de catálogos que cuenta las lecturas.
type countingCatalog struct {
	projects   []entity.ProjectCode
	warehouses []entity.Warehouse
	calls      int
	err        error
}

func (c *countingCatalog) ListProjects(context.Context) ([]entity.ProjectCode, error) {
	c.calls++
	return c.projects, c.err
}

func (c *countingCatalog) ListWarehouses(context.Context) ([]entity.Warehouse, error) {
	c.calls++
	return c.warehouses, c.err
}

func TestCatalogCache_LeeUnaVezYReutiliza(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	src := &countingCatalog{projects: []entity.ProjectCode{{ID: "prj-1", Code: "PRJ-1", Active: true}}}
	cache := infraredis.NewCatalogCache(rdb, src, time.Minute, nil)

	for i := 0; i < 3; i++ {
		got, err := cache.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "PRJ-1", got[0].Code)
	}
	assert.Equal(t, 1, src.calls)

	require.NoError(t, cache.Invalidate(ctx))
	_, err := cache.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCatalogCache_EntradaCorruptaSeRecarga(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	src := &countingCatalog{warehouses: []entity.Warehouse{{ID: "wh-norte", Name: "Bodega norte"}}}
	cache := infraredis.NewCatalogCache(rdb, src, time.Minute, nil)

	require.NoError(t, mr.Set("allocation:catalog:warehouses", "{no es json"))
	got, err := cache.ListWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.TargetID("wh-norte"), got[0].ID)
	assert.Equal(t, 1, src.calls)

	raw, err := mr.Get("allocation:catalog:warehouses")
	require.NoError(t, err)
	assert.Contains(t, raw, "wh-norte", "la entrada se reescribe con el valor recargado")
}

func TestCatalogCache_SinRedisLeeDelOrigen(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	src := &countingCatalog{projects: []entity.ProjectCode{{ID: "prj-1"}}}
	cache := infraredis.NewCatalogCache(rdb, src, time.Minute, nil)
	mr.Close()

	got, err := cache.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	src.err = errors.New("origen caído")
	_, err = cache.ListProjects(ctx)
	assert.Error(t, err)
}
