package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
	"github.com/jhoicas/procurement-allocation/pkg/logger"
)

const (
	keyProjects   = "allocation:catalog:projects"
	keyWarehouses = "allocation:catalog:warehouses"
)

var _ repository.CatalogRepository = (*CatalogCache)(nil)

// CatalogCache caché de lectura para los catálogos de proyectos y bodegas.
// Si Redis falla se lee directo del repositorio de origen.
type CatalogCache struct {
	rdb  goredis.UniversalClient
	next repository.CatalogRepository
	ttl  time.Duration
	log  *logger.Logger
}

// NewCatalogCache envuelve next con la caché.
func NewCatalogCache(rdb goredis.UniversalClient, next repository.CatalogRepository, ttl time.Duration, log *logger.Logger) *CatalogCache {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogCache{rdb: rdb, next: next, ttl: ttl, log: log.Component("catalog_cache")}
}

// ListProjects proyectos activos.
func (c *CatalogCache) ListProjects(ctx context.Context) ([]entity.ProjectCode, error) {
	return cached(ctx, c, keyProjects, c.next.ListProjects)
}

// ListWarehouses bodegas.
func (c *CatalogCache) ListWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	return cached(ctx, c, keyWarehouses, c.next.ListWarehouses)
}

// Invalidate borra ambas entradas (tras un seed de catálogos).
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyProjects, keyWarehouses).Err()
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché corrupta; se recarga")
	case !errors.Is(err, goredis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
		}
	}
	return out, nil
}
