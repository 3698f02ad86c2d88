package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain"
)

var _ allocation.ItemLocker = (*ItemLocker)(nil)

// ItemLocker candado por línea sobre Redis. No reintenta: si otra petición tiene la línea, falla con ErrConflict.
type ItemLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewItemLocker construye el candado. ttl es la vida máxima del candado si el proceso muere sin liberarlo.
func NewItemLocker(rdb goredis.UniversalClient, ttl time.Duration) *ItemLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ItemLocker{locker: redislock.New(rdb), ttl: ttl}
}

// Acquire toma el candado de la clave.
func (l *ItemLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("línea en uso (%s): %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			// Expiró el TTL antes de liberar.
			return nil
		}
		return err
	}, nil
}
