package docstore

import (
	"context"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes consumidoras sobre el almacén de documentos.
type OrderRepo struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(store repository.DocumentStore) *OrderRepo {
	return &OrderRepo{store: store, now: time.Now}
}

// Create persiste una orden nueva (seed y tests).
func (r *OrderRepo) Create(ctx context.Context, o *entity.ConsumingOrder) error {
	return r.store.Insert(ctx, repository.CollectionOrders, string(o.ID), o)
}

// GetByID lectura puntual; (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id entity.OrderID) (*entity.ConsumingOrder, error) {
	d, err := r.store.Get(ctx, repository.CollectionOrders, string(id))
	if err != nil {
		return nil, err
	}
	return decode[entity.ConsumingOrder](d)
}

// List todas las órdenes.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.ConsumingOrder, error) {
	docs, err := r.store.Query(ctx, repository.CollectionOrders)
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.ConsumingOrder](docs)
}

// ListByStatus órdenes cuyo estado está en statuses.
func (r *OrderRepo) ListByStatus(ctx context.Context, statuses []string) ([]*entity.ConsumingOrder, error) {
	if len(statuses) == 0 {
		return []*entity.ConsumingOrder{}, nil
	}
	docs, err := r.store.Query(ctx, repository.CollectionOrders, repository.In("status", statuses...))
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.ConsumingOrder](docs)
}

// UpdateFulfillment escribe líneas y bloque de cumplimiento.
func (r *OrderRepo) UpdateFulfillment(ctx context.Context, id entity.OrderID, lines []entity.OrderLine, f entity.Fulfillment) error {
	return r.store.Update(ctx, repository.CollectionOrders, string(id), map[string]any{
		"lines":       lines,
		"fulfillment": f,
		"updatedAt":   r.now(),
	})
}
