package docstore

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo registros de asignación sobre el almacén de documentos.
type AllocationRepo struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewAllocationRepository construye el adaptador.
func NewAllocationRepository(store repository.DocumentStore) *AllocationRepo {
	return &AllocationRepo{store: store, now: time.Now}
}

// Create persiste un registro nuevo.
func (r *AllocationRepo) Create(ctx context.Context, rec *entity.AllocationRecord) error {
	return r.store.Insert(ctx, repository.CollectionAllocations, string(rec.ID), rec)
}

// GetByID lectura puntual; (nil, nil) si no existe.
func (r *AllocationRepo) GetByID(ctx context.Context, id entity.AllocationID) (*entity.AllocationRecord, error) {
	d, err := r.store.Get(ctx, repository.CollectionAllocations, string(id))
	if err != nil {
		return nil, err
	}
	return decode[entity.AllocationRecord](d)
}

// ListByItem registros de una línea (todos los estados).
func (r *AllocationRepo) ListByItem(ctx context.Context, receivingID entity.ReceivingID, itemID entity.LineItemID) ([]*entity.AllocationRecord, error) {
	docs, err := r.store.Query(ctx, repository.CollectionAllocations,
		repository.Eq("receivingId", string(receivingID)),
		repository.Eq("lineItemId", string(itemID)),
	)
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.AllocationRecord](docs)
}

// SumActiveByItem suma de cantidades en estado allocated para una línea.
func (r *AllocationRepo) SumActiveByItem(ctx context.Context, receivingID entity.ReceivingID, itemID entity.LineItemID) (decimal.Decimal, error) {
	return r.store.Sum(ctx, repository.CollectionAllocations, "quantity",
		repository.Eq("receivingId", string(receivingID)),
		repository.Eq("lineItemId", string(itemID)),
		repository.Eq("status", string(entity.AllocationStatusAllocated)),
	)
}

// UpdateStatus único cambio permitido sobre un registro existente.
func (r *AllocationRepo) UpdateStatus(ctx context.Context, id entity.AllocationID, status entity.AllocationStatus) error {
	return r.store.Update(ctx, repository.CollectionAllocations, string(id), map[string]any{
		"status":    status,
		"updatedAt": r.now(),
	})
}
