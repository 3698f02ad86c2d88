package docstore

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.ReceivingRepository = (*ReceivingRepo)(nil)

// ReceivingRepo documentos de recepción sobre el almacén de documentos.
type ReceivingRepo struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewReceivingRepository construye el adaptador.
func NewReceivingRepository(store repository.DocumentStore) *ReceivingRepo {
	return &ReceivingRepo{store: store, now: time.Now}
}

// Create persiste un documento nuevo (seed y tests).
func (r *ReceivingRepo) Create(ctx context.Context, doc *entity.ReceivingDocument) error {
	return r.store.Insert(ctx, repository.CollectionReceivings, string(doc.ID), doc)
}

// GetByID lectura puntual; (nil, nil) si no existe.
func (r *ReceivingRepo) GetByID(ctx context.Context, id entity.ReceivingID) (*entity.ReceivingDocument, error) {
	d, err := r.store.Get(ctx, repository.CollectionReceivings, string(id))
	if err != nil {
		return nil, err
	}
	return decode[entity.ReceivingDocument](d)
}

// ListByDocumentNumber documentos con ese número de negocio exacto.
func (r *ReceivingRepo) ListByDocumentNumber(ctx context.Context, number string) ([]*entity.ReceivingDocument, error) {
	docs, err := r.store.Query(ctx, repository.CollectionReceivings, repository.Eq("documentNumber", number))
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.ReceivingDocument](docs)
}

// List todos los documentos (candidatos para las estrategias permisivas del resolver).
func (r *ReceivingRepo) List(ctx context.Context) ([]*entity.ReceivingDocument, error) {
	docs, err := r.store.Query(ctx, repository.CollectionReceivings)
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.ReceivingDocument](docs)
}

// UpdateItem escribe solo items.<index>; las líneas hermanas no se leen ni se reescriben.
func (r *ReceivingRepo) UpdateItem(ctx context.Context, id entity.ReceivingID, index int, item entity.LineItem) error {
	now := r.now()
	item.UpdatedAt = now
	return r.store.Update(ctx, repository.CollectionReceivings, string(id), map[string]any{
		"items." + strconv.Itoa(index): item,
		"updatedAt":                     now,
	})
}
