package docstore

import (
	"context"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos y contadores de stock sobre el almacén de documentos.
type ProductRepo struct {
	store repository.DocumentStore
	now   func() time.Time
}

// NewProductRepository construye el adaptador.
func NewProductRepository(store repository.DocumentStore) *ProductRepo {
	return &ProductRepo{store: store, now: time.Now}
}

// Create persiste un producto nuevo (seed y tests).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.store.Insert(ctx, repository.CollectionProducts, string(p.ID), p)
}

// GetByID lectura puntual; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id entity.ProductID) (*entity.Product, error) {
	d, err := r.store.Get(ctx, repository.CollectionProducts, string(id))
	if err != nil {
		return nil, err
	}
	return decode[entity.Product](d)
}

// List todos los productos.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	docs, err := r.store.Query(ctx, repository.CollectionProducts)
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.Product](docs)
}

// UpdateStock actualización parcial de los tres contadores.
func (r *ProductRepo) UpdateStock(ctx context.Context, id entity.ProductID, c entity.StockCounters) error {
	return r.store.Update(ctx, repository.CollectionProducts, string(id), map[string]any{
		"currentStock":   c.CurrentStock,
		"allocatedStock": c.AllocatedStock,
		"availableStock": c.AvailableStock,
		"updatedAt":      r.now(),
	})
}
