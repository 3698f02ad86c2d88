package docstore

import (
	"context"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogos de proyectos y bodegas.
type CatalogRepo struct {
	store repository.DocumentStore
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(store repository.DocumentStore) *CatalogRepo {
	return &CatalogRepo{store: store}
}

// ListProjects proyectos activos.
func (r *CatalogRepo) ListProjects(ctx context.Context) ([]entity.ProjectCode, error) {
	docs, err := r.store.Query(ctx, repository.CollectionProjects)
	if err != nil {
		return nil, err
	}
	list, err := decodeAll[entity.ProjectCode](docs)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProjectCode, 0, len(list))
	for _, p := range list {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ListWarehouses todas las bodegas.
func (r *CatalogRepo) ListWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	docs, err := r.store.Query(ctx, repository.CollectionWarehouses)
	if err != nil {
		return nil, err
	}
	list, err := decodeAll[entity.Warehouse](docs)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Warehouse, 0, len(list))
	for _, w := range list {
		out = append(out, *w)
	}
	return out, nil
}
