package repository

import (
	"context"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// CatalogRepository catálogos de destino de solo lectura (proyectos y bodegas).
type CatalogRepository interface {
	ListProjects(ctx context.Context) ([]entity.ProjectCode, error)
	ListWarehouses(ctx context.Context) ([]entity.Warehouse, error)
}
