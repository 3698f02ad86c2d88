package repository

import (
	"context"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos y sus contadores de stock.
type ProductRepository interface {
	GetByID(ctx context.Context, id entity.ProductID) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// UpdateStock actualización parcial de currentStock, allocatedStock y availableStock.
	UpdateStock(ctx context.Context, id entity.ProductID, counters entity.StockCounters) error
}
