package repository

import (
	"context"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// OrderRepository puerto de persistencia para órdenes consumidoras.
type OrderRepository interface {
	GetByID(ctx context.Context, id entity.OrderID) (*entity.ConsumingOrder, error)
	List(ctx context.Context) ([]*entity.ConsumingOrder, error)
	ListByStatus(ctx context.Context, statuses []string) ([]*entity.ConsumingOrder, error)
	// UpdateFulfillment escribe las líneas y el bloque de cumplimiento.
	UpdateFulfillment(ctx context.Context, id entity.OrderID, lines []entity.OrderLine, f entity.Fulfillment) error
}
