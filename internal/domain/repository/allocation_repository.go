package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// AllocationRepository puerto de persistencia para los registros de auditoría de asignación.
type AllocationRepository interface {
	Create(ctx context.Context, rec *entity.AllocationRecord) error
	GetByID(ctx context.Context, id entity.AllocationID) (*entity.AllocationRecord, error)
	ListByItem(ctx context.Context, receivingID entity.ReceivingID, itemID entity.LineItemID) ([]*entity.AllocationRecord, error)
	// SumActiveByItem suma de cantidades en estado allocated (conciliación).
	SumActiveByItem(ctx context.Context, receivingID entity.ReceivingID, itemID entity.LineItemID) (decimal.Decimal, error)
	UpdateStatus(ctx context.Context, id entity.AllocationID, status entity.AllocationStatus) error
}
