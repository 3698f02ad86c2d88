package repository

import (
	"context"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ReceivingRepository puerto de persistencia para documentos de recepción y sus líneas anidadas.
type ReceivingRepository interface {
	GetByID(ctx context.Context, id entity.ReceivingID) (*entity.ReceivingDocument, error)
	ListByDocumentNumber(ctx context.Context, number string) ([]*entity.ReceivingDocument, error)
	List(ctx context.Context) ([]*entity.ReceivingDocument, error)
	// UpdateItem reescribe únicamente la línea en la posición index; no toca líneas hermanas.
	UpdateItem(ctx context.Context, id entity.ReceivingID, index int, item entity.LineItem) error
}
