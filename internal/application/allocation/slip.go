package allocation

import (
	"context"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// Slip datos del acta de asignación de una línea: documento, línea, asignaciones vigentes,
// historial de reversiones y contadores del producto al momento de emitirla.
type Slip struct {
	ReceivingID    entity.ReceivingID
	DocumentNumber string
	SupplierName   string
	Item           entity.LineItem
	Product        *entity.Product
	GeneratedAt    time.Time
	GeneratedBy    string
}

// AllocationSlip arma el acta de una línea. Solo lectura; un producto no resuelto no impide emitirla.
func (uc *AllocationUseCase) AllocationSlip(ctx context.Context, parentID, itemID string) (*Slip, error) {
	ri, err := uc.ResolveItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	slip := &Slip{
		ReceivingID:    ri.Parent.ID,
		DocumentNumber: ri.Parent.DocumentNumber,
		SupplierName:   ri.Parent.SupplierName,
		Item:           ri.Item,
		GeneratedAt:    uc.now(),
		GeneratedBy:    ActorFrom(ctx),
	}
	product, _, err := uc.ResolveProduct(ctx, ri.Item.ProductIdentity)
	if err != nil {
		uc.log.Warn().Err(err).Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(ri.Item.ID)).
			Msg("acta sin producto resuelto")
	} else {
		slip.Product = product
	}
	return slip, nil
}
