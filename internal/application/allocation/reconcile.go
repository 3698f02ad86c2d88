package allocation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ReconciliationReport comparación de solo lectura entre la línea, sus registros de auditoría y el producto.
type ReconciliationReport struct {
	ReceivingID  entity.ReceivingID
	LineItemID   entity.LineItemID
	Received     decimal.Decimal
	ListTotal    decimal.Decimal // suma de la lista de la línea
	CachedTotal  decimal.Decimal // totalAllocated guardado
	RecordsTotal decimal.Decimal // suma de registros en estado allocated
	Product      *entity.StockCounters
	Consistent   bool
	Issues       []string
}

// ReconcileItem revisa las invariantes de una línea sin escribir nada: total cacheado igual a la suma
// de la lista, total dentro de lo recibido, registros activos iguales a la lista y contadores del
// producto coherentes.
func (uc *AllocationUseCase) ReconcileItem(ctx context.Context, parentID, itemID string) (*ReconciliationReport, error) {
	ri, err := uc.ResolveItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	item := ri.Item
	recordsTotal, err := uc.allocations.SumActiveByItem(ctx, ri.Parent.ID, item.ID)
	if err != nil {
		return nil, fmt.Errorf("sumar registros de asignación: %w", err)
	}
	r := &ReconciliationReport{
		ReceivingID:  ri.Parent.ID,
		LineItemID:   item.ID,
		Received:     item.QuantityReceived,
		ListTotal:    item.SumAllocations(),
		CachedTotal:  item.TotalAllocated,
		RecordsTotal: recordsTotal,
	}
	if !r.CachedTotal.Equal(r.ListTotal) {
		r.Issues = append(r.Issues, fmt.Sprintf("totalAllocated %s difiere de la suma de la lista %s", r.CachedTotal, r.ListTotal))
	}
	if r.ListTotal.LessThan(decimal.Zero) || r.ListTotal.GreaterThan(r.Received) {
		r.Issues = append(r.Issues, fmt.Sprintf("total asignado %s fuera de [0, %s]", r.ListTotal, r.Received))
	}
	if !r.RecordsTotal.Equal(r.ListTotal) {
		r.Issues = append(r.Issues, fmt.Sprintf("registros activos suman %s y la lista %s", r.RecordsTotal, r.ListTotal))
	}
	for _, a := range item.Allocations {
		if !a.Quantity.GreaterThan(decimal.Zero) {
			r.Issues = append(r.Issues, fmt.Sprintf("asignación %s con cantidad %s", a.ID, a.Quantity))
		}
	}

	product, _, err := uc.ResolveProduct(ctx, item.ProductIdentity)
	if err != nil {
		r.Issues = append(r.Issues, "producto no resuelto: "+err.Error())
	} else {
		c := product.Counters()
		r.Product = &c
		if !c.AvailableStock.Equal(c.CurrentStock.Sub(c.AllocatedStock)) {
			r.Issues = append(r.Issues, fmt.Sprintf("availableStock %s difiere de current - allocated (%s)",
				c.AvailableStock, c.CurrentStock.Sub(c.AllocatedStock)))
		}
		if c.AvailableStock.LessThan(decimal.Zero) {
			r.Issues = append(r.Issues, "availableStock negativo: "+c.AvailableStock.String())
		}
	}
	r.Consistent = len(r.Issues) == 0
	if !r.Consistent {
		uc.log.Warn().Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(item.ID)).
			Strs("issues", r.Issues).Msg("línea inconsistente")
	}
	return r, nil
}
