package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/resolver"
)

var hundred = decimal.NewFromInt(100)

// ApplyFulfillment registra en la orden las asignaciones recibidas para el producto.
// La cantidad se reparte entre las líneas del mismo producto hasta cubrir su necesidad; el excedente
// queda en la primera línea coincidente. Devuelve las líneas y el bloque de cumplimiento a persistir
// sin modificar la orden original.
func ApplyFulfillment(
	order *entity.ConsumingOrder,
	product entity.ProductIdentity,
	refs []entity.AllocationRef,
	now time.Time,
) ([]entity.OrderLine, entity.Fulfillment) {
	lines := make([]entity.OrderLine, len(order.Lines))
	copy(lines, order.Lines)

	f := order.Fulfillment
	f.Allocations = append(append([]entity.AllocationRef(nil), f.Allocations...), refs...)

	qty := decimal.Zero
	for _, r := range refs {
		qty = qty.Add(r.Quantity)
	}

	first := -1
	remaining := qty
	for i, l := range lines {
		if !resolver.SameProduct(product, l.ProductIdentity) {
			continue
		}
		if first == -1 {
			first = i
		}
		need := l.Need()
		if !remaining.GreaterThan(decimal.Zero) || !need.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, need)
		lines[i].FulfilledQty = l.FulfilledQty.Add(take)
		remaining = remaining.Sub(take)
	}
	if first >= 0 && remaining.GreaterThan(decimal.Zero) {
		lines[first].FulfilledQty = lines[first].FulfilledQty.Add(remaining)
	}

	f.TotalOrdered = order.TotalOrderedQty()
	f.TotalFulfilled = f.TotalFulfilled.Add(qty)
	f.Rate = FulfillmentRate(f.TotalFulfilled, f.TotalOrdered)
	f.UpdatedAt = now
	return lines, f
}

// FulfillmentRate fulfilled / ordered × 100, redondeado a 2 decimales. Orden sin cantidad → 0.
func FulfillmentRate(fulfilled, ordered decimal.Decimal) decimal.Decimal {
	if !ordered.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return fulfilled.Div(ordered).Mul(hundred).Round(2)
}
