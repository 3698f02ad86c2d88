package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// Partition separa una cantidad por tipo: bodega (currentStock) y reservada (allocatedStock).
func Partition(allocs []entity.AllocationRecord) (warehouse, reserved decimal.Decimal) {
	warehouse, reserved = decimal.Zero, decimal.Zero
	for _, a := range allocs {
		if a.AllocationType.Reserves() {
			reserved = reserved.Add(a.Quantity)
		} else {
			warehouse = warehouse.Add(a.Quantity)
		}
	}
	return warehouse, reserved
}

// PartitionProposed igual que Partition pero sobre asignaciones aún no persistidas.
func PartitionProposed(allocs []entity.ProposedAllocation) (warehouse, reserved decimal.Decimal) {
	warehouse, reserved = decimal.Zero, decimal.Zero
	for _, a := range allocs {
		if a.AllocationType.Reserves() {
			reserved = reserved.Add(a.Quantity)
		} else {
			warehouse = warehouse.Add(a.Quantity)
		}
	}
	return warehouse, reserved
}

// Increment aplica una asignación a los contadores:
// bodega suma a currentStock, orden/proyecto suma a allocatedStock; availableStock se recalcula.
func Increment(c entity.StockCounters, warehouse, reserved decimal.Decimal) entity.StockCounters {
	c.CurrentStock = c.CurrentStock.Add(warehouse)
	c.AllocatedStock = c.AllocatedStock.Add(reserved)
	c.AvailableStock = c.CurrentStock.Sub(c.AllocatedStock)
	return c
}

// ReserveCap máxima cantidad reservable al repartir qty entre órdenes y bodega sin dejar
// availableStock negativo: current + (qty - r) - allocated - r >= 0.
func ReserveCap(c entity.StockCounters, qty decimal.Decimal) decimal.Decimal {
	limit := c.CurrentStock.Sub(c.AllocatedStock).Add(qty).Div(decimal.NewFromInt(2))
	if limit.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return limit
}

// Decrement inverso exacto de Increment.
func Decrement(c entity.StockCounters, warehouse, reserved decimal.Decimal) entity.StockCounters {
	c.CurrentStock = c.CurrentStock.Sub(warehouse)
	c.AllocatedStock = c.AllocatedStock.Sub(reserved)
	c.AvailableStock = c.CurrentStock.Sub(c.AllocatedStock)
	return c
}

// ReversalPlan lo que una reversión va a deshacer sobre una línea y su producto.
type ReversalPlan struct {
	TotalToReverse    decimal.Decimal
	CachedTotal       decimal.Decimal // totalAllocated guardado en la línea
	WarehouseReversal decimal.Decimal
	ReservedReversal  decimal.Decimal
	AllocationIDs     []entity.AllocationID
	Before            entity.StockCounters
	After             entity.StockCounters
}

// CacheMismatch el total cacheado no coincide con la suma de la lista.
func (p ReversalPlan) CacheMismatch() bool {
	return !p.CachedTotal.IsZero() && !p.CachedTotal.Equal(p.TotalToReverse)
}

// PlanReversal calcula la reversión de todas las asignaciones de la línea y valida que
// ningún contador quede negativo. No modifica nada.
func PlanReversal(item *entity.LineItem, product *entity.Product) (ReversalPlan, error) {
	wh, res := Partition(item.Allocations)
	plan := ReversalPlan{
		TotalToReverse:    wh.Add(res),
		CachedTotal:       item.TotalAllocated,
		WarehouseReversal: wh,
		ReservedReversal:  res,
		Before:            product.Counters(),
	}
	for _, a := range item.Allocations {
		plan.AllocationIDs = append(plan.AllocationIDs, a.ID)
	}
	if wh.GreaterThan(product.CurrentStock) || res.GreaterThan(product.AllocatedStock) {
		return plan, &domain.ReversalInfeasibleError{
			ProductID:         string(product.ID),
			WarehouseReversal: wh,
			CurrentStock:      product.CurrentStock,
			ReservedReversal:  res,
			AllocatedStock:    product.AllocatedStock,
		}
	}
	plan.After = Decrement(plan.Before, wh, res)
	return plan, nil
}
