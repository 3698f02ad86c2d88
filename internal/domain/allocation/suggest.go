package allocation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/resolver"
)

// PriorityThresholds umbrales (en días hasta la fecha de entrega) para prioridad alta y media.
type PriorityThresholds struct {
	HighDays   int
	MediumDays int
}

// DefaultThresholds ≤7 días alta, ≤30 media, resto baja.
var DefaultThresholds = PriorityThresholds{HighDays: 7, MediumDays: 30}

// Priority prioridad según la fecha de entrega. Sin fecha → baja; vencidas → alta.
func (t PriorityThresholds) Priority(due *time.Time, now time.Time) string {
	if due == nil {
		return entity.PriorityLow
	}
	until := due.Sub(now)
	switch {
	case until <= time.Duration(t.HighDays)*24*time.Hour:
		return entity.PriorityHigh
	case until <= time.Duration(t.MediumDays)*24*time.Hour:
		return entity.PriorityMedium
	}
	return entity.PriorityLow
}

// OpenOrderTargets órdenes abiertas que referencian el producto con necesidad > 0,
// ordenadas por prioridad (alta → baja) y luego por fecha de entrega ascendente.
func OpenOrderTargets(
	product entity.ProductIdentity,
	orders []*entity.ConsumingOrder,
	openStatuses []string,
	now time.Time,
	thresholds PriorityThresholds,
) []entity.OrderTarget {
	targets := make([]entity.OrderTarget, 0, len(orders))
	for _, o := range orders {
		if o == nil || !IsOpen(o.Status, openStatuses) {
			continue
		}
		need := decimal.Zero
		for _, l := range o.Lines {
			if resolver.SameProduct(product, l.ProductIdentity) {
				need = need.Add(l.Need())
			}
		}
		if !need.GreaterThan(decimal.Zero) {
			continue
		}
		targets = append(targets, entity.OrderTarget{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			DueDate:     o.DueDate,
			Need:        need,
			Priority:    thresholds.Priority(o.DueDate, now),
		})
	}
	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if ra, rb := entity.PriorityRank(a.Priority), entity.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		// Desempate estable para que la salida sea determinista.
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		return a.OrderID < b.OrderID
	})
	return targets
}

// SuggestionInput entrada del motor de sugerencias.
type SuggestionInput struct {
	Available        decimal.Decimal
	Product          entity.ProductIdentity
	Orders           []*entity.ConsumingOrder
	OpenStatuses     []string
	Now              time.Time
	Thresholds       PriorityThresholds
	DefaultWarehouse entity.Warehouse
	// ReserveCap tope para la suma reservada (órdenes). nil sin tope.
	ReserveCap *decimal.Decimal
}

// Suggest reparte Available entre las órdenes abiertas en orden de prioridad (greedy: min(restante, necesidad))
// y deja el remanente positivo en la bodega por defecto. Función pura: mismas entradas, misma salida.
// La suma de las cantidades devueltas es exactamente Available.
func Suggest(in SuggestionInput) ([]entity.ProposedAllocation, error) {
	if in.Available.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("availableQty", "la cantidad disponible no puede ser negativa")
	}
	out := []entity.ProposedAllocation{}
	remaining := in.Available
	if remaining.IsZero() {
		return out, nil
	}

	reserveLeft := remaining
	if in.ReserveCap != nil {
		reserveLeft = decimal.Min(remaining, decimal.Max(*in.ReserveCap, decimal.Zero))
	}
	for _, t := range OpenOrderTargets(in.Product, in.Orders, in.OpenStatuses, in.Now, in.Thresholds) {
		if !reserveLeft.GreaterThan(decimal.Zero) {
			break
		}
		qty := decimal.Min(reserveLeft, t.Need)
		out = append(out, entity.ProposedAllocation{
			AllocationType: entity.AllocationPurchaseOrder,
			TargetID:       entity.TargetID(t.OrderID),
			TargetName:     t.OrderNumber,
			Quantity:       qty,
			Priority:       t.Priority,
			Notes:          "sugerido por prioridad " + t.Priority,
		})
		remaining = remaining.Sub(qty)
		reserveLeft = reserveLeft.Sub(qty)
	}

	if remaining.GreaterThan(decimal.Zero) {
		out = append(out, entity.ProposedAllocation{
			AllocationType: entity.AllocationWarehouse,
			TargetID:       in.DefaultWarehouse.ID,
			TargetName:     in.DefaultWarehouse.Name,
			Quantity:       remaining,
			Priority:       entity.PriorityLow,
			Notes:          "remanente a bodega",
		})
	}
	return out, nil
}
