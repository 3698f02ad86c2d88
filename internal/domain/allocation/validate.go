package allocation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// ValidationInput lo necesario para validar una propuesta contra el estado más reciente de la línea.
type ValidationInput struct {
	Item     *entity.LineItem
	Proposed []entity.ProposedAllocation
	// OrderStatus estado de cada orden destino ya resuelta (por TargetID).
	OrderStatus  map[entity.TargetID]string
	OpenStatuses []string
	// Product si no es nil y EnforceAvailable está activo, se exige availableStock >= 0 tras asignar.
	Product          *entity.Product
	EnforceAvailable bool
}

// ValidationResult resultado estructurado; nunca modifica estado.
type ValidationResult struct {
	Valid     bool
	Field     string
	Reason    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Err devuelve *domain.ValidationError si el resultado es inválido.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.ValidationError{Field: r.Field, Reason: r.Reason}
}

func invalid(r ValidationResult, field, reason string) ValidationResult {
	r.Valid, r.Field, r.Reason = false, field, reason
	return r
}

// Validate revisa la propuesta: cantidades positivas, tipo y destino presentes, órdenes abiertas
// y que la suma no supere lo disponible (recibido - asignado).
func Validate(in ValidationInput) ValidationResult {
	r := ValidationResult{Valid: true, Requested: decimal.Zero}
	if in.Item == nil {
		return invalid(r, "item", "línea no resuelta")
	}
	r.Available = in.Item.Available()

	if len(in.Proposed) == 0 {
		return invalid(r, "allocations", "no hay asignaciones propuestas")
	}
	for i, a := range in.Proposed {
		if !a.Quantity.GreaterThan(decimal.Zero) {
			return invalid(r, fieldAt(i, "quantity"), "la cantidad debe ser mayor que cero")
		}
		if a.AllocationType == "" {
			return invalid(r, fieldAt(i, "allocationType"), "falta el tipo de asignación")
		}
		if !a.AllocationType.Valid() {
			return invalid(r, fieldAt(i, "allocationType"), "tipo de asignación desconocido: "+string(a.AllocationType))
		}
		if strings.TrimSpace(string(a.TargetID)) == "" {
			return invalid(r, fieldAt(i, "allocationTarget"), "falta el destino de la asignación")
		}
		if a.AllocationType == entity.AllocationPurchaseOrder {
			status, ok := in.OrderStatus[a.TargetID]
			if !ok {
				return invalid(r, fieldAt(i, "allocationTarget"), "orden destino no resuelta: "+string(a.TargetID))
			}
			if !IsOpen(status, in.OpenStatuses) {
				return invalid(r, fieldAt(i, "allocationTarget"),
					"la orden "+string(a.TargetID)+" no está abierta (estado "+status+")")
			}
		}
		r.Requested = r.Requested.Add(a.Quantity)
	}

	if r.Requested.GreaterThan(r.Available) {
		return invalid(r, "allocations",
			"la cantidad solicitada "+r.Requested.String()+" supera la disponible "+r.Available.String())
	}

	if in.EnforceAvailable && in.Product != nil {
		wh, res := PartitionProposed(in.Proposed)
		projected := Increment(in.Product.Counters(), wh, res)
		if projected.AvailableStock.LessThan(decimal.Zero) {
			return invalid(r, "allocations",
				"la reserva dejaría el stock disponible del producto en "+projected.AvailableStock.String())
		}
	}
	return r
}

// IsOpen indica si el estado pertenece al conjunto de estados abiertos.
func IsOpen(status string, open []string) bool {
	for _, s := range open {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(status)) {
			return true
		}
	}
	return false
}

func fieldAt(i int, name string) string {
	return "allocations[" + strconv.Itoa(i) + "]." + name
}
