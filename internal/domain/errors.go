package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrReversalInfeasible = errors.New("reversión inviable: el stock quedaría negativo")
	ErrPersistence        = errors.New("falla de persistencia")
)

// ValidationError entrada inválida o sobre-asignación. Siempre se devuelve antes de cualquier escritura.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación (%s): %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError el resolver agotó todas sus estrategias.
// NearMisses lista candidatos parecidos para diagnóstico.
type NotFoundError struct {
	Kind       string // receiving, item, product, order
	Query      string
	Tried      []string
	NearMisses []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q no encontrado (estrategias: %s)", e.Kind, e.Query, strings.Join(e.Tried, ", "))
	if len(e.NearMisses) > 0 {
		msg += "; candidatos cercanos: " + strings.Join(e.NearMisses, ", ")
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReversalInfeasibleError la reversión dejaría algún contador de stock en negativo.
type ReversalInfeasibleError struct {
	ProductID         string
	WarehouseReversal decimal.Decimal
	CurrentStock      decimal.Decimal
	ReservedReversal  decimal.Decimal
	AllocatedStock    decimal.Decimal
}

func (e *ReversalInfeasibleError) Error() string {
	return fmt.Sprintf(
		"reversión inviable para producto %s: bodega %s > stock actual %s o reservado %s > stock asignado %s",
		e.ProductID, e.WarehouseReversal, e.CurrentStock, e.ReservedReversal, e.AllocatedStock,
	)
}

func (e *ReversalInfeasibleError) Unwrap() error { return ErrReversalInfeasible }

// PersistenceError una escritura remota falló. Completed enumera los pasos que sí quedaron
// aplicados: no hay rollback automático, la recuperación es reintento o reversión manual.
type PersistenceError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *PersistenceError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("persistencia en paso %q: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("persistencia en paso %q (pasos completados: %s): %v",
		e.Step, strings.Join(e.Completed, ", "), e.Err)
}

// Unwrap permite errors.Is tanto contra ErrPersistence como contra la causa.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Partial indica si alguna escritura previa quedó aplicada.
func (e *PersistenceError) Partial() bool { return len(e.Completed) > 0 }
