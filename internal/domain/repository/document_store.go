package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Colecciones del almacén de documentos.
const (
	CollectionReceivings  = "receivings"
	CollectionProducts    = "products"
	CollectionOrders      = "orders"
	CollectionAllocations = "allocations"
	CollectionProjects    = "projects"
	CollectionWarehouses  = "warehouses"
)

// Document documento crudo tal como lo guarda el almacén.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	UpdatedAt  time.Time
}

// FilterOp operador de filtro soportado (sin joins).
type FilterOp string

const (
	OpEq FilterOp = "eq"
	OpIn FilterOp = "in"
)

// Filter filtro de igualdad/pertenencia sobre un campo de primer nivel del documento.
type Filter struct {
	Field  string
	Op     FilterOp
	Values []string
}

// Eq atajo para un filtro de igualdad.
func Eq(field, value string) Filter {
	return Filter{Field: field, Op: OpEq, Values: []string{value}}
}

// In atajo para un filtro de pertenencia.
func In(field string, values ...string) Filter {
	return Filter{Field: field, Op: OpIn, Values: values}
}

// DocumentStore puerto del almacén de documentos gestionado: lectura puntual, consulta filtrada
// y actualización parcial. No hay transacciones entre documentos.
//
// Las rutas de Update usan puntos para anidar y enteros para índices de arreglo ("items.2",
// "fulfillment.totalFulfilled"). Cada valor se serializa a JSON.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Insert(ctx context.Context, collection, id string, data any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Sum suma numéricamente un campo de primer nivel sobre los documentos filtrados.
	Sum(ctx context.Context, collection, field string, filters ...Filter) (decimal.Decimal, error)
}
