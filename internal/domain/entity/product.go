package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto con sus contadores de stock. Compartido por todas las líneas que lo referencian:
// solo el Writer y la reversión lo modifican.
type Product struct {
	ID             ProductID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	CurrentStock   decimal.Decimal `json:"currentStock"`   // físico en mano
	AllocatedStock decimal.Decimal `json:"allocatedStock"` // reservado a órdenes/proyectos
	AvailableStock decimal.Decimal `json:"availableStock"` // currentStock - allocatedStock
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// StockCounters contadores de stock de un producto (la parte que se actualiza parcialmente).
type StockCounters struct {
	CurrentStock   decimal.Decimal `json:"currentStock"`
	AllocatedStock decimal.Decimal `json:"allocatedStock"`
	AvailableStock decimal.Decimal `json:"availableStock"`
}

// Counters extrae los contadores del producto.
func (p *Product) Counters() StockCounters {
	return StockCounters{
		CurrentStock:   p.CurrentStock,
		AllocatedStock: p.AllocatedStock,
		AvailableStock: p.AvailableStock,
	}
}

// Apply copia los contadores al producto.
func (p *Product) Apply(c StockCounters) {
	p.CurrentStock = c.CurrentStock
	p.AllocatedStock = c.AllocatedStock
	p.AvailableStock = c.AvailableStock
}

// Identity identidad del producto para comparar contra líneas y órdenes.
func (p *Product) Identity() ProductIdentity {
	return ProductIdentity{ProductID: p.ID, Code: p.Code, Name: p.Name, SKU: p.SKU}
}

// Equal compara los tres contadores.
func (c StockCounters) Equal(o StockCounters) bool {
	return c.CurrentStock.Equal(o.CurrentStock) &&
		c.AllocatedStock.Equal(o.AllocatedStock) &&
		c.AvailableStock.Equal(o.AvailableStock)
}
