package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivingDocument documento padre de recepción (factura proforma, documento de proveedor, recepción).
type ReceivingDocument struct {
	ID             ReceivingID `json:"id"`
	DocumentNumber string      `json:"documentNumber"` // clave de negocio legible
	SupplierName   string      `json:"supplierName,omitempty"`
	Status         string      `json:"status,omitempty"`
	Items          []LineItem  `json:"items"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// LineItem línea de producto dentro de un documento de recepción.
type LineItem struct {
	ID LineItemID `json:"id"`
	ProductIdentity
	QuantityOrdered  decimal.Decimal    `json:"quantityOrdered"`
	QuantityReceived decimal.Decimal    `json:"quantityReceived"`
	Allocations      []AllocationRecord `json:"allocations"`
	TotalAllocated   decimal.Decimal    `json:"totalAllocated"`
	UnallocatedQty   decimal.Decimal    `json:"unallocatedQty"`
	ResetHistory     []ResetEntry       `json:"resetHistory,omitempty"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// SumAllocations suma las cantidades de la lista de asignaciones.
func (li *LineItem) SumAllocations() decimal.Decimal {
	total := decimal.Zero
	for _, a := range li.Allocations {
		total = total.Add(a.Quantity)
	}
	return total
}

// Available cantidad recibida aún sin asignar, calculada desde la lista (no desde el total cacheado).
func (li *LineItem) Available() decimal.Decimal {
	return li.QuantityReceived.Sub(li.SumAllocations())
}

// Recompute recalcula los derivados totalAllocated y unallocatedQty.
func (li *LineItem) Recompute() {
	li.TotalAllocated = li.SumAllocations()
	li.UnallocatedQty = li.QuantityReceived.Sub(li.TotalAllocated)
}

// ResetEntry entrada del historial de reversiones de una línea.
type ResetEntry struct {
	ID                string          `json:"id"`
	At                time.Time       `json:"at"`
	TotalReversed     decimal.Decimal `json:"totalReversed"`
	WarehouseReversed decimal.Decimal `json:"warehouseReversed"`
	ReservedReversed  decimal.Decimal `json:"reservedReversed"`
	AllocationIDs     []AllocationID  `json:"allocationIds"`
	Note              string          `json:"note,omitempty"`
	ResetBy           string          `json:"resetBy,omitempty"`
}
