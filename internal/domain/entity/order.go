package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden consumidora. Los abiertos por defecto son draft, confirmed y processing.
const (
	OrderStatusDraft      = "draft"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ConsumingOrder orden de compra (de cliente) que consume unidades recibidas.
type ConsumingOrder struct {
	ID          OrderID     `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Status      string      `json:"status"`
	CustomerRef string      `json:"customerRef,omitempty"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	Lines       []OrderLine `json:"lines"`
	Fulfillment Fulfillment `json:"fulfillment"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderLine línea de la orden consumidora.
type OrderLine struct {
	ProductIdentity
	OrderedQty   decimal.Decimal `json:"orderedQty"`
	FulfilledQty decimal.Decimal `json:"fulfilledQty"`
}

// Need unidades pendientes de la línea.
func (l OrderLine) Need() decimal.Decimal {
	return l.OrderedQty.Sub(l.FulfilledQty)
}

// Fulfillment seguimiento de cumplimiento de la orden.
type Fulfillment struct {
	Allocations    []AllocationRef `json:"allocations"`
	TotalOrdered   decimal.Decimal `json:"totalOrdered"`
	TotalFulfilled decimal.Decimal `json:"totalFulfilled"`
	Rate           decimal.Decimal `json:"fulfillmentRate"` // TotalFulfilled / TotalOrdered * 100
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AllocationRef referencia de una asignación aplicada a la orden.
type AllocationRef struct {
	AllocationID AllocationID    `json:"allocationId"`
	ReceivingID  ReceivingID     `json:"receivingId"`
	LineItemID   LineItemID      `json:"lineItemId"`
	Quantity     decimal.Decimal `json:"quantity"`
	At           time.Time       `json:"at"`
}

// TotalOrderedQty suma de lo ordenado en todas las líneas.
func (o *ConsumingOrder) TotalOrderedQty() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.OrderedQty)
	}
	return total
}
