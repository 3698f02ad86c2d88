package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationInput una asignación propuesta en el body.
type AllocationInput struct {
	AllocationType   string          `json:"allocationType" validate:"required,oneof=PurchaseOrder Project Warehouse"`
	AllocationTarget string          `json:"allocationTarget" validate:"required"`
	TargetName       string          `json:"targetName" validate:"max=200"`
	Quantity         decimal.Decimal `json:"quantity"`
	Priority         string          `json:"priority" validate:"omitempty,oneof=high medium low"`
	Notes            string          `json:"notes" validate:"max=500"`
}

// AllocateStockRequest body de POST /api/receivings/{parentId}/items/{itemId}/allocations.
type AllocateStockRequest struct {
	Allocations []AllocationInput `json:"allocations" validate:"required,min=1,dive"`
}

// SuggestAllocationsRequest body opcional de la sugerencia. Sin availableQty se usa lo no asignado de la línea.
type SuggestAllocationsRequest struct {
	AvailableQty *decimal.Decimal `json:"availableQty"`
}

// AllocationRecordResponse registro de auditoría.
type AllocationRecordResponse struct {
	ID               string          `json:"id"`
	ReceivingID      string          `json:"receivingId"`
	LineItemID       string          `json:"lineItemId"`
	ProductID        string          `json:"productId"`
	Quantity         decimal.Decimal `json:"quantity"`
	AllocationType   string          `json:"allocationType"`
	AllocationTarget string          `json:"allocationTarget"`
	TargetName       string          `json:"targetName"`
	Status           string          `json:"status"`
	Priority         string          `json:"priority,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	AllocatedBy      string          `json:"allocatedBy,omitempty"`
	AllocatedAt      time.Time       `json:"allocatedAt"`
}

// StockCountersResponse contadores del producto.
type StockCountersResponse struct {
	CurrentStock   decimal.Decimal `json:"currentStock"`
	AllocatedStock decimal.Decimal `json:"allocatedStock"`
	AvailableStock decimal.Decimal `json:"availableStock"`
}

// ResolutionResponse estrategias con las que se resolvieron documento y línea.
type ResolutionResponse struct {
	Parent string `json:"parent"`
	Item   string `json:"item"`
}

// AllocateStockResponse resultado de la asignación.
type AllocateStockResponse struct {
	JobID          string                     `json:"jobId"`
	ReceivingID    string                     `json:"receivingId"`
	ItemID         string                     `json:"itemId"`
	TotalAllocated decimal.Decimal            `json:"totalAllocated"`
	UnallocatedQty decimal.Decimal            `json:"unallocatedQty"`
	Records        []AllocationRecordResponse `json:"records"`
	ProductStock   StockCountersResponse      `json:"productStock"`
	Steps          []string                   `json:"steps"`
	Resolution     ResolutionResponse         `json:"resolution"`
}

// SuggestedAllocationResponse una asignación sugerida.
type SuggestedAllocationResponse struct {
	AllocationType   string          `json:"allocationType"`
	AllocationTarget string          `json:"allocationTarget"`
	TargetName       string          `json:"targetName"`
	Quantity         decimal.Decimal `json:"quantity"`
	Priority         string          `json:"priority"`
	Notes            string          `json:"notes,omitempty"`
}

// SuggestAllocationsResponse sugerencia; la suma de allocations es exactamente availableQty.
type SuggestAllocationsResponse struct {
	ReceivingID  string                        `json:"receivingId"`
	ItemID       string                        `json:"itemId"`
	AvailableQty decimal.Decimal               `json:"availableQty"`
	Allocations  []SuggestedAllocationResponse `json:"allocations"`
}

// OrderTargetResponse orden abierta candidata.
type OrderTargetResponse struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Need        decimal.Decimal `json:"need"`
	Priority    string          `json:"priority"`
}

// TargetResponse proyecto o bodega.
type TargetResponse struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// AvailableTargetsResponse destinos disponibles para un producto.
type AvailableTargetsResponse struct {
	OpenOrders   []OrderTargetResponse `json:"openOrders"`
	ProjectCodes []TargetResponse      `json:"projectCodes"`
	Warehouses   []TargetResponse      `json:"warehouses"`
}

// ReversalResponse resumen de la reversión.
type ReversalResponse struct {
	JobID             string                `json:"jobId,omitempty"`
	ReceivingID       string                `json:"receivingId"`
	ItemID            string                `json:"itemId"`
	ProductID         string                `json:"productId"`
	TotalReversed     decimal.Decimal       `json:"totalReversed"`
	WarehouseReversed decimal.Decimal       `json:"warehouseReversed"`
	ReservedReversed  decimal.Decimal       `json:"reservedReversed"`
	AllocationIDs     []string              `json:"allocationIds"`
	Before            StockCountersResponse `json:"before"`
	After             StockCountersResponse `json:"after"`
	UnallocatedQty    decimal.Decimal       `json:"unallocatedQty"`
	Steps             []string              `json:"steps"`
	Warnings          []string              `json:"warnings,omitempty"`
}

// ReconciliationResponse reporte de conciliación de una línea.
type ReconciliationResponse struct {
	ReceivingID  string                 `json:"receivingId"`
	ItemID       string                 `json:"itemId"`
	Received     decimal.Decimal        `json:"received"`
	ListTotal    decimal.Decimal        `json:"listTotal"`
	CachedTotal  decimal.Decimal        `json:"cachedTotal"`
	RecordsTotal decimal.Decimal        `json:"recordsTotal"`
	ProductStock *StockCountersResponse `json:"productStock,omitempty"`
	Consistent   bool                   `json:"consistent"`
	Issues       []string               `json:"issues"`
}
