package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationType destino de una asignación.
type AllocationType string

const (
	AllocationPurchaseOrder AllocationType = "PurchaseOrder"
	AllocationProject       AllocationType = "Project"
	AllocationWarehouse     AllocationType = "Warehouse"
)

// Valid indica si el tipo es uno de los conocidos.
func (t AllocationType) Valid() bool {
	switch t {
	case AllocationPurchaseOrder, AllocationProject, AllocationWarehouse:
		return true
	}
	return false
}

// Reserves indica si el tipo reserva stock (allocatedStock) en vez de ingresarlo a bodega (currentStock).
func (t AllocationType) Reserves() bool {
	return t == AllocationPurchaseOrder || t == AllocationProject
}

// AllocationStatus estado de un AllocationRecord.
// allocated → consumed (evento externo) | allocated → cancelled (reversión). Ambos terminales.
type AllocationStatus string

const (
	AllocationStatusAllocated AllocationStatus = "allocated"
	AllocationStatusConsumed  AllocationStatus = "consumed"
	AllocationStatusCancelled AllocationStatus = "cancelled"
)

// CanTransitionTo valida la máquina de estados.
func (s AllocationStatus) CanTransitionTo(next AllocationStatus) bool {
	return s == AllocationStatusAllocated &&
		(next == AllocationStatusConsumed || next == AllocationStatusCancelled)
}

// Prioridades de asignación (sugerencias y órdenes).
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityRank orden numérico: menor = más urgente.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// AllocationRecord registro de auditoría por asignación. Solo cambia Status tras su creación.
type AllocationRecord struct {
	ID             AllocationID     `json:"id"`
	ReceivingID    ReceivingID      `json:"receivingId"`
	LineItemID     LineItemID       `json:"lineItemId"`
	ProductID      ProductID        `json:"productId"`
	Quantity       decimal.Decimal  `json:"quantity"`
	AllocationType AllocationType   `json:"allocationType"`
	TargetID       TargetID         `json:"allocationTarget"`
	TargetName     string           `json:"targetName"`
	Status         AllocationStatus `json:"status"`
	Priority       string           `json:"priority,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	AllocatedBy    string           `json:"allocatedBy,omitempty"`
	AllocatedAt    time.Time        `json:"allocatedAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ProposedAllocation asignación propuesta (por el usuario o por el motor de sugerencias), aún sin persistir.
type ProposedAllocation struct {
	AllocationType AllocationType  `json:"allocationType"`
	TargetID       TargetID        `json:"allocationTarget"`
	TargetName     string          `json:"targetName,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Priority       string          `json:"priority,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}
