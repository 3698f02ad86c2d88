package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectCode código de proyecto (catálogo de solo lectura).
type ProjectCode struct {
	ID     TargetID `json:"id"`
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Active bool     `json:"active"`
}

// Warehouse bodega destino (catálogo de solo lectura).
type Warehouse struct {
	ID      TargetID `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
}

// OrderTarget orden abierta candidata, con su necesidad calculada para un producto.
type OrderTarget struct {
	OrderID     OrderID         `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Need        decimal.Decimal `json:"need"`
	Priority    string          `json:"priority"`
}

// AvailableTargets destinos disponibles para un producto.
type AvailableTargets struct {
	OpenOrders   []OrderTarget `json:"openOrders"`
	ProjectCodes []ProjectCode `json:"projectCodes"`
	Warehouses   []Warehouse   `json:"warehouses"`
}
