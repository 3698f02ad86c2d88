package allocation_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func days(n int) *time.Time {
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t
}

var open = []string{"draft", "confirmed", "processing"}

var widget = entity.ProductIdentity{ProductID: "prod-1", Code: "W-1", Name: "Widget", SKU: "SKU-W1"}

func order(id, number, status string, due *time.Time, ordered, fulfilled int64) *entity.ConsumingOrder {
	return &entity.ConsumingOrder{
		ID:          entity.OrderID(id),
		OrderNumber: number,
		Status:      status,
		DueDate:     due,
		Lines: []entity.OrderLine{{
			ProductIdentity: entity.ProductIdentity{Code: "SKU-W1"},
			OrderedQty:      d(ordered),
			FulfilledQty:    d(fulfilled),
		}},
	}
}
