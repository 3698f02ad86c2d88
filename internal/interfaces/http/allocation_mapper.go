package http

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/internal/application/dto"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

func toProposed(in []dto.AllocationInput) []entity.ProposedAllocation {
	out := make([]entity.ProposedAllocation, 0, len(in))
	for _, a := range in {
		out = append(out, entity.ProposedAllocation{
			AllocationType: entity.AllocationType(a.AllocationType),
			TargetID:       entity.TargetID(a.AllocationTarget),
			TargetName:     a.TargetName,
			Quantity:       a.Quantity,
			Priority:       a.Priority,
			Notes:          a.Notes,
		})
	}
	return out
}

func toCounters(c entity.StockCounters) dto.StockCountersResponse {
	return dto.StockCountersResponse{
		CurrentStock:   c.CurrentStock,
		AllocatedStock: c.AllocatedStock,
		AvailableStock: c.AvailableStock,
	}
}

func toRecord(r entity.AllocationRecord) dto.AllocationRecordResponse {
	return dto.AllocationRecordResponse{
		ID:               string(r.ID),
		ReceivingID:      string(r.ReceivingID),
		LineItemID:       string(r.LineItemID),
		ProductID:        string(r.ProductID),
		Quantity:         r.Quantity,
		AllocationType:   string(r.AllocationType),
		AllocationTarget: string(r.TargetID),
		TargetName:       r.TargetName,
		Status:           string(r.Status),
		Priority:         r.Priority,
		Notes:            r.Notes,
		AllocatedBy:      r.AllocatedBy,
		AllocatedAt:      r.AllocatedAt,
	}
}

func toAllocateResponse(res *allocation.AllocateResult) dto.AllocateStockResponse {
	records := make([]dto.AllocationRecordResponse, 0, len(res.Records))
	for _, r := range res.Records {
		records = append(records, toRecord(r))
	}
	return dto.AllocateStockResponse{
		JobID:          res.JobID,
		ReceivingID:    string(res.ReceivingID),
		ItemID:         string(res.Item.ID),
		TotalAllocated: res.Item.TotalAllocated,
		UnallocatedQty: res.Item.UnallocatedQty,
		Records:        records,
		ProductStock:   toCounters(res.Product),
		Steps:          res.Steps,
		Resolution:     dto.ResolutionResponse{Parent: res.ParentStrategy, Item: res.ItemStrategy},
	}
}

func toSuggestResponse(res *allocation.SuggestionResult) dto.SuggestAllocationsResponse {
	out := dto.SuggestAllocationsResponse{
		ReceivingID:  string(res.ReceivingID),
		ItemID:       string(res.LineItemID),
		AvailableQty: res.Available,
		Allocations:  make([]dto.SuggestedAllocationResponse, 0, len(res.Allocations)),
	}
	for _, a := range res.Allocations {
		out.Allocations = append(out.Allocations, dto.SuggestedAllocationResponse{
			AllocationType:   string(a.AllocationType),
			AllocationTarget: string(a.TargetID),
			TargetName:       a.TargetName,
			Quantity:         a.Quantity,
			Priority:         a.Priority,
			Notes:            a.Notes,
		})
	}
	return out
}

func toTargetsResponse(t *entity.AvailableTargets) dto.AvailableTargetsResponse {
	out := dto.AvailableTargetsResponse{
		OpenOrders:   make([]dto.OrderTargetResponse, 0, len(t.OpenOrders)),
		ProjectCodes: make([]dto.TargetResponse, 0, len(t.ProjectCodes)),
		Warehouses:   make([]dto.TargetResponse, 0, len(t.Warehouses)),
	}
	for _, o := range t.OpenOrders {
		out.OpenOrders = append(out.OpenOrders, dto.OrderTargetResponse{
			OrderID:     string(o.OrderID),
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			DueDate:     o.DueDate,
			Need:        o.Need,
			Priority:    o.Priority,
		})
	}
	for _, p := range t.ProjectCodes {
		out.ProjectCodes = append(out.ProjectCodes, dto.TargetResponse{ID: string(p.ID), Code: p.Code, Name: p.Name})
	}
	for _, w := range t.Warehouses {
		out.Warehouses = append(out.Warehouses, dto.TargetResponse{ID: string(w.ID), Name: w.Name})
	}
	return out
}

func toReversalResponse(s *allocation.ReversalSummary) dto.ReversalResponse {
	ids := make([]string, 0, len(s.AllocationIDs))
	for _, id := range s.AllocationIDs {
		ids = append(ids, string(id))
	}
	steps := s.Steps
	if steps == nil {
		steps = []string{}
	}
	return dto.ReversalResponse{
		JobID:             s.JobID,
		ReceivingID:       string(s.ReceivingID),
		ItemID:            string(s.LineItemID),
		ProductID:         string(s.ProductID),
		TotalReversed:     s.TotalReversed,
		WarehouseReversed: s.WarehouseReversed,
		ReservedReversed:  s.ReservedReversed,
		AllocationIDs:     ids,
		Before:            toCounters(s.Before),
		After:             toCounters(s.After),
		UnallocatedQty:    s.Item.UnallocatedQty,
		Steps:             steps,
		Warnings:          s.Warnings,
	}
}

func toReconciliationResponse(r *allocation.ReconciliationReport) dto.ReconciliationResponse {
	out := dto.ReconciliationResponse{
		ReceivingID:  string(r.ReceivingID),
		ItemID:       string(r.LineItemID),
		Received:     r.Received,
		ListTotal:    r.ListTotal,
		CachedTotal:  r.CachedTotal,
		RecordsTotal: r.RecordsTotal,
		Consistent:   r.Consistent,
		Issues:       r.Issues,
	}
	if r.Product != nil {
		c := toCounters(*r.Product)
		out.ProductStock = &c
	}
	if out.Issues == nil {
		out.Issues = []string{}
	}
	return out
}

// parseQty acepta availableQty también como query string (?availableQty=30).
func parseQty(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
