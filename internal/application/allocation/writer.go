package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/procurement-allocation/internal/domain/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// Pasos de la saga (PersistenceError.Completed).
const (
	StepAllocationRecord = "allocation_record"
	StepLineItem         = "line_item"
	StepProductStock     = "product_stock"
	StepOrderFulfillment = "order_fulfillment"
)

func stepFor(step, id string) string { return step + ":" + id }

// AllocateResult resultado de una asignación aplicada.
type AllocateResult struct {
	JobID          string
	ReceivingID    entity.ReceivingID
	Item           entity.LineItem
	Records        []entity.AllocationRecord
	Product        entity.StockCounters
	Steps          []string
	ParentStrategy string
	ItemStrategy   string
}

// AllocateStock valida la propuesta contra el estado más reciente de la línea y la aplica:
// registros de auditoría → línea → contadores del producto → cumplimiento de cada orden destino.
// Los rechazos de validación ocurren antes de cualquier escritura. Una falla a mitad de camino devuelve
// *domain.PersistenceError con los pasos ya aplicados; no se deshacen.
func (uc *AllocationUseCase) AllocateStock(
	ctx context.Context,
	parentID, itemID string,
	proposed []entity.ProposedAllocation,
) (*AllocateResult, error) {
	ri, err := uc.ResolveItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	unlock, err := uc.lockItem(ctx, ri.Parent.ID, ri.Item.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Con candado, se relee la línea para validar contra el estado más reciente.
	if uc.cfg.LockItems {
		if ri, err = uc.ResolveItem(ctx, string(ri.Parent.ID), string(ri.Item.ID)); err != nil {
			return nil, err
		}
	}

	product, _, err := uc.ResolveProduct(ctx, ri.Item.ProductIdentity)
	if err != nil {
		return nil, err
	}
	proposed, orders, err := uc.resolveTargets(ctx, proposed)
	if err != nil {
		return nil, err
	}
	status := make(map[entity.TargetID]string, len(orders))
	for id, o := range orders {
		status[id] = o.Status
	}
	res := allocation.Validate(allocation.ValidationInput{
		Item:             &ri.Item,
		Proposed:         proposed,
		OrderStatus:      status,
		OpenStatuses:     uc.cfg.OpenStatuses,
		Product:          product,
		EnforceAvailable: uc.cfg.EnforceAvailableStock,
	})
	if err := res.Err(); err != nil {
		uc.log.Info().Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(ri.Item.ID)).
			Str("field", res.Field).Str("reason", res.Reason).Msg("asignación rechazada")
		return nil, err
	}

	job := NewJob(ctx, JobAllocate, uc.now())
	wctx, err := job.Begin(uc.now())
	if err != nil {
		return nil, err
	}
	log := uc.log.With().Str("job_id", job.ID).Str("parent_id", string(ri.Parent.ID)).
		Str("item_id", string(ri.Item.ID)).Logger()

	now := uc.now()
	records := make([]entity.AllocationRecord, 0, len(proposed))
	for _, a := range proposed {
		rec := entity.AllocationRecord{
			ID:             entity.AllocationID(uuid.New().String()),
			ReceivingID:    ri.Parent.ID,
			LineItemID:     ri.Item.ID,
			ProductID:      product.ID,
			Quantity:       a.Quantity,
			AllocationType: a.AllocationType,
			TargetID:       a.TargetID,
			TargetName:     a.TargetName,
			Status:         entity.AllocationStatusAllocated,
			Priority:       a.Priority,
			Notes:          auditNote(a.Notes, ri),
			AllocatedBy:    ActorFrom(ctx),
			AllocatedAt:    now,
			UpdatedAt:      now,
		}
		if err := uc.allocations.Create(wctx, &rec); err != nil {
			step := stepFor(StepAllocationRecord, string(rec.ID))
			log.Error().Err(err).Str("step", step).Strs("completed", job.Steps).Msg("falla al crear registro de asignación")
			return nil, job.Fail(step, err, uc.now())
		}
		job.Done(stepFor(StepAllocationRecord, string(rec.ID)))
		records = append(records, rec)
	}

	item := ri.Item
	item.Allocations = append(append([]entity.AllocationRecord(nil), item.Allocations...), records...)
	item.Recompute()
	item.UpdatedAt = now
	if err := uc.receivings.UpdateItem(wctx, ri.Parent.ID, ri.Index, item); err != nil {
		log.Error().Err(err).Str("step", StepLineItem).Strs("completed", job.Steps).Msg("falla al actualizar la línea")
		return nil, job.Fail(StepLineItem, err, uc.now())
	}
	job.Done(StepLineItem)

	wh, reserved := allocation.Partition(records)
	counters := allocation.Increment(product.Counters(), wh, reserved)
	if err := uc.products.UpdateStock(wctx, product.ID, counters); err != nil {
		log.Error().Err(err).Str("step", StepProductStock).Strs("completed", job.Steps).Msg("falla al actualizar el stock del producto")
		return nil, job.Fail(StepProductStock, err, uc.now())
	}
	job.Done(StepProductStock)

	for _, group := range groupByOrder(records) {
		order := orders[group.target]
		step := stepFor(StepOrderFulfillment, string(order.ID))
		refs := make([]entity.AllocationRef, 0, len(group.records))
		for _, r := range group.records {
			refs = append(refs, entity.AllocationRef{
				AllocationID: r.ID,
				ReceivingID:  r.ReceivingID,
				LineItemID:   r.LineItemID,
				Quantity:     r.Quantity,
				At:           now,
			})
		}
		lines, f := allocation.ApplyFulfillment(order, product.Identity(), refs, now)
		if err := uc.orders.UpdateFulfillment(wctx, order.ID, lines, f); err != nil {
			log.Error().Err(err).Str("step", step).Strs("completed", job.Steps).Msg("falla al actualizar el cumplimiento de la orden")
			return nil, job.Fail(step, err, uc.now())
		}
		job.Done(step)
	}

	job.Complete(uc.now())
	log.Info().
		Int("records", len(records)).
		Str("warehouse", wh.String()).
		Str("reserved", reserved.String()).
		Str("total_allocated", item.TotalAllocated.String()).
		Msg("asignación aplicada")

	return &AllocateResult{
		JobID:          job.ID,
		ReceivingID:    ri.Parent.ID,
		Item:           item,
		Records:        records,
		Product:        counters,
		Steps:          job.Steps,
		ParentStrategy: string(ri.ParentStrategy),
		ItemStrategy:   string(ri.ItemStrategy),
	}, nil
}

type orderGroup struct {
	target  entity.TargetID
	records []entity.AllocationRecord
}

// groupByOrder agrupa los registros de tipo orden por orden destino, en orden de aparición.
func groupByOrder(records []entity.AllocationRecord) []orderGroup {
	var groups []orderGroup
	pos := make(map[entity.TargetID]int)
	for _, r := range records {
		if r.AllocationType != entity.AllocationPurchaseOrder {
			continue
		}
		i, ok := pos[r.TargetID]
		if !ok {
			i = len(groups)
			pos[r.TargetID] = i
			groups = append(groups, orderGroup{target: r.TargetID})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// auditNote nota del usuario más la estrategia con que se resolvió la línea.
func auditNote(note string, ri *ResolvedItem) string {
	audit := fmt.Sprintf("recepción resuelta por %s, línea por %s", ri.ParentStrategy, ri.ItemStrategy)
	if note == "" {
		return audit
	}
	return note + " | " + audit
}
