package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// StepVerifyProduct relectura del producto tras la escritura (no es una escritura, no entra en Steps).
const StepVerifyProduct = "verify_product"

// ReversalSummary lo que deshizo una reversión.
type ReversalSummary struct {
	JobID             string
	ReceivingID       entity.ReceivingID
	LineItemID        entity.LineItemID
	ProductID         entity.ProductID
	TotalReversed     decimal.Decimal
	WarehouseReversed decimal.Decimal
	ReservedReversed  decimal.Decimal
	AllocationIDs     []entity.AllocationID
	Before            entity.StockCounters
	After             entity.StockCounters
	Item              entity.LineItem
	Reset             *entity.ResetEntry
	Steps             []string
	Warnings          []string
}

// ResetItemAllocations revierte todas las asignaciones de una línea: descuenta del producto lo que cada
// asignación sumó, verifica el producto releyéndolo, vacía la lista de la línea (con entrada en el historial)
// y marca los registros como cancelled. Solo escribe la línea objetivo; las hermanas no se leen ni se tocan.
// Las cantidades cumplidas de las órdenes no se revierten.
func (uc *AllocationUseCase) ResetItemAllocations(ctx context.Context, parentID, itemID string) (*ReversalSummary, error) {
	ri, err := uc.ResolveItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	unlock, err := uc.lockItem(ctx, ri.Parent.ID, ri.Item.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if uc.cfg.LockItems {
		if ri, err = uc.ResolveItem(ctx, string(ri.Parent.ID), string(ri.Item.ID)); err != nil {
			return nil, err
		}
	}

	product, _, err := uc.ResolveProduct(ctx, ri.Item.ProductIdentity)
	if err != nil {
		return nil, err
	}
	summary := &ReversalSummary{
		ReceivingID:       ri.Parent.ID,
		LineItemID:        ri.Item.ID,
		ProductID:         product.ID,
		TotalReversed:     decimal.Zero,
		WarehouseReversed: decimal.Zero,
		ReservedReversed:  decimal.Zero,
		Before:            product.Counters(),
		After:             product.Counters(),
		Item:              ri.Item,
	}
	if len(ri.Item.Allocations) == 0 {
		summary.Warnings = append(summary.Warnings, "la línea no tiene asignaciones; no hay nada que revertir")
		return summary, nil
	}

	plan, err := allocation.PlanReversal(&ri.Item, product)
	if err != nil {
		uc.log.Warn().Err(err).Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(ri.Item.ID)).
			Msg("reversión rechazada")
		return nil, err
	}
	if plan.CacheMismatch() {
		msg := fmt.Sprintf("totalAllocated cacheado %s difiere de la suma de asignaciones %s; se usa la suma",
			plan.CachedTotal, plan.TotalToReverse)
		summary.Warnings = append(summary.Warnings, msg)
		uc.log.Warn().Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(ri.Item.ID)).Msg(msg)
	}

	job := NewJob(ctx, JobReset, uc.now())
	wctx, err := job.Begin(uc.now())
	if err != nil {
		return nil, err
	}
	summary.JobID = job.ID
	log := uc.log.With().Str("job_id", job.ID).Str("parent_id", string(ri.Parent.ID)).
		Str("item_id", string(ri.Item.ID)).Logger()

	if err := uc.products.UpdateStock(wctx, product.ID, plan.After); err != nil {
		log.Error().Err(err).Str("step", StepProductStock).Msg("falla al descontar el stock del producto")
		return nil, job.Fail(StepProductStock, err, uc.now())
	}
	job.Done(StepProductStock)

	// Relectura: detecta escrituras concurrentes perdidas sobre el producto compartido.
	reread, err := uc.products.GetByID(wctx, product.ID)
	switch {
	case err != nil:
		summary.Warnings = append(summary.Warnings, "no se pudo releer el producto: "+err.Error())
		log.Warn().Err(err).Str("step", StepVerifyProduct).Msg("relectura del producto fallida")
	case reread == nil:
		summary.Warnings = append(summary.Warnings, "el producto desapareció tras la escritura")
		log.Warn().Str("step", StepVerifyProduct).Msg("producto no encontrado en la relectura")
	case !reread.Counters().Equal(plan.After):
		got := reread.Counters()
		summary.Warnings = append(summary.Warnings, fmt.Sprintf(
			"el producto no quedó como se esperaba: current %s (esperado %s), allocated %s (esperado %s)",
			got.CurrentStock, plan.After.CurrentStock, got.AllocatedStock, plan.After.AllocatedStock))
		log.Warn().Str("step", StepVerifyProduct).
			Str("current_stock", got.CurrentStock.String()).
			Str("expected_current_stock", plan.After.CurrentStock.String()).
			Str("allocated_stock", got.AllocatedStock.String()).
			Str("expected_allocated_stock", plan.After.AllocatedStock.String()).
			Msg("verificación del producto no coincide")
	}

	now := uc.now()
	entry := entity.ResetEntry{
		ID:                uuid.New().String(),
		At:                now,
		TotalReversed:     plan.TotalToReverse,
		WarehouseReversed: plan.WarehouseReversal,
		ReservedReversed:  plan.ReservedReversal,
		AllocationIDs:     plan.AllocationIDs,
		Note:              "reversión de todas las asignaciones de la línea",
		ResetBy:           ActorFrom(ctx),
	}
	item := ri.Item
	item.Allocations = []entity.AllocationRecord{}
	item.Recompute()
	item.ResetHistory = append(append([]entity.ResetEntry(nil), item.ResetHistory...), entry)
	item.UpdatedAt = now
	if err := uc.receivings.UpdateItem(wctx, ri.Parent.ID, ri.Index, item); err != nil {
		log.Error().Err(err).Str("step", StepLineItem).Strs("completed", job.Steps).Msg("falla al limpiar la línea")
		return nil, job.Fail(StepLineItem, err, uc.now())
	}
	job.Done(StepLineItem)

	for _, id := range plan.AllocationIDs {
		step := stepFor(StepAllocationRecord, string(id))
		rec, err := uc.allocations.GetByID(wctx, id)
		if err != nil {
			log.Error().Err(err).Str("step", step).Strs("completed", job.Steps).Msg("falla al leer el registro de asignación")
			return nil, job.Fail(step, err, uc.now())
		}
		if rec == nil {
			summary.Warnings = append(summary.Warnings, "registro de asignación "+string(id)+" no existe")
			continue
		}
		if !rec.Status.CanTransitionTo(entity.AllocationStatusCancelled) {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("registro %s en estado %s; no se cancela", id, rec.Status))
			continue
		}
		if err := uc.allocations.UpdateStatus(wctx, id, entity.AllocationStatusCancelled); err != nil {
			log.Error().Err(err).Str("step", step).Strs("completed", job.Steps).Msg("falla al cancelar el registro de asignación")
			return nil, job.Fail(step, err, uc.now())
		}
		job.Done(step)
	}

	job.Complete(uc.now())
	log.Info().
		Str("total_reversed", plan.TotalToReverse.String()).
		Str("warehouse_reversed", plan.WarehouseReversal.String()).
		Str("reserved_reversed", plan.ReservedReversal.String()).
		Int("warnings", len(summary.Warnings)).
		Msg("reversión aplicada")

	summary.TotalReversed = plan.TotalToReverse
	summary.WarehouseReversed = plan.WarehouseReversal
	summary.ReservedReversed = plan.ReservedReversal
	summary.AllocationIDs = plan.AllocationIDs
	summary.After = plan.After
	summary.Item = item
	summary.Reset = &entry
	summary.Steps = job.Steps
	return summary, nil
}
