package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
)

// SuggestionResult sugerencia para una línea; la suma de Allocations es exactamente Available.
type SuggestionResult struct {
	ReceivingID entity.ReceivingID
	LineItemID  entity.LineItemID
	Product     entity.ProductIdentity
	Available   decimal.Decimal
	Allocations []entity.ProposedAllocation
}

// SuggestAllocations propone un reparto de availableQty entre las órdenes abiertas del producto de la línea
// y la bodega por defecto. Sin availableQty se usa lo que queda sin asignar en la línea. No escribe nada.
func (uc *AllocationUseCase) SuggestAllocations(
	ctx context.Context,
	parentID, itemID string,
	availableQty *decimal.Decimal,
) (*SuggestionResult, error) {
	ri, err := uc.ResolveItem(ctx, parentID, itemID)
	if err != nil {
		return nil, err
	}
	remaining := ri.Item.Available()
	available := remaining
	if availableQty != nil {
		available = *availableQty
		if available.GreaterThan(remaining) {
			return nil, domain.NewValidationError("availableQty",
				"la cantidad %s supera lo que queda sin asignar en la línea (%s)", available, remaining)
		}
	}

	identity := ri.Item.ProductIdentity
	var reserveCap *decimal.Decimal
	p, _, err := uc.ResolveProduct(ctx, identity)
	switch {
	case err == nil:
		identity = mergeIdentity(identity, p.Identity())
		// Con la guardia activa la sugerencia no puede reservar más de lo que luego se validaría.
		if uc.cfg.EnforceAvailableStock {
			limit := allocation.ReserveCap(p.Counters(), available)
			reserveCap = &limit
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	orders, err := uc.orders.ListByStatus(ctx, uc.cfg.OpenStatuses)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes abiertas: %w", err)
	}
	suggested, err := allocation.Suggest(allocation.SuggestionInput{
		Available:        available,
		Product:          identity,
		Orders:           orders,
		OpenStatuses:     uc.cfg.OpenStatuses,
		Now:              uc.now(),
		Thresholds:       uc.cfg.Thresholds,
		DefaultWarehouse: uc.cfg.DefaultWarehouse,
		ReserveCap:       reserveCap,
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("parent_id", string(ri.Parent.ID)).Str("item_id", string(ri.Item.ID)).
		Str("available", available.String()).Int("suggestions", len(suggested)).Msg("sugerencia calculada")
	return &SuggestionResult{
		ReceivingID: ri.Parent.ID,
		LineItemID:  ri.Item.ID,
		Product:     identity,
		Available:   available,
		Allocations: suggested,
	}, nil
}

// GetAvailableTargets órdenes abiertas que necesitan el producto (por prioridad), proyectos activos y bodegas.
// productID puede ser id, SKU, código o nombre; si ningún producto coincide se busca en las órdenes tal cual.
func (uc *AllocationUseCase) GetAvailableTargets(ctx context.Context, productID string) (*entity.AvailableTargets, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("productId", "es obligatorio")
	}
	query := entity.ProductIdentity{ProductID: entity.ProductID(productID), Code: productID, SKU: productID, Name: productID}
	identity := query
	p, strategy, err := uc.ResolveProduct(ctx, query)
	switch {
	case err == nil:
		identity = p.Identity()
		uc.log.Debug().Str("product_id", string(p.ID)).Str("strategy", string(strategy)).Msg("producto resuelto")
	case errors.Is(err, domain.ErrNotFound):
		uc.log.Debug().Str("product_id", productID).Msg("producto sin registro; se busca en las órdenes por la clave recibida")
	default:
		return nil, err
	}

	orders, err := uc.orders.ListByStatus(ctx, uc.cfg.OpenStatuses)
	if err != nil {
		return nil, fmt.Errorf("listar órdenes abiertas: %w", err)
	}
	projects, err := uc.catalog.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar proyectos: %w", err)
	}
	warehouses, err := uc.catalog.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	if !containsWarehouse(warehouses, uc.cfg.DefaultWarehouse.ID) && uc.cfg.DefaultWarehouse.ID != "" {
		warehouses = append([]entity.Warehouse{uc.cfg.DefaultWarehouse}, warehouses...)
	}
	if projects == nil {
		projects = []entity.ProjectCode{}
	}
	return &entity.AvailableTargets{
		OpenOrders:   allocation.OpenOrderTargets(identity, orders, uc.cfg.OpenStatuses, uc.now(), uc.cfg.Thresholds),
		ProjectCodes: projects,
		Warehouses:   warehouses,
	}, nil
}

func containsWarehouse(ws []entity.Warehouse, id entity.TargetID) bool {
	for _, w := range ws {
		if w.ID == id {
			return true
		}
	}
	return false
}

// mergeIdentity completa los campos vacíos de a con los de b.
func mergeIdentity(a, b entity.ProductIdentity) entity.ProductIdentity {
	if a.ProductID == "" {
		a.ProductID = b.ProductID
	}
	if a.Code == "" {
		a.Code = b.Code
	}
	if a.Name == "" {
		a.Name = b.Name
	}
	if a.SKU == "" {
		a.SKU = b.SKU
	}
	return a
}
