package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/resolver"
)

// ResolvedItem línea resuelta dentro de su documento padre, con la estrategia que encontró cada uno.
type ResolvedItem struct {
	Parent         *entity.ReceivingDocument
	Item           entity.LineItem
	Index          int
	ParentStrategy resolver.Strategy
	ItemStrategy   resolver.Strategy
}

// ResolveItem localiza documento padre y línea. Intenta primero la lectura puntual por id y por número
// de documento; si no hay suerte recorre todos los documentos con la cascada permisiva.
func (uc *AllocationUseCase) ResolveItem(ctx context.Context, parentID, itemID string) (*ResolvedItem, error) {
	parentID, itemID = strings.TrimSpace(parentID), strings.TrimSpace(itemID)
	if parentID == "" {
		return nil, domain.NewValidationError("parentId", "es obligatorio")
	}
	if itemID == "" {
		return nil, domain.NewValidationError("itemId", "es obligatorio")
	}

	parent, strategy, err := uc.resolveParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	m, err := resolver.ItemCascade().Resolve(itemID, parent.Items)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			nf.Query = parentID + "/" + itemID
		}
		return nil, err
	}
	uc.log.Debug().
		Str("parent_id", string(parent.ID)).
		Str("item_id", string(m.Value.ID)).
		Str("parent_strategy", string(strategy)).
		Str("strategy", string(m.Strategy)).
		Msg("línea resuelta")
	return &ResolvedItem{
		Parent:         parent,
		Item:           m.Value,
		Index:          m.Index,
		ParentStrategy: strategy,
		ItemStrategy:   m.Strategy,
	}, nil
}

func (uc *AllocationUseCase) resolveParent(ctx context.Context, parentID string) (*entity.ReceivingDocument, resolver.Strategy, error) {
	doc, err := uc.receivings.GetByID(ctx, entity.ReceivingID(parentID))
	if err != nil {
		return nil, "", fmt.Errorf("leer recepción %s: %w", parentID, err)
	}
	if doc != nil {
		return doc, resolver.StrategyPrimaryKey, nil
	}
	byNumber, err := uc.receivings.ListByDocumentNumber(ctx, parentID)
	if err != nil {
		return nil, "", fmt.Errorf("buscar recepción %s por número: %w", parentID, err)
	}
	if len(byNumber) > 0 {
		m, err := resolver.ReceivingCascade().Resolve(parentID, byNumber)
		if err == nil {
			return m.Value, m.Strategy, nil
		}
	}
	all, err := uc.receivings.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("listar recepciones: %w", err)
	}
	m, err := resolver.ReceivingCascade().Resolve(parentID, all)
	if err != nil {
		return nil, "", err
	}
	return m.Value, m.Strategy, nil
}

// ResolveProduct localiza el producto de una identidad (id → SKU → código → nombre).
func (uc *AllocationUseCase) ResolveProduct(ctx context.Context, id entity.ProductIdentity) (*entity.Product, resolver.Strategy, error) {
	if id.ProductID != "" {
		p, err := uc.products.GetByID(ctx, id.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("leer producto %s: %w", id.ProductID, err)
		}
		if p != nil {
			return p, resolver.StrategyProductID, nil
		}
	}
	all, err := uc.products.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("listar productos: %w", err)
	}
	m, err := resolver.ProductCascade().Resolve(id, all)
	if err != nil {
		return nil, "", err
	}
	return m.Value, m.Strategy, nil
}

// ResolveOrder localiza una orden consumidora por id o número de orden.
func (uc *AllocationUseCase) ResolveOrder(ctx context.Context, ref string) (*entity.ConsumingOrder, resolver.Strategy, error) {
	ref = strings.TrimSpace(ref)
	o, err := uc.orders.GetByID(ctx, entity.OrderID(ref))
	if err != nil {
		return nil, "", fmt.Errorf("leer orden %s: %w", ref, err)
	}
	if o != nil {
		return o, resolver.StrategyPrimaryKey, nil
	}
	all, err := uc.orders.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("listar órdenes: %w", err)
	}
	m, err := resolver.OrderCascade().Resolve(ref, all)
	if err != nil {
		return nil, "", err
	}
	return m.Value, m.Strategy, nil
}

// resolveTargets normaliza los destinos de tipo orden al id real de la orden. Las órdenes que no se
// encuentran quedan fuera del mapa y el validador las rechaza.
func (uc *AllocationUseCase) resolveTargets(
	ctx context.Context,
	proposed []entity.ProposedAllocation,
) ([]entity.ProposedAllocation, map[entity.TargetID]*entity.ConsumingOrder, error) {
	out := make([]entity.ProposedAllocation, len(proposed))
	copy(out, proposed)
	orders := make(map[entity.TargetID]*entity.ConsumingOrder)
	for i, a := range out {
		if a.AllocationType != entity.AllocationPurchaseOrder || strings.TrimSpace(string(a.TargetID)) == "" {
			continue
		}
		o, strategy, err := uc.ResolveOrder(ctx, string(a.TargetID))
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Debug().Str("target", string(a.TargetID)).Msg("orden destino no encontrada")
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		uc.log.Debug().Str("target", string(a.TargetID)).Str("order_id", string(o.ID)).
			Str("strategy", string(strategy)).Msg("orden destino resuelta")
		out[i].TargetID = entity.TargetID(o.ID)
		if out[i].TargetName == "" {
			out[i].TargetName = o.OrderNumber
		}
		orders[out[i].TargetID] = o
	}
	return out, orders, nil
}
