package allocation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
	"github.com/jhoicas/procurement-allocation/internal/domain/resolver"
	"github.com/jhoicas/procurement-allocation/internal/infrastructure/docstore"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store       repository.DocumentStore
	receivings  *docstore.ReceivingRepo
	products    *docstore.ProductRepo
	orders      *docstore.OrderRepo
	allocations *docstore.AllocationRepo
	catalog     *docstore.CatalogRepo
}

// newFixture recepción rcv-001 (PI-2024-001) con dos líneas de 100 y 30 unidades, producto prod-1 con
// 10 en bodega, una orden confirmada que necesita 50 y una bodega en el catálogo.
func newFixture(t *testing.T, store repository.DocumentStore) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:       store,
		receivings:  docstore.NewReceivingRepository(store),
		products:    docstore.NewProductRepository(store),
		orders:      docstore.NewOrderRepository(store),
		allocations: docstore.NewAllocationRepository(store),
		catalog:     docstore.NewCatalogRepository(store),
	}
	require.NoError(t, f.receivings.Create(ctx, &entity.ReceivingDocument{
		ID:             "rcv-001",
		DocumentNumber: "PI-2024-001",
		SupplierName:   "Proveedor Andino",
		Items: []entity.LineItem{
			{
				ID:               "li-1",
				ProductIdentity:  entity.ProductIdentity{ProductID: "prod-1", Code: "WID-1", Name: "Widget"},
				QuantityOrdered:  d("100"),
				QuantityReceived: d("100"),
				TotalAllocated:   decimal.Zero,
				UnallocatedQty:   d("100"),
			},
			{
				ID:               "li-2",
				ProductIdentity:  entity.ProductIdentity{ProductID: "prod-2", Code: "GAD-2", Name: "Gadget"},
				QuantityOrdered:  d("30"),
				QuantityReceived: d("30"),
				TotalAllocated:   decimal.Zero,
				UnallocatedQty:   d("30"),
			},
		},
		CreatedAt: now,
	}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{
		ID: "prod-1", Code: "WID-1", Name: "Widget", SKU: "SKU-WID-1",
		CurrentStock: d("10"), AllocatedStock: decimal.Zero, AvailableStock: d("10"),
	}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{
		ID: "prod-2", Code: "GAD-2", Name: "Gadget",
		CurrentStock: d("5"), AllocatedStock: decimal.Zero, AvailableStock: d("5"),
	}))
	due := now.Add(3 * 24 * time.Hour)
	require.NoError(t, f.orders.Create(ctx, &entity.ConsumingOrder{
		ID:          "ord-1",
		OrderNumber: "PO-100",
		Status:      entity.OrderStatusConfirmed,
		DueDate:     &due,
		Lines: []entity.OrderLine{{
			ProductIdentity: entity.ProductIdentity{ProductID: "prod-1", Code: "WID-1"},
			OrderedQty:      d("50"),
			FulfilledQty:    decimal.Zero,
		}},
		CreatedAt: now,
	}))
	require.NoError(t, f.orders.Create(ctx, &entity.ConsumingOrder{
		ID:          "ord-2",
		OrderNumber: "PO-200",
		Status:      entity.OrderStatusCompleted,
		Lines: []entity.OrderLine{{
			ProductIdentity: entity.ProductIdentity{ProductID: "prod-1"},
			OrderedQty:      d("10"),
			FulfilledQty:    d("10"),
		}},
	}))
	require.NoError(t, store.Insert(ctx, repository.CollectionWarehouses, "wh-norte",
		entity.Warehouse{ID: "wh-norte", Name: "Bodega norte"}))
	require.NoError(t, store.Insert(ctx, repository.CollectionProjects, "prj-1",
		entity.ProjectCode{ID: "prj-1", Code: "PRJ-1", Name: "Obra norte", Active: true}))
	return f
}

func (f *fixture) useCase(cfg allocation.Config, locker allocation.ItemLocker) *allocation.AllocationUseCase {
	return allocation.NewAllocationUseCase(f.receivings, f.products, f.orders, f.allocations, f.catalog, locker, cfg, nil).
		WithClock(func() time.Time { return now })
}

func (f *fixture) item(t *testing.T, id entity.LineItemID) entity.LineItem {
	t.Helper()
	doc, err := f.receivings.GetByID(context.Background(), "rcv-001")
	require.NoError(t, err)
	require.NotNil(t, doc)
	for _, it := range doc.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("línea %s no encontrada", id)
	return entity.LineItem{}
}

func (f *fixture) product(t *testing.T, id entity.ProductID) *entity.Product {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// guardedConfig configuración por defecto con la guardia de stock disponible activa.
func guardedConfig() allocation.Config {
	cfg := allocation.DefaultConfig()
	cfg.EnforceAvailableStock = true
	return cfg
}

func scenarioA() []entity.ProposedAllocation {
	return []entity.ProposedAllocation{
		{AllocationType: entity.AllocationPurchaseOrder, TargetID: "PO-100", Quantity: d("40"), Priority: entity.PriorityHigh},
		{AllocationType: entity.AllocationWarehouse, TargetID: "warehouse-main", TargetName: "Bodega principal", Quantity: d("60")},
	}
}

func TestAllocateStock_ReparteEntreOrdenYBodega(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)

	res, err := uc.AllocateStock(ctx, "PI-2024-001", "li-1", scenarioA())
	require.NoError(t, err)

	assert.Equal(t, entity.ReceivingID("rcv-001"), res.ReceivingID)
	assert.Equal(t, string(resolver.StrategyBusinessKey), res.ParentStrategy)
	assert.Equal(t, string(resolver.StrategyItemID), res.ItemStrategy)
	require.Len(t, res.Records, 2)
	assert.Equal(t, entity.TargetID("ord-1"), res.Records[0].TargetID, "la orden se normaliza a su id")
	assert.Equal(t, "PO-100", res.Records[0].TargetName)
	assert.Contains(t, res.Records[0].Notes, "recepción resuelta por business_key")

	item := f.item(t, "li-1")
	assert.True(t, item.TotalAllocated.Equal(d("100")))
	assert.True(t, item.UnallocatedQty.IsZero())
	assert.Len(t, item.Allocations, 2)

	p := f.product(t, "prod-1")
	assert.True(t, p.CurrentStock.Equal(d("70")), "bodega suma a currentStock")
	assert.True(t, p.AllocatedStock.Equal(d("40")), "la orden suma a allocatedStock")
	assert.True(t, p.AvailableStock.Equal(d("30")))

	order, err := f.orders.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, order.Fulfillment.TotalFulfilled.Equal(d("40")))
	assert.True(t, order.Fulfillment.Rate.Equal(d("80")))
	assert.True(t, order.Lines[0].FulfilledQty.Equal(d("40")))
	require.Len(t, order.Fulfillment.Allocations, 1)
	assert.Equal(t, res.Records[0].ID, order.Fulfillment.Allocations[0].AllocationID)

	for _, rec := range res.Records {
		stored, err := f.allocations.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, entity.AllocationStatusAllocated, stored.Status)
	}
	assert.Equal(t, []string{
		"allocation_record:" + string(res.Records[0].ID),
		"allocation_record:" + string(res.Records[1].ID),
		"line_item",
		"product_stock",
		"order_fulfillment:ord-1",
	}, res.Steps)
}

func TestAllocateStock_NoTocaLineasHermanas(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	before := f.item(t, "li-2")

	_, err := f.useCase(allocation.DefaultConfig(), nil).AllocateStock(context.Background(), "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	after := f.item(t, "li-2")
	assert.Equal(t, before, after)
	p2 := f.product(t, "prod-2")
	assert.True(t, p2.CurrentStock.Equal(d("5")))
}

func TestAllocateStock_SobreAsignacionNoEscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)

	_, err := uc.AllocateStock(ctx, "rcv-001", "li-1", []entity.ProposedAllocation{
		{AllocationType: entity.AllocationWarehouse, TargetID: "warehouse-main", Quantity: d("150")},
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	item := f.item(t, "li-1")
	assert.Empty(t, item.Allocations)
	assert.True(t, item.TotalAllocated.IsZero())
	assert.True(t, f.product(t, "prod-1").CurrentStock.Equal(d("10")))
	records, err := f.allocations.ListByItem(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAllocateStock_Rechazos(t *testing.T) {
	cases := []struct {
		name     string
		proposed []entity.ProposedAllocation
	}{
		{"lista vacía", nil},
		{"orden cerrada", []entity.ProposedAllocation{
			{AllocationType: entity.AllocationPurchaseOrder, TargetID: "ord-2", Quantity: d("5")},
		}},
		{"orden inexistente", []entity.ProposedAllocation{
			{AllocationType: entity.AllocationPurchaseOrder, TargetID: "ZZ-999", Quantity: d("5")},
		}},
		{"cantidad cero", []entity.ProposedAllocation{
			{AllocationType: entity.AllocationWarehouse, TargetID: "warehouse-main", Quantity: decimal.Zero},
		}},
		{"reserva mayor al stock disponible", []entity.ProposedAllocation{
			{AllocationType: entity.AllocationProject, TargetID: "prj-1", Quantity: d("11")},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, docstore.NewMemory())
			_, err := f.useCase(guardedConfig(), nil).AllocateStock(context.Background(), "rcv-001", "li-1", tc.proposed)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.item(t, "li-1").Allocations)
		})
	}
}

func TestAllocateStock_LineaDesconocidaCaeEnLaPrimera(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	res, err := f.useCase(allocation.DefaultConfig(), nil).AllocateStock(context.Background(), "rcv-001", "li-99", []entity.ProposedAllocation{
		{AllocationType: entity.AllocationWarehouse, TargetID: "warehouse-main", Quantity: d("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.LineItemID("li-1"), res.Item.ID)
	assert.Equal(t, string(resolver.StrategyFirstItem), res.ItemStrategy)
	assert.Contains(t, res.Records[0].Notes, "línea por first_item")
}

func TestAllocateStock_RecepcionNoEncontrada(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	_, err := f.useCase(allocation.DefaultConfig(), nil).AllocateStock(context.Background(), "NOPE-1", "li-1", scenarioA())
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "receiving", nf.Kind)
	assert.Empty(t, f.item(t, "li-1").Allocations)
}

func TestAllocateStock_ContextoCanceladoAntesDeEscribir(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.useCase(allocation.DefaultConfig(), nil).AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.item(t, "li-1").Allocations)
	assert.True(t, f.product(t, "prod-1").AllocatedStock.IsZero())
}

// failingStore falla las actualizaciones de una colección.
type failingStore struct {
	repository.DocumentStore
	collection string
}

func (s *failingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if collection == s.collection {
		return errors.New("almacén no disponible")
	}
	return s.DocumentStore.Update(ctx, collection, id, fields)
}

func TestAllocateStock_FallaParcialReportaPasos(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{DocumentStore: docstore.NewMemory(), collection: repository.CollectionProducts}
	f := newFixture(t, store)

	_, err := f.useCase(allocation.DefaultConfig(), nil).AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, pe.Partial())
	assert.Equal(t, allocation.StepProductStock, pe.Step)
	require.Len(t, pe.Completed, 3)
	assert.Equal(t, allocation.StepLineItem, pe.Completed[2])

	// Lo aplicado queda aplicado: la línea ya tiene sus asignaciones.
	assert.Len(t, f.item(t, "li-1").Allocations, 2)
	assert.True(t, f.product(t, "prod-1").AllocatedStock.IsZero())
}

// busyLocker simula un candado tomado por otro proceso.
type busyLocker struct{ keys []string }

func (l *busyLocker) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	l.keys = append(l.keys, key)
	return nil, fmt.Errorf("candado %s: %w", key, domain.ErrConflict)
}

func TestAllocateStock_CandadoOcupado(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	cfg := allocation.DefaultConfig()
	cfg.LockItems = true
	locker := &busyLocker{}

	_, err := f.useCase(cfg, locker).AllocateStock(context.Background(), "PI-2024-001", "li-1", scenarioA())
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{"allocation:item:rcv-001:li-1"}, locker.keys)
	assert.Empty(t, f.item(t, "li-1").Allocations)
}

func TestAllocateStock_CandadoDesactivadoNoSeUsa(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	locker := &busyLocker{}
	_, err := f.useCase(allocation.DefaultConfig(), locker).AllocateStock(context.Background(), "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)
	assert.Empty(t, locker.keys)
}

func TestResetItemAllocations_InversoExacto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	before := f.product(t, "prod-1").Counters()

	res, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	sum, err := uc.ResetItemAllocations(ctx, "PI-2024-001", "li-1")
	require.NoError(t, err)
	assert.True(t, sum.TotalReversed.Equal(d("100")))
	assert.True(t, sum.WarehouseReversed.Equal(d("60")))
	assert.True(t, sum.ReservedReversed.Equal(d("40")))
	assert.Empty(t, sum.Warnings)

	assert.True(t, f.product(t, "prod-1").Counters().Equal(before), "los contadores vuelven al estado previo")

	item := f.item(t, "li-1")
	assert.Empty(t, item.Allocations)
	assert.True(t, item.TotalAllocated.IsZero())
	assert.True(t, item.UnallocatedQty.Equal(d("100")))
	require.Len(t, item.ResetHistory, 1)
	assert.ElementsMatch(t, []entity.AllocationID{res.Records[0].ID, res.Records[1].ID}, item.ResetHistory[0].AllocationIDs)

	for _, rec := range res.Records {
		stored, err := f.allocations.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.AllocationStatusCancelled, stored.Status)
	}

	// El cumplimiento de la orden no se revierte.
	order, err := f.orders.GetByID(ctx, "ord-1")
	require.NoError(t, err)
	assert.True(t, order.Fulfillment.TotalFulfilled.Equal(d("40")))
}

func TestResetItemAllocations_SinAsignacionesNoEscribe(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	sum, err := f.useCase(allocation.DefaultConfig(), nil).ResetItemAllocations(context.Background(), "rcv-001", "li-1")
	require.NoError(t, err)
	assert.Len(t, sum.Warnings, 1)
	assert.Empty(t, sum.Steps)
	assert.Nil(t, sum.Reset)
	assert.Empty(t, f.item(t, "li-1").ResetHistory)
}

func TestResetItemAllocations_InviableNoEscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	_, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	// Alguien sacó stock de bodega entre la asignación y la reversión.
	require.NoError(t, f.products.UpdateStock(ctx, "prod-1", entity.StockCounters{
		CurrentStock: d("50"), AllocatedStock: d("40"), AvailableStock: d("10"),
	}))

	_, err = uc.ResetItemAllocations(ctx, "rcv-001", "li-1")
	var inf *domain.ReversalInfeasibleError
	require.ErrorAs(t, err, &inf)
	assert.True(t, inf.WarehouseReversal.Equal(d("60")))
	assert.Len(t, f.item(t, "li-1").Allocations, 2)
	assert.True(t, f.product(t, "prod-1").CurrentStock.Equal(d("50")))
}

func TestResetItemAllocations_RegistroConsumidoSoloAdvierte(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	res, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)
	require.NoError(t, f.allocations.UpdateStatus(ctx, res.Records[0].ID, entity.AllocationStatusConsumed))

	sum, err := uc.ResetItemAllocations(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], string(res.Records[0].ID))

	stored, err := f.allocations.GetByID(ctx, res.Records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AllocationStatusConsumed, stored.Status)
}

func TestSuggestAllocations_OrdenPrimeroYRestoABodega(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	qty := d("30")

	res, err := uc.SuggestAllocations(context.Background(), "rcv-001", "li-1", &qty)
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1, "la orden absorbe todo")
	assert.Equal(t, entity.AllocationPurchaseOrder, res.Allocations[0].AllocationType)
	assert.Equal(t, entity.TargetID("ord-1"), res.Allocations[0].TargetID)
	assert.True(t, res.Allocations[0].Quantity.Equal(d("30")))
	assert.Equal(t, entity.PriorityHigh, res.Allocations[0].Priority)

	res, err = uc.SuggestAllocations(context.Background(), "rcv-001", "li-1", nil)
	require.NoError(t, err)
	assert.True(t, res.Available.Equal(d("100")))
	require.Len(t, res.Allocations, 2)
	assert.True(t, res.Allocations[0].Quantity.Equal(d("50")))
	assert.Equal(t, entity.AllocationWarehouse, res.Allocations[1].AllocationType)
	assert.True(t, res.Allocations[1].Quantity.Equal(d("50")))

	// Sugerir no escribe.
	assert.Empty(t, f.item(t, "li-1").Allocations)
}

func TestSuggestAllocations_CantidadMayorALoDisponible(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	qty := d("101")
	_, err := f.useCase(allocation.DefaultConfig(), nil).SuggestAllocations(context.Background(), "rcv-001", "li-1", &qty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetAvailableTargets(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)

	targets, err := uc.GetAvailableTargets(context.Background(), "SKU-WID-1")
	require.NoError(t, err)
	require.Len(t, targets.OpenOrders, 1, "la orden completada no aparece")
	assert.Equal(t, entity.OrderID("ord-1"), targets.OpenOrders[0].OrderID)
	assert.True(t, targets.OpenOrders[0].Need.Equal(d("50")))
	require.Len(t, targets.ProjectCodes, 1)
	require.Len(t, targets.Warehouses, 2)
	assert.Equal(t, entity.TargetID("warehouse-main"), targets.Warehouses[0].ID, "la bodega por defecto va primero")

	targets, err = uc.GetAvailableTargets(context.Background(), "desconocido")
	require.NoError(t, err)
	assert.Empty(t, targets.OpenOrders)

	_, err = uc.GetAvailableTargets(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcileItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	_, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	rep, err := uc.ReconcileItem(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	assert.True(t, rep.Consistent, rep.Issues)
	assert.True(t, rep.RecordsTotal.Equal(d("100")))

	// Un total cacheado corrupto se reporta sin corregirse.
	item := f.item(t, "li-1")
	item.TotalAllocated = d("90")
	require.NoError(t, f.receivings.UpdateItem(ctx, "rcv-001", 0, item))

	rep, err = uc.ReconcileItem(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	assert.False(t, rep.Consistent)
	assert.Len(t, rep.Issues, 1)
	assert.True(t, f.item(t, "li-1").TotalAllocated.Equal(d("90")))
}

func TestActor_QuedaEnRegistrosYReversiones(t *testing.T) {
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	ctx := allocation.WithActor(context.Background(), "user-7")
	assert.Equal(t, "user-7", allocation.ActorFrom(ctx))
	assert.Empty(t, allocation.ActorFrom(context.Background()))

	res, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)
	for _, rec := range res.Records {
		assert.Equal(t, "user-7", rec.AllocatedBy)
	}

	sum, err := uc.ResetItemAllocations(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	require.NotNil(t, sum.Reset)
	assert.Equal(t, "user-7", sum.Reset.ResetBy)
	assert.Equal(t, "user-7", f.item(t, "li-1").ResetHistory[0].ResetBy)
}

func TestAllocationSlip(t *testing.T) {
	ctx := allocation.WithActor(context.Background(), "user-7")
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)
	_, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	slip, err := uc.AllocationSlip(ctx, "PI-2024-001", "WID-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingID("rcv-001"), slip.ReceivingID)
	assert.Equal(t, "Proveedor Andino", slip.SupplierName)
	assert.Equal(t, entity.LineItemID("li-1"), slip.Item.ID)
	assert.Len(t, slip.Item.Allocations, 2)
	require.NotNil(t, slip.Product)
	assert.True(t, slip.Product.AllocatedStock.Equal(d("40")))
	assert.Equal(t, now, slip.GeneratedAt)
	assert.Equal(t, "user-7", slip.GeneratedBy)

	_, err = uc.AllocationSlip(ctx, "NOPE-1", "li-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllocateStock_SinGuardiaPermiteReservaSobreStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)

	_, err := uc.AllocateStock(ctx, "rcv-001", "li-1", []entity.ProposedAllocation{
		{AllocationType: entity.AllocationProject, TargetID: "prj-1", Quantity: d("11")},
	})
	require.NoError(t, err)
	assert.True(t, f.product(t, "prod-1").AvailableStock.Equal(d("-1")))

	rep, err := uc.ReconcileItem(ctx, "rcv-001", "li-1")
	require.NoError(t, err)
	assert.False(t, rep.Consistent)
	assert.Contains(t, rep.Issues, "availableStock negativo: -1")
}

// seedSinStock recepción rcv-002 con 30 unidades de un producto sin existencias y una orden urgente que pide 20.
func seedSinStock(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.receivings.Create(ctx, &entity.ReceivingDocument{
		ID:             "rcv-002",
		DocumentNumber: "PI-2024-002",
		Items: []entity.LineItem{{
			ID:               "li-1",
			ProductIdentity:  entity.ProductIdentity{ProductID: "prod-3", Code: "VAL-3", Name: "Valvula"},
			QuantityReceived: d("30"),
			UnallocatedQty:   d("30"),
		}},
	}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "prod-3", Code: "VAL-3", Name: "Valvula"}))
	due := now.Add(24 * time.Hour)
	require.NoError(t, f.orders.Create(ctx, &entity.ConsumingOrder{
		ID:          "ord-3",
		OrderNumber: "PO-300",
		Status:      entity.OrderStatusConfirmed,
		DueDate:     &due,
		Lines: []entity.OrderLine{{
			ProductIdentity: entity.ProductIdentity{ProductID: "prod-3"},
			OrderedQty:      d("20"),
		}},
	}))
}

func TestSuggestLuegoAsignar_SeAplicaTalCual(t *testing.T) {
	cases := []struct {
		name      string
		cfg       allocation.Config
		order     string
		warehouse string
		available string
	}{
		{"sin guardia", allocation.DefaultConfig(), "20", "10", "-10"},
		{"con guardia", guardedConfig(), "15", "15", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, docstore.NewMemory())
			seedSinStock(t, f)
			uc := f.useCase(tc.cfg, nil)
			qty := d("30")

			sug, err := uc.SuggestAllocations(ctx, "rcv-002", "li-1", &qty)
			require.NoError(t, err)
			require.Len(t, sug.Allocations, 2)
			assert.True(t, sug.Allocations[0].Quantity.Equal(d(tc.order)), sug.Allocations[0].Quantity.String())
			assert.True(t, sug.Allocations[1].Quantity.Equal(d(tc.warehouse)), sug.Allocations[1].Quantity.String())

			res, err := uc.AllocateStock(ctx, "rcv-002", "li-1", sug.Allocations)
			require.NoError(t, err)
			assert.True(t, res.Item.TotalAllocated.Equal(d("30")))
			assert.True(t, res.Product.AvailableStock.Equal(d(tc.available)))
		})
	}
}

func TestResetItemAllocations_NoTocaLineasHermanas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.NewMemory())
	uc := f.useCase(allocation.DefaultConfig(), nil)

	_, err := uc.AllocateStock(ctx, "rcv-001", "li-2", []entity.ProposedAllocation{
		{AllocationType: entity.AllocationWarehouse, TargetID: "warehouse-main", Quantity: d("10")},
	})
	require.NoError(t, err)
	_, err = uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)
	before := f.item(t, "li-2")
	prod2 := f.product(t, "prod-2").Counters()

	_, err = uc.ResetItemAllocations(ctx, "rcv-001", "li-1")
	require.NoError(t, err)

	assert.Equal(t, before, f.item(t, "li-2"))
	assert.True(t, f.product(t, "prod-2").Counters().Equal(prod2))
}

func TestResetItemAllocations_FallaParcialReportaPasos(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{DocumentStore: docstore.NewMemory()}
	f := newFixture(t, store)
	uc := f.useCase(allocation.DefaultConfig(), nil)
	res, err := uc.AllocateStock(ctx, "rcv-001", "li-1", scenarioA())
	require.NoError(t, err)

	store.collection = repository.CollectionReceivings
	_, err = uc.ResetItemAllocations(ctx, "rcv-001", "li-1")
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, allocation.StepLineItem, pe.Step)
	assert.Equal(t, []string{allocation.StepProductStock}, pe.Completed)

	// El producto ya quedó revertido; la línea y los registros siguen como estaban.
	p := f.product(t, "prod-1")
	assert.True(t, p.CurrentStock.Equal(d("10")))
	assert.True(t, p.AllocatedStock.IsZero())
	assert.Len(t, f.item(t, "li-1").Allocations, 2)
	for _, rec := range res.Records {
		stored, err := f.allocations.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.AllocationStatusAllocated, stored.Status)
	}
}
