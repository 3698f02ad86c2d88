package allocation

import (
	"context"
	"time"

	"github.com/jhoicas/procurement-allocation/internal/domain/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
	"github.com/jhoicas/procurement-allocation/pkg/logger"
)

// Config parámetros del motor de asignación.
type Config struct {
	OpenStatuses          []string
	Thresholds            allocation.PriorityThresholds
	DefaultWarehouse      entity.Warehouse
	// EnforceAvailableStock rechaza propuestas que dejen availableStock negativo.
	EnforceAvailableStock bool
	// LockItems toma el candado por línea en AllocateStock y ResetItemAllocations.
	LockItems bool
}

// DefaultConfig estados abiertos draft/confirmed/processing, umbrales 7/30 días, guardia de stock
// desactivada (un availableStock negativo se reporta en la conciliación).
func DefaultConfig() Config {
	return Config{
		OpenStatuses: []string{entity.OrderStatusDraft, entity.OrderStatusConfirmed, entity.OrderStatusProcessing},
		Thresholds:   allocation.DefaultThresholds,
		DefaultWarehouse: entity.Warehouse{
			ID:   "warehouse-main",
			Name: "Bodega principal",
		},
	}
}

// AllocationUseCase orquesta las cuatro operaciones del motor: asignar, sugerir, consultar destinos
// y revertir, más la conciliación de una línea. No hay transacciones entre documentos: cada escritura
// es un paso de la saga registrado en un Job.
type AllocationUseCase struct {
	receivings  repository.ReceivingRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	allocations repository.AllocationRepository
	catalog     repository.CatalogRepository
	locker      ItemLocker
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewAllocationUseCase construye el caso de uso. locker y log pueden ser nil.
func NewAllocationUseCase(
	receivings repository.ReceivingRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	allocations repository.AllocationRepository,
	catalog repository.CatalogRepository,
	locker ItemLocker,
	cfg Config,
	log *logger.Logger,
) *AllocationUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if len(cfg.OpenStatuses) == 0 {
		cfg.OpenStatuses = DefaultConfig().OpenStatuses
	}
	if cfg.Thresholds == (allocation.PriorityThresholds{}) {
		cfg.Thresholds = allocation.DefaultThresholds
	}
	return &AllocationUseCase{
		receivings:  receivings,
		products:    products,
		orders:      orders,
		allocations: allocations,
		catalog:     catalog,
		locker:      locker,
		cfg:         cfg,
		log:         log.Component("allocation"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AllocationUseCase) WithClock(now func() time.Time) *AllocationUseCase {
	uc.now = now
	return uc
}

// lockItem toma el candado de la línea si está habilitado.
func (uc *AllocationUseCase) lockItem(ctx context.Context, parentID entity.ReceivingID, itemID entity.LineItemID) (func(), error) {
	if !uc.cfg.LockItems {
		return func() {}, nil
	}
	key := ItemLockKey(parentID, itemID)
	release, err := uc.locker.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("lock", key).Msg("no se pudo liberar el candado de la línea")
		}
	}, nil
}
