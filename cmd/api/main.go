package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	domalloc "github.com/jhoicas/procurement-allocation/internal/domain/allocation"
	"github.com/jhoicas/procurement-allocation/internal/domain/entity"
	"github.com/jhoicas/procurement-allocation/internal/domain/repository"
	"github.com/jhoicas/procurement-allocation/internal/infrastructure/docstore"
	"github.com/jhoicas/procurement-allocation/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/procurement-allocation/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/procurement-allocation/internal/interfaces/http"
	"github.com/jhoicas/procurement-allocation/pkg/config"
	"github.com/jhoicas/procurement-allocation/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("docstore", cfg.DocStore.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén de documentos: PostgreSQL (JSONB) o memoria para desarrollo.
	var store repository.DocumentStore
	switch cfg.DocStore.Driver {
	case "memory":
		store = docstore.NewMemory()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := docstore.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		pg := docstore.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema del almacén de documentos")
		}
		store = pg
	}

	receivingRepo := docstore.NewReceivingRepository(store)
	productRepo := docstore.NewProductRepository(store)
	orderRepo := docstore.NewOrderRepository(store)
	allocationRepo := docstore.NewAllocationRepository(store)
	var catalogRepo repository.CatalogRepository = docstore.NewCatalogRepository(store)

	// Redis opcional: candado por línea y caché de catálogos.
	var locker allocation.ItemLocker = allocation.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		cache := infraredis.NewCatalogCache(rdb, catalogRepo, cfg.Redis.CatalogTTL, log)
		// El catálogo puede haberse sembrado con la API detenida (cmd/seed_catalog).
		if err := cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("no se pudo limpiar la caché de catálogos")
		}
		catalogRepo = cache
		if cfg.Allocation.ItemLock {
			locker = infraredis.NewItemLocker(rdb, cfg.Allocation.LockTTL)
		}
	}

	allocationUC := allocation.NewAllocationUseCase(
		receivingRepo, productRepo, orderRepo, allocationRepo, catalogRepo,
		locker,
		allocation.Config{
			OpenStatuses: cfg.Allocation.OpenStatuses,
			Thresholds: domalloc.PriorityThresholds{
				HighDays:   cfg.Allocation.HighPriorityDays,
				MediumDays: cfg.Allocation.MediumPriorityDays,
			},
			DefaultWarehouse: entity.Warehouse{
				ID:   entity.TargetID(cfg.Allocation.DefaultWarehouseID),
				Name: cfg.Allocation.DefaultWarehouseName,
			},
			EnforceAvailableStock: cfg.Allocation.EnforceAvailableStock,
			LockItems:             cfg.Allocation.ItemLock,
		},
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Allocation API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API queda sin autenticación")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		AllocationUC: allocationUC,
		Validate:     validator.New(),
		SlipRenderer: pdf.NewMarotoSlipRenderer(cfg.App.Name),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
