package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AllocationUC *allocation.AllocationUseCase
	Validate     *validator.Validate
	// SlipRenderer genera el acta PDF de una línea; nil deshabilita la ruta.
	SlipRenderer allocation.SlipRenderer
	// JWTSecret vacío deja la API sin autenticación (desarrollo y tests).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Escrituras: admin y bodeguero. Lecturas: cualquier usuario autenticado.
	writers := func(c *fiber.Ctx) error { return c.Next() }
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		writers = RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	}

	allocationHandler := NewAllocationHandler(deps.AllocationUC, deps.Validate)

	// Asignaciones por línea de recepción
	items := api.Group("/receivings/:parentId/items/:itemId/allocations")
	items.Post("/", writers, allocationHandler.Allocate)
	items.Delete("/", writers, allocationHandler.Reset)
	items.Post("/suggest", allocationHandler.Suggest)
	items.Get("/reconcile", allocationHandler.Reconcile)
	if deps.SlipRenderer != nil {
		slipHandler := NewSlipHandler(deps.AllocationUC, deps.SlipRenderer)
		items.Get("/slip.pdf", slipHandler.Slip)
	}

	// Destinos disponibles por producto
	api.Get("/products/:productId/allocation-targets", allocationHandler.Targets)
}
