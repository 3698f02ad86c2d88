package http

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
	"github.com/jhoicas/procurement-allocation/internal/application/dto"
	"github.com/jhoicas/procurement-allocation/internal/domain"
)

// AllocationHandler maneja las operaciones del motor de asignación de stock.
type AllocationHandler struct {
	uc       *allocation.AllocationUseCase
	validate *validator.Validate
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *allocation.AllocationUseCase, validate *validator.Validate) *AllocationHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AllocationHandler{uc: uc, validate: validate}
}

// Allocate godoc
// @Summary      Asignar stock recibido de una línea
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        parentId  path  string                    true  "ID o número del documento de recepción"
// @Param        itemId    path  string                    true  "ID, código o posición de la línea"
// @Param        body      body  dto.AllocateStockRequest  true  "Asignaciones"
// @Success      201  {object}  dto.AllocateStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/receivings/{parentId}/items/{itemId}/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	parentID, itemID, err := itemParams(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.AllocateStock(c.UserContext(), parentID, itemID, toProposed(in.Allocations))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAllocateResponse(res))
}

// Suggest godoc
// @Summary      Sugerir reparto por prioridad
// @Tags         allocations
// @Accept       json
// @Produce      json
// @Param        parentId      path   string                         true   "ID o número del documento de recepción"
// @Param        itemId        path   string                         true   "ID, código o posición de la línea"
// @Param        availableQty  query  string                         false  "Cantidad a repartir"
// @Param        body          body   dto.SuggestAllocationsRequest  false  "Cantidad a repartir"
// @Success      200  {object}  dto.SuggestAllocationsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivings/{parentId}/items/{itemId}/allocations/suggest [post]
func (h *AllocationHandler) Suggest(c *fiber.Ctx) error {
	var in dto.SuggestAllocationsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if in.AvailableQty == nil {
		qty, err := parseQty(c.Query("availableQty"))
		if err != nil {
			return writeError(c, domain.NewValidationError("availableQty", "no es un número: %s", c.Query("availableQty")))
		}
		in.AvailableQty = qty
	}
	parentID, itemID, err := itemParams(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.SuggestAllocations(c.UserContext(), parentID, itemID, in.AvailableQty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSuggestResponse(res))
}

// Reset godoc
// @Summary      Revertir todas las asignaciones de una línea
// @Tags         allocations
// @Produce      json
// @Param        parentId  path  string  true  "ID o número del documento de recepción"
// @Param        itemId    path  string  true  "ID, código o posición de la línea"
// @Success      200  {object}  dto.ReversalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/receivings/{parentId}/items/{itemId}/allocations [delete]
func (h *AllocationHandler) Reset(c *fiber.Ctx) error {
	parentID, itemID, err := itemParams(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.ResetItemAllocations(c.UserContext(), parentID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReversalResponse(res))
}

// Reconcile godoc
// @Summary      Conciliar una línea contra sus registros y el producto
// @Tags         allocations
// @Produce      json
// @Param        parentId  path  string  true  "ID o número del documento de recepción"
// @Param        itemId    path  string  true  "ID, código o posición de la línea"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivings/{parentId}/items/{itemId}/allocations/reconcile [get]
func (h *AllocationHandler) Reconcile(c *fiber.Ctx) error {
	parentID, itemID, err := itemParams(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.ReconcileItem(c.UserContext(), parentID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReconciliationResponse(res))
}

// Targets godoc
// @Summary      Destinos disponibles para un producto
// @Tags         allocations
// @Produce      json
// @Param        productId  path  string  true  "ID, SKU, código o nombre del producto"
// @Success      200  {object}  dto.AvailableTargetsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/{productId}/allocation-targets [get]
func (h *AllocationHandler) Targets(c *fiber.Ctx) error {
	productID, err := pathParam(c, "productId")
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.GetAvailableTargets(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTargetsResponse(res))
}

// pathParam valor del parámetro de ruta ya decodificado: Fiber lo entrega tal como viene en la URL
// ("Valvula%20de%20bola") y el resolver compara contra nombres y códigos reales.
func pathParam(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return "", domain.NewValidationError(key, "codificación inválida: %s", raw)
	}
	return v, nil
}

func itemParams(c *fiber.Ctx) (parentID, itemID string, err error) {
	if parentID, err = pathParam(c, "parentId"); err != nil {
		return "", "", err
	}
	if itemID, err = pathParam(c, "itemId"); err != nil {
		return "", "", err
	}
	return parentID, itemID, nil
}
