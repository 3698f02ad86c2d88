package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-allocation/internal/application/allocation"
)

// SlipHandler descarga el acta de asignación de una línea.
type SlipHandler struct {
	uc       *allocation.AllocationUseCase
	renderer allocation.SlipRenderer
}

// NewSlipHandler construye el handler.
func NewSlipHandler(uc *allocation.AllocationUseCase, renderer allocation.SlipRenderer) *SlipHandler {
	return &SlipHandler{uc: uc, renderer: renderer}
}

// Slip godoc
// @Summary      Acta de asignación de una línea (PDF)
// @Tags         allocations
// @Produce      application/pdf
// @Param        parentId  path  string  true  "ID o número del documento de recepción"
// @Param        itemId    path  string  true  "ID, código o posición de la línea"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/receivings/{parentId}/items/{itemId}/allocations/slip.pdf [get]
func (h *SlipHandler) Slip(c *fiber.Ctx) error {
	parentID, itemID, err := itemParams(c)
	if err != nil {
		return writeError(c, err)
	}
	slip, err := h.uc.AllocationSlip(c.UserContext(), parentID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.renderer.RenderSlip(c.UserContext(), slip)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=\"acta-%s-%s.pdf\"", slip.ReceivingID, slip.Item.ID))
	return c.Send(out)
}
