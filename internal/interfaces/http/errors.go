package http

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-allocation/internal/application/dto"
	"github.com/jhoicas/procurement-allocation/internal/domain"
)

// writeError traduce los errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		vErr  *domain.ValidationError
		nfErr *domain.NotFoundError
		riErr *domain.ReversalInfeasibleError
		pErr  *domain.PersistenceError
		tags  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &tags):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "cuerpo inválido",
			Fields:  validationFields(tags),
		})
	case errors.As(err, &vErr):
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error()}
		if vErr.Field != "" {
			resp.Fields = map[string]string{vErr.Field: vErr.Reason}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	case errors.As(err, &nfErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code:       "NOT_FOUND",
			Message:    nfErr.Error(),
			NearMisses: nfErr.NearMisses,
		})
	case errors.As(err, &riErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REVERSAL_INFEASIBLE", Message: riErr.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.As(err, &pErr):
		code := "PERSISTENCE"
		if pErr.Partial() {
			code = "PARTIAL_PERSISTENCE"
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code:           code,
			Message:        pErr.Error(),
			CompletedSteps: pErr.Completed,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "CANCELLED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// validationFields campo → regla incumplida.
func validationFields(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}
