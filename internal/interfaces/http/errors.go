package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/domain"
)

// writeError traduce un error de aplicación a su respuesta HTTP.
//
//	validación 422 · auth 401 · sin confirmar / envío en curso / sin formulario activo 409
//	no encontrado 404 · entrada inválida 400 · API remoto 502 · resto 500
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg := ""
		if len(verr.Reasons) > 0 {
			msg = verr.Reasons[0]
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: msg, Reasons: verr.Reasons,
		})
	}
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión sin token del API remoto"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrNotConfirmed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_CONFIRMED", Message: "la operación requiere confirm=true"})
	case errors.Is(err, domain.ErrSubmitInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IN_PROGRESS", Message: err.Error()})
	case errors.Is(err, domain.ErrNoActiveForm):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_FORM", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	}

	var opErr *domain.OperationError
	if errors.As(err, &opErr) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: opErr.Message})
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrUpstream) {
		msg := "error del API remoto"
		if apiErr != nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: msg})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
