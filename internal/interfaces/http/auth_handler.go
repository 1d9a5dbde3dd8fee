package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/session"
)

// AuthHandler abre y cierra sesiones de administrador.
type AuthHandler struct {
	uc      *session.UseCase
	onClose []func(sessionID string)
}

// NewAuthHandler construye el handler de sesión. onClose se invoca tras cerrar una
// sesión para liberar lo que quedó asociado a ella (datos de referencia, formularios).
func NewAuthHandler(uc *session.UseCase, onClose ...func(sessionID string)) *AuthHandler {
	return &AuthHandler{uc: uc, onClose: onClose}
}

// Open godoc
// @Summary      Abrir sesión con el token del API remoto
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "api_token del ERP"
// @Success      201   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/session [post]
func (h *AuthHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Open(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar la sesión actual
// @Tags         session
// @Security     Bearer
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session [delete]
func (h *AuthHandler) Close(c *fiber.Ctx) error {
	id := strings.TrimSpace(GetSessionID(c))
	if id == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
	}
	if err := h.uc.Close(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	for _, fn := range h.onClose {
		fn(id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
