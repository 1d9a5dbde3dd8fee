package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/pkg/jwt"
)

// LocalSessionID clave de Locals con el id de sesión del administrador.
const LocalSessionID = "session_id"

// SessionResolver valida que la sesión referenciada por el JWT siga abierta.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer Token JWT, comprueba que su sesión siga vigente y
// deja el id de sesión en c.Locals y en el contexto de usuario (para las credenciales).
func AuthMiddleware(jwtSecret string, sessions SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.SessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if _, err := sessions.Resolve(c.UserContext(), claims.SessionID); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: "sesión cerrada o vencida"})
		}
		c.Locals(LocalSessionID, claims.SessionID)
		c.SetUserContext(ports.WithSessionID(c.UserContext(), claims.SessionID))
		return c.Next()
	}
}

// GetSessionID devuelve el id de sesión (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	v := c.Locals(LocalSessionID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
