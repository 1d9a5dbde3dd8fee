package repository

import (
	"context"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia de sesiones (DIP).
// Get devuelve (nil, nil) si la sesión no existe.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
