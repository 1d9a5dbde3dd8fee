package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS admin_sessions (
		id         TEXT PRIMARY KEY,
		api_token  TEXT NOT NULL,
		subject    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ
	)`

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
}

// NewSessionRepository construye el adaptador de persistencia para sesiones.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// EnsureSchema crea la tabla de sesiones si no existe.
func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, sessionSchema); err != nil {
		return fmt.Errorf("create admin_sessions: %w", err)
	}
	return nil
}

// Save inserta o reemplaza la sesión.
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO admin_sessions (id, api_token, subject, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET api_token = EXCLUDED.api_token,
		    subject = EXCLUDED.subject,
		    expires_at = EXCLUDED.expires_at`
	_, err := r.pool.Exec(ctx, query, s.ID, s.APIToken, s.Subject, s.CreatedAt, nullableTime(s))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Get obtiene la sesión por id; (nil, nil) si no existe.
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT id, api_token, subject, created_at, expires_at FROM admin_sessions WHERE id = $1`
	var s entity.Session
	var expires *time.Time
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.APIToken, &s.Subject, &s.CreatedAt, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if expires != nil {
		s.ExpiresAt = *expires
	}
	return &s, nil
}

// Delete elimina la sesión; borrar una inexistente no es error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// nullableTime NULL cuando la sesión no vence.
func nullableTime(s *entity.Session) *time.Time {
	if s.ExpiresAt.IsZero() {
		return nil
	}
	t := s.ExpiresAt
	return &t
}
