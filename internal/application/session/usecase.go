// Package session abre y resuelve las sesiones de administrador del BFF.
// Una sesión asocia un id opaco (el que viaja en el JWT) con el token del API remoto.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
	"github.com/jhoicas/orgadmin-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de sesión: abrir, resolver y cerrar.
type UseCase struct {
	repo          repository.SessionRepository
	jwtCfg        JWTConfig
	accessKeyHash string
	log           zerolog.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso. accessKeyHash (bcrypt) vacío = no se exige clave de acceso.
func NewUseCase(repo repository.SessionRepository, jwtCfg JWTConfig, accessKeyHash string, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, jwtCfg: jwtCfg, accessKeyHash: accessKeyHash, log: log, now: time.Now}
}

// Open guarda el token del API remoto bajo una sesión nueva y devuelve el JWT que la referencia.
func (uc *UseCase) Open(ctx context.Context, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	token := strings.TrimSpace(in.APIToken)
	if token == "" {
		return nil, domain.NewValidationError("api_token is required.")
	}
	if uc.accessKeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(uc.accessKeyHash), []byte(in.AccessKey)); err != nil {
			return nil, fmt.Errorf("clave de acceso inválida: %w", domain.ErrUnauthorized)
		}
	}
	now := uc.now()
	s := &entity.Session{
		ID:        uuid.NewString(),
		APIToken:  token,
		Subject:   strings.TrimSpace(in.Subject),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
	}
	if err := uc.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session: guardar: %w", err)
	}
	signed, err := jwt.Generate(uc.jwtCfg.Secret, s.ID, s.Subject, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("session: firmar JWT: %w", err)
	}
	uc.log.Info().Str("session_id", s.ID).Str("subject", s.Subject).Msg("sesión abierta")
	return &dto.SessionResponse{Token: signed, ExpiresAt: s.ExpiresAt}, nil
}

// Resolve devuelve la sesión vigente; inexistente o vencida → ErrUnauthorized.
func (uc *UseCase) Resolve(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return nil, domain.ErrMissingToken
	}
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session: leer: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("sesión %s no existe: %w", id, domain.ErrUnauthorized)
	}
	if s.Expired(uc.now()) {
		_ = uc.repo.Delete(ctx, id)
		return nil, fmt.Errorf("sesión %s vencida: %w", id, domain.ErrUnauthorized)
	}
	return s, nil
}

// Close elimina la sesión (logout). Cerrar una sesión inexistente no es error.
func (uc *UseCase) Close(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("session: eliminar: %w", err)
	}
	return nil
}

// Credentials proveedor de credenciales que lee el id de sesión del contexto de la
// petición (ports.WithSessionID) y entrega el token del API remoto asociado.
func (uc *UseCase) Credentials() ports.CredentialProvider {
	return ports.CredentialFunc(func(ctx context.Context) (string, error) {
		s, err := uc.Resolve(ctx, ports.SessionIDFrom(ctx))
		if err != nil {
			return "", err
		}
		return s.APIToken, nil
	})
}
