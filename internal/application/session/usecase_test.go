package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/session"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	infrasession "github.com/jhoicas/orgadmin-api/internal/infrastructure/session"
	pkgjwt "github.com/jhoicas/orgadmin-api/pkg/jwt"
)

var jwtCfg = session.JWTConfig{Secret: "s3cret", ExpMinutes: 30, Issuer: "orgadmin-test"}

func TestOpen_EmiteJWTYGuardaElToken(t *testing.T) {
	store := infrasession.NewMemoryStore()
	uc := session.NewUseCase(store, jwtCfg, "", zerolog.Nop())

	out, err := uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: " erp-token ", Subject: "admin"})
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	s, err := uc.Resolve(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "erp-token", s.APIToken)
	assert.NotContains(t, out.Token, "erp-token")
}

func TestOpen_SinTokenEsValidacion(t *testing.T) {
	uc := session.NewUseCase(infrasession.NewMemoryStore(), jwtCfg, "", zerolog.Nop())

	_, err := uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: "  "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOpen_ClaveDeAcceso(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := session.NewUseCase(infrasession.NewMemoryStore(), jwtCfg, string(hash), zerolog.Nop())

	_, err = uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: "t", AccessKey: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: "t", AccessKey: "open-sesame"})
	assert.NoError(t, err)
}

func TestCredentials_LeeLaSesionDelContexto(t *testing.T) {
	uc := session.NewUseCase(infrasession.NewMemoryStore(), jwtCfg, "", zerolog.Nop())
	out, err := uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: "erp-token"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)

	creds := uc.Credentials()

	tok, err := creds.Token(ports.WithSessionID(context.Background(), claims.SessionID))
	require.NoError(t, err)
	assert.Equal(t, "erp-token", tok)

	_, err = creds.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrMissingToken)
}

func TestClose_InvalidaLaSesion(t *testing.T) {
	uc := session.NewUseCase(infrasession.NewMemoryStore(), jwtCfg, "", zerolog.Nop())
	out, err := uc.Open(context.Background(), dto.OpenSessionRequest{APIToken: "erp-token"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)

	require.NoError(t, uc.Close(context.Background(), claims.SessionID))

	_, err = uc.Resolve(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_SesionVencida(t *testing.T) {
	store := infrasession.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &entity.Session{
		ID: "old", APIToken: "t", ExpiresAt: time.Now().Add(-time.Minute),
	}))
	uc := session.NewUseCase(store, jwtCfg, "", zerolog.Nop())

	_, err := uc.Resolve(context.Background(), "old")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	s, err := store.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Nil(t, s, "la sesión vencida se elimina")
}
