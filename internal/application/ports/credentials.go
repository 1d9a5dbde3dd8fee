package ports

import (
	"context"
	"strings"

	"github.com/jhoicas/orgadmin-api/internal/domain"
)

// CredentialProvider entrega el token del API remoto para la llamada en curso.
// Se inyecta en el cliente REST y en los controladores de formulario en lugar de
// leer una sesión global; un token vacío es un error (ErrMissingToken).
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// CredentialFunc adapta una función a CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, error)

// Token implementa CredentialProvider.
func (f CredentialFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticCredentials token fijo; útil en tests y herramientas de línea de comandos.
type StaticCredentials string

// Token implementa CredentialProvider.
func (s StaticCredentials) Token(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", domain.ErrMissingToken
	}
	return string(s), nil
}

// RequireToken obtiene el token y falla con ErrMissingToken si no hay.
func RequireToken(ctx context.Context, p CredentialProvider) (string, error) {
	if p == nil {
		return "", domain.ErrMissingToken
	}
	tok, err := p.Token(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(tok) == "" {
		return "", domain.ErrMissingToken
	}
	return tok, nil
}

type sessionKey struct{}

// WithSessionID guarda el id de sesión del administrador en el contexto de la petición.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom devuelve el id de sesión guardado con WithSessionID ("" si no hay).
func SessionIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}
