package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/orgadmin-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "sess-1", "admin@erp.io", "orgadmin-test", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok)

	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "admin@erp.io", claims.Subject)
	assert.Equal(t, "orgadmin-test", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "sess-1", "", "i", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)

	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "sess-1", "", "i", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)

	assert.Error(t, err)
}

func TestGenerate_SinSecretoOSesion(t *testing.T) {
	_, err := pkgjwt.Generate("", "s", "", "i", 5)
	assert.Error(t, err)

	_, err = pkgjwt.Generate(secret, "", "", "i", 5)
	assert.Error(t, err)
}
