package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ValoresPorDefecto(t *testing.T) {
	cfg, err := build(viper.New())

	require.NoError(t, err)
	assert.Equal(t, "orgadmin-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 15*time.Second, cfg.OrgAPI.Timeout())
	assert.Equal(t, 16<<20, cfg.OrgAPI.MaxResponseBytes)
	assert.Equal(t, 3, cfg.Forms.RolePreviewSize)
	assert.Equal(t, 30*time.Minute, cfg.Forms.TTL())
	assert.Equal(t, "memory", cfg.Session.Store)
}

func TestBuild_LeeValoresYToleraEnterosInvalidos(t *testing.T) {
	v := viper.New()
	v.Set("ORG_API_BASE_URL", "https://erp.example.com/api")
	v.Set("ROLE_PREVIEW_SIZE", "5")
	v.Set("HTTP_PORT", "abc")
	v.Set("SESSION_STORE", "Redis")
	v.Set("ORG_API_MAX_RESPONSE_BYTES", "2048")

	cfg, err := build(v)

	require.NoError(t, err)
	assert.Equal(t, "https://erp.example.com/api", cfg.OrgAPI.BaseURL)
	assert.Equal(t, 5, cfg.Forms.RolePreviewSize)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 2048, cfg.OrgAPI.MaxResponseBytes)
}

func TestBuild_AlmacenDeSesionDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("SESSION_STORE", "etcd")

	_, err := build(v)

	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:w", DBName: "orgadmin", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p%40ss%3Aw@db:5432/orgadmin?sslmode=disable", c.ConnectionString())
}
