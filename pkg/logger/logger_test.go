package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orgadmin-api/pkg/logger"
)

func TestComponent_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Env: "production", Level: "debug", App: "orgadmin-api"})

	log := l.Component("orgapi")
	log.Debug().Str("path", "/roles/").Msg("orgapi")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "orgadmin-api", line["app"])
	assert.Equal(t, "orgapi", line["component"])
	assert.Equal(t, "/roles/", line["path"])
}

func TestNivel_FiltraEventosInferiores(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "WARN"})

	l.Info().Msg("oculto")
	l.Warn().Msg("visible")

	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}
