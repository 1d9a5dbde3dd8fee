package refdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
)

func newTestHub(idle time.Duration) (*Hub, *time.Time) {
	h := NewHub(nil, nil, nil, nil, idle, zerolog.Nop())
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	return h, &now
}

func TestHub_CadaSesionTieneSuPropiaCache(t *testing.T) {
	h, _ := newTestHub(0)

	a := h.For("sess-a")
	a.Cache().SetDepartments([]entity.Department{{ID: 5, DepartmentName: "Ops"}})

	assert.Same(t, a, h.For("sess-a"))
	assert.Len(t, h.For("sess-a").Cache().Departments(), 1)
	assert.Empty(t, h.For("sess-b").Cache().Departments())
	assert.Equal(t, 2, h.Len())
}

func TestHub_SinSesionNoSeComparte(t *testing.T) {
	h, _ := newTestHub(0)

	anon := h.For("")
	anon.Cache().SetDepartments([]entity.Department{{ID: 5}})

	assert.NotSame(t, anon, h.For(""))
	assert.Empty(t, h.For("").Cache().Departments())
	assert.Zero(t, h.Len())
}

func TestHub_DropOlvidaLosDatos(t *testing.T) {
	h, _ := newTestHub(0)
	h.For("sess-a").Cache().SetDepartments([]entity.Department{{ID: 5}})

	h.Drop("sess-a")

	assert.Zero(t, h.Len())
	assert.Empty(t, h.For("sess-a").Cache().Departments())
}

func TestHub_SweepDescartaSesionesInactivas(t *testing.T) {
	h, now := newTestHub(30 * time.Minute)
	h.For("vieja")
	*now = now.Add(20 * time.Minute)
	h.For("activa")
	*now = now.Add(15 * time.Minute)

	require.Equal(t, 1, h.Sweep())

	assert.Equal(t, 1, h.Len())
	h.mu.Lock()
	_, ok := h.scopes["activa"]
	h.mu.Unlock()
	assert.True(t, ok)
}

func TestHub_SweepSinLimiteNoDescarta(t *testing.T) {
	h, now := newTestHub(0)
	h.For("sess-a")
	*now = now.Add(24 * time.Hour)

	assert.Zero(t, h.Sweep())
	assert.Equal(t, 1, h.Len())
}
