package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_CincoModulosEnFalse(t *testing.T) {
	m := Default()

	assert.Len(t, m, 5)
	for _, mod := range Modules() {
		assert.Equal(t, Capabilities{}, m[mod])
	}
	assert.False(t, HasAny(m))
}

func TestMergeWithDefaults_CompletaYDescartaDesconocidos(t *testing.T) {
	partial := Partial{
		"task":      {"view": true},
		"payroll":   {"view": true},
		"dashboard": {"edit": true, "approve": true},
	}

	m := MergeWithDefaults(partial)

	assert.Len(t, m, 5)
	assert.Equal(t, Capabilities{View: true}, m[Task])
	assert.Equal(t, Capabilities{Edit: true}, m[Dashboard])
	assert.Equal(t, Capabilities{}, m[Attendance])
	assert.Len(t, partial, 3, "no modifica la entrada")
}

func TestToggle_InvierteUnaSolaBandera(t *testing.T) {
	m := Default()

	next := Toggle(m, ProjectTracker, Create)

	assert.True(t, next[ProjectTracker].Create)
	assert.False(t, m[ProjectTracker].Create, "la matriz original no cambia")
	assert.Equal(t, []string{"projectTracker.create"}, Granted(next))

	back := Toggle(next, ProjectTracker, Create)
	assert.False(t, HasAny(back))
}

func TestToggle_NombreDesconocidoNoCambia(t *testing.T) {
	m := Toggle(Default(), "payroll", View)
	assert.Equal(t, Default(), m)

	m = Toggle(Default(), Task, "approve")
	assert.Equal(t, Default(), m)
}

func TestReset_TodoEnFalse(t *testing.T) {
	m := Toggle(Toggle(Default(), Task, View), Onboarding, Delete)
	assert.True(t, HasAny(m))

	assert.False(t, HasAny(Reset()))
}

func TestClone_GarantizaLosCincoModulos(t *testing.T) {
	out := Clone(Matrix{Task: {View: true}, "payroll": {View: true}})

	assert.Len(t, out, 5)
	assert.True(t, out[Task].View)
	_, ok := out["payroll"]
	assert.False(t, ok)
}

func TestGranted_OrdenCanonico(t *testing.T) {
	m := MergeWithDefaults(Partial{
		"attendance": {"delete": true},
		"dashboard":  {"view": true, "fullAccess": true},
	})

	assert.Equal(t, []string{"dashboard.fullAccess", "dashboard.view", "attendance.delete"}, Granted(m))
}

func TestToPartial_TodasLasBanderas(t *testing.T) {
	p := ToPartial(Toggle(Default(), Task, Edit))

	assert.Len(t, p, 5)
	assert.Len(t, p["task"], 5)
	assert.True(t, p["task"]["edit"])
	assert.False(t, p["task"]["view"])
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Project Tracker", Label("projectTracker"))
	assert.Equal(t, "Full Access", Label("fullAccess"))
	assert.Equal(t, "Dashboard", Label("dashboard"))
}
