package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/application/report"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeBranches struct{ list []entity.Branch }

func (f *fakeBranches) List(context.Context) ([]entity.Branch, error) { return f.list, nil }

type fakeDepartments struct{ list []entity.Department }

func (f *fakeDepartments) ListPage(context.Context, int) (*repository.DepartmentPage, error) {
	return &repository.DepartmentPage{Departments: f.list, TotalPages: 1}, nil
}
func (f *fakeDepartments) Create(context.Context, repository.DepartmentPayload) (*entity.Department, error) {
	return nil, nil
}
func (f *fakeDepartments) Update(context.Context, int64, repository.DepartmentPayload) (*entity.Department, error) {
	return nil, nil
}

type fakeRoles struct {
	list  []entity.Role
	calls int
}

func (f *fakeRoles) List(context.Context, repository.RoleQuery) ([]entity.Role, error) {
	f.calls++
	return f.list, nil
}
func (f *fakeRoles) Create(context.Context, repository.RolePayload) (*entity.Role, error) {
	return nil, nil
}
func (f *fakeRoles) Update(context.Context, int64, repository.RolePayload) (*entity.Role, error) {
	return nil, nil
}
func (f *fakeRoles) Delete(context.Context, int64) error { return nil }

type fakeUsers struct{}

func (fakeUsers) List(context.Context) ([]entity.User, error) { return nil, nil }
func (fakeUsers) Create(context.Context, repository.UserPayload) (*entity.User, error) {
	return nil, nil
}
func (fakeUsers) Update(context.Context, int64, repository.UserPayload) (*entity.User, error) {
	return nil, nil
}

type fakeGenerator struct {
	got *ports.PermissionReport
	err error
}

func (g *fakeGenerator) GeneratePermissionReport(_ context.Context, r *ports.PermissionReport) ([]byte, error) {
	g.got = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

// oneScope entrega el mismo Synchronizer a cualquier sesión.
type oneScope struct{ sync *refdata.Synchronizer }

func (s oneScope) For(string) *refdata.Synchronizer { return s.sync }

func setup(t *testing.T) (*refdata.Synchronizer, *fakeRoles) {
	t.Helper()
	roles := &fakeRoles{list: []entity.Role{{
		ID: 12, Role: "Sales Lead", Department: entity.RefOf(6), Branch: entity.RefOf(1),
		Permissions: permission.Partial{"task": {"view": true}},
	}}}
	sync := refdata.NewSynchronizer(
		&fakeBranches{list: []entity.Branch{{ID: 1, Name: "Main"}}},
		&fakeDepartments{list: []entity.Department{{ID: 6, DepartmentName: "Sales"}}},
		roles, fakeUsers{}, refdata.NewCache(), zerolog.Nop(),
	)
	return sync, roles
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRolePermissionsPDF_ResuelveNombresDesdeLaCache(t *testing.T) {
	sync, roles := setup(t)
	require.NoError(t, sync.LoadAll(context.Background()))
	gen := &fakeGenerator{}
	uc := report.NewUseCase(oneScope{sync}, gen, zerolog.Nop())

	out, name, err := uc.RolePermissionsPDF(context.Background(), 12)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	assert.Equal(t, "role-12-sales-lead.pdf", name)
	assert.Equal(t, "Sales", gen.got.DepartmentName)
	assert.Equal(t, "Main", gen.got.BranchName)
	assert.True(t, gen.got.Matrix[permission.Task].View)
	assert.Len(t, gen.got.Matrix, len(permission.Modules()))
	assert.Equal(t, 1, roles.calls, "el rol ya estaba en caché")
}

func TestRolePermissionsPDF_RefrescaSiNoEstaEnCache(t *testing.T) {
	sync, roles := setup(t)
	uc := report.NewUseCase(oneScope{sync}, &fakeGenerator{}, zerolog.Nop())

	_, _, err := uc.RolePermissionsPDF(context.Background(), 12)

	require.NoError(t, err)
	assert.Equal(t, 1, roles.calls)
}

func TestRolePermissionsPDF_RolInexistente(t *testing.T) {
	sync, _ := setup(t)
	uc := report.NewUseCase(oneScope{sync}, &fakeGenerator{}, zerolog.Nop())

	_, _, err := uc.RolePermissionsPDF(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRolePermissionsPDF_FallaDelGenerador(t *testing.T) {
	sync, _ := setup(t)
	boom := errors.New("boom")
	uc := report.NewUseCase(oneScope{sync}, &fakeGenerator{err: boom}, zerolog.Nop())

	_, _, err := uc.RolePermissionsPDF(context.Background(), 12)

	assert.ErrorIs(t, err, boom)
}

func TestRolePermissionsPDF_UsaLosDatosDeLaSesion(t *testing.T) {
	sync, _ := setup(t)
	hub := refdata.NewHub(
		&fakeBranches{list: []entity.Branch{{ID: 1, Name: "Main"}}},
		&fakeDepartments{list: []entity.Department{{ID: 6, DepartmentName: "Sales"}}},
		&fakeRoles{}, fakeUsers{}, 0, zerolog.Nop(),
	)
	// La sesión "a" cargó el rol 12; la sesión "b" no ve esa caché y su propio API no lo tiene.
	require.NoError(t, sync.LoadAll(context.Background()))
	hub.For("a").Cache().SetRoles(sync.Cache().Roles())
	uc := report.NewUseCase(hub, &fakeGenerator{}, zerolog.Nop())

	_, _, err := uc.RolePermissionsPDF(ports.WithSessionID(context.Background(), "a"), 12)
	require.NoError(t, err)

	_, _, err = uc.RolePermissionsPDF(ports.WithSessionID(context.Background(), "b"), 12)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
