package refdata_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeBranches struct {
	list []entity.Branch
	err  error
}

func (f *fakeBranches) List(context.Context) ([]entity.Branch, error) { return f.list, f.err }

type fakeDepartments struct {
	mu    sync.Mutex
	pages map[int][]entity.Department
	total int
	calls map[int]int
	err   error
}

func (f *fakeDepartments) ListPage(_ context.Context, page int) (*repository.DepartmentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[int]int{}
	}
	f.calls[page]++
	if f.err != nil {
		return nil, f.err
	}
	return &repository.DepartmentPage{Departments: f.pages[page], TotalPages: f.total}, nil
}

func (f *fakeDepartments) Create(context.Context, repository.DepartmentPayload) (*entity.Department, error) {
	return nil, nil
}

func (f *fakeDepartments) Update(context.Context, int64, repository.DepartmentPayload) (*entity.Department, error) {
	return nil, nil
}

type fakeRoles struct {
	mu      sync.Mutex
	list    []entity.Role
	err     error
	queries []repository.RoleQuery
}

func (f *fakeRoles) List(_ context.Context, q repository.RoleQuery) ([]entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.list, f.err
}

func (f *fakeRoles) Create(context.Context, repository.RolePayload) (*entity.Role, error) {
	return nil, nil
}

func (f *fakeRoles) Update(context.Context, int64, repository.RolePayload) (*entity.Role, error) {
	return nil, nil
}

func (f *fakeRoles) Delete(context.Context, int64) error { return nil }

type fakeUsers struct {
	list []entity.User
	err  error
}

func (f *fakeUsers) List(context.Context) ([]entity.User, error) { return f.list, f.err }

func (f *fakeUsers) Create(context.Context, repository.UserPayload) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUsers) Update(context.Context, int64, repository.UserPayload) (*entity.User, error) {
	return nil, nil
}

func dep(id int64, name string) entity.Department {
	return entity.Department{ID: id, DepartmentName: name, Code: name, Branch: entity.RefOf(1)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación de departamentos
// ──────────────────────────────────────────────────────────────────────────────

func TestRefreshDepartments_AgregaTodasLasPaginasUnaVez(t *testing.T) {
	deps := &fakeDepartments{
		total: 3,
		pages: map[int][]entity.Department{
			1: {dep(1, "A"), dep(2, "B")},
			2: {dep(3, "C")},
			3: {dep(4, "D"), dep(5, "E")},
		},
	}
	cache := refdata.NewCache()
	s := refdata.NewSynchronizer(&fakeBranches{}, deps, &fakeRoles{}, &fakeUsers{}, cache, zerolog.Nop())

	require.NoError(t, s.RefreshDepartments(context.Background()))

	got := cache.Departments()
	assert.Len(t, got, 5)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, deps.calls)
	assert.Equal(t, "E", got[4].DepartmentName)
}

func TestRefreshDepartments_FalloNoPublicaPaginaParcial(t *testing.T) {
	deps := &fakeDepartments{total: 2, pages: map[int][]entity.Department{1: {dep(1, "A")}}}
	cache := refdata.NewCache()
	cache.SetDepartments([]entity.Department{dep(9, "Old")})
	s := refdata.NewSynchronizer(&fakeBranches{}, &failingPage{fakeDepartments: deps, failOn: 2}, &fakeRoles{}, &fakeUsers{}, cache, zerolog.Nop())

	err := s.RefreshDepartments(context.Background())

	require.Error(t, err)
	got := cache.Departments()
	require.Len(t, got, 1)
	assert.Equal(t, "Old", got[0].DepartmentName)
}

type failingPage struct {
	*fakeDepartments
	failOn int
}

func (f *failingPage) ListPage(ctx context.Context, page int) (*repository.DepartmentPage, error) {
	if page == f.failOn {
		return nil, errors.New("boom")
	}
	return f.fakeDepartments.ListPage(ctx, page)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadAll_CargaLasCuatroListas(t *testing.T) {
	cache := refdata.NewCache()
	s := refdata.NewSynchronizer(
		&fakeBranches{list: []entity.Branch{{ID: 1, Name: "Norte"}}},
		&fakeDepartments{total: 1, pages: map[int][]entity.Department{1: {dep(1, "A")}}},
		&fakeRoles{list: []entity.Role{{ID: 1, Role: "Lead", Department: entity.RefOf(1)}}},
		&fakeUsers{list: []entity.User{{ID: 1, FirstName: "Ana"}}},
		cache, zerolog.Nop(),
	)

	require.NoError(t, s.LoadAll(context.Background()))

	snap := cache.Snapshot()
	assert.Len(t, snap.Branches, 1)
	assert.Len(t, snap.Departments, 1)
	assert.Len(t, snap.Roles, 1)
	assert.Len(t, snap.Users, 1)
	assert.Equal(t, uint64(4), snap.Version)
}

func TestLoadAll_UnFalloFallaElLote(t *testing.T) {
	cache := refdata.NewCache()
	s := refdata.NewSynchronizer(
		&fakeBranches{list: []entity.Branch{{ID: 1, Name: "Norte"}}},
		&fakeDepartments{total: 1},
		&fakeRoles{err: errors.New("roles caído")},
		&fakeUsers{},
		cache, zerolog.Nop(),
	)

	err := s.LoadAll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "roles caído")
	assert.Empty(t, cache.Roles())
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRolesOfDepartment_SinIDNoLlamaAlAPI(t *testing.T) {
	roles := &fakeRoles{}
	s := refdata.NewSynchronizer(&fakeBranches{}, &fakeDepartments{}, roles, &fakeUsers{}, refdata.NewCache(), zerolog.Nop())

	got, err := s.RolesOfDepartment(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, roles.queries)
}

func TestRolesOfDepartment_ConsultaFresca(t *testing.T) {
	roles := &fakeRoles{list: []entity.Role{{ID: 3, Department: entity.RefOf(7)}}}
	s := refdata.NewSynchronizer(&fakeBranches{}, &fakeDepartments{}, roles, &fakeUsers{}, refdata.NewCache(), zerolog.Nop())

	got, err := s.RolesOfDepartment(context.Background(), 7)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.Len(t, roles.queries, 1)
	assert.Equal(t, repository.RoleQuery{DepartmentID: 7}, roles.queries[0])
}

func TestSampleRoles_Acotada(t *testing.T) {
	roles := &fakeRoles{list: []entity.Role{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}}
	s := refdata.NewSynchronizer(&fakeBranches{}, &fakeDepartments{}, roles, &fakeUsers{}, refdata.NewCache(), zerolog.Nop())

	got, err := s.SampleRoles(context.Background(), 3)

	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, repository.RoleQuery{Page: 1, PerPage: 3}, roles.queries[0])
}

// ──────────────────────────────────────────────────────────────────────────────
// Cache
// ──────────────────────────────────────────────────────────────────────────────

func TestCache_EntregaCopias(t *testing.T) {
	cache := refdata.NewCache()
	cache.SetRoles([]entity.Role{{
		ID:          1,
		Permissions: permission.Partial{"task": {"view": true}},
	}})

	roles := cache.Roles()
	roles[0].Role = "mutado"
	roles[0].Permissions["task"]["view"] = false

	fresh := cache.Roles()
	assert.Empty(t, fresh[0].Role)
	assert.True(t, fresh[0].Permissions["task"]["view"])
}

func TestCache_NotificaWatchers(t *testing.T) {
	cache := refdata.NewCache()
	var got []refdata.Kind
	cancel := cache.Watch(func(kind refdata.Kind, _ uint64) { got = append(got, kind) })

	cache.SetRoles(nil)
	cache.SetUsers(nil)
	cancel()
	cache.SetBranches(nil)

	assert.Equal(t, []refdata.Kind{refdata.KindRoles, refdata.KindUsers}, got)
	assert.Equal(t, uint64(3), cache.Version())
}

func TestRefresh_ListaDesconocida(t *testing.T) {
	s := refdata.NewSynchronizer(&fakeBranches{}, &fakeDepartments{}, &fakeRoles{}, &fakeUsers{}, refdata.NewCache(), zerolog.Nop())

	err := s.Refresh(context.Background(), refdata.Kind("nope"))

	assert.Error(t, err)
}
