package form_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/orgadmin-api/internal/application/form"
	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos de repositorio. Registran cada llamada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeBranches struct{}

func (fakeBranches) List(context.Context) ([]entity.Branch, error) {
	return []entity.Branch{{ID: 1, Name: "Norte"}, {ID: 2, Name: "Sur"}}, nil
}

type fakeDepartments struct {
	mu      sync.Mutex
	list    []entity.Department
	creates []repository.DepartmentPayload
	updates map[int64]repository.DepartmentPayload
	pages   int
	err     error
}

func (f *fakeDepartments) ListPage(_ context.Context, page int) (*repository.DepartmentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages++
	return &repository.DepartmentPage{Departments: append([]entity.Department{}, f.list...), TotalPages: 1}, nil
}

func (f *fakeDepartments) setList(list []entity.Department) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = list
}

func (f *fakeDepartments) Create(_ context.Context, in repository.DepartmentPayload) (*entity.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	if f.err != nil {
		return nil, f.err
	}
	d := entity.Department{ID: int64(100 + len(f.creates)), DepartmentName: in.DepartmentName, Code: in.Code, Branch: entity.RefOf(in.Branch)}
	f.list = append(f.list, d)
	return &d, nil
}

func (f *fakeDepartments) Update(_ context.Context, id int64, in repository.DepartmentPayload) (*entity.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[int64]repository.DepartmentPayload{}
	}
	f.updates[id] = in
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Department{ID: id, DepartmentName: in.DepartmentName}, nil
}

type fakeRoles struct {
	mu      sync.Mutex
	list    []entity.Role
	creates []repository.RolePayload
	updates map[int64]repository.RolePayload
	deletes []int64
	lists   int
	err     error
	// block si no es nil, Create espera a que se cierre.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeRoles) List(_ context.Context, q repository.RoleQuery) ([]entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := []entity.Role{}
	for _, r := range f.list {
		if q.DepartmentID != 0 && r.DepartmentRef() != q.DepartmentID {
			continue
		}
		out = append(out, refdata.CopyRole(r))
	}
	if q.PerPage > 0 && len(out) > q.PerPage {
		out = out[:q.PerPage]
	}
	return out, nil
}

func (f *fakeRoles) Create(_ context.Context, in repository.RolePayload) (*entity.Role, error) {
	if f.block != nil {
		if f.entered != nil {
			close(f.entered)
		}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	if f.err != nil {
		return nil, f.err
	}
	r := entity.Role{ID: int64(500 + len(f.creates)), Role: in.Role, Department: entity.RefOf(in.Department), Branch: entity.RefOf(in.Branch)}
	f.list = append(f.list, r)
	return &r, nil
}

func (f *fakeRoles) Update(_ context.Context, id int64, in repository.RolePayload) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[int64]repository.RolePayload{}
	}
	f.updates[id] = in
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i].Role = in.Role
		}
	}
	return &entity.Role{ID: id, Role: in.Role, Department: entity.RefOf(in.Department)}, nil
}

func (f *fakeRoles) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.err != nil {
		return f.err
	}
	kept := f.list[:0]
	for _, r := range f.list {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.list = kept
	return nil
}

func (f *fakeRoles) setList(list []entity.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = list
}

type fakeUsers struct {
	mu      sync.Mutex
	list    []entity.User
	creates []repository.UserPayload
	updates map[int64]repository.UserPayload
	lists   int
	err     error
}

func (f *fakeUsers) List(context.Context) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]entity.User{}, f.list...), nil
}

func (f *fakeUsers) Create(_ context.Context, in repository.UserPayload) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, in)
	if f.err != nil {
		return nil, f.err
	}
	return &entity.User{ID: 900, FirstName: in.FirstName}, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, in repository.UserPayload) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[int64]repository.UserPayload{}
	}
	f.updates[id] = in
	if f.err != nil {
		return nil, f.err
	}
	return &entity.User{ID: id, FirstName: in.FirstName}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	departments *fakeDepartments
	roles       *fakeRoles
	users       *fakeUsers
	sync        *refdata.Synchronizer
	deps        form.Deps
}

func newEnv(token string) *env {
	e := &env{
		departments: &fakeDepartments{list: []entity.Department{
			{ID: 5, DepartmentName: "Ops", Code: "OPS", Branch: entity.RefOf(1)},
			{ID: 6, DepartmentName: "Sales", Code: "SAL", Branch: entity.RefOf(2)},
		}},
		roles: &fakeRoles{list: []entity.Role{
			{ID: 1, Role: "Lead", Description: "lead", Department: entity.RefOf(5), Branch: entity.RefOf(1)},
			{ID: 2, Role: "Clerk", Description: "clerk", Department: entity.RefOf(5), Branch: entity.RefOf(1)},
			{ID: 3, Role: "Seller", Description: "seller", Department: entity.RefOf(6), Branch: entity.RefOf(2)},
		}},
		users: &fakeUsers{},
	}
	e.sync = refdata.NewSynchronizer(fakeBranches{}, e.departments, e.roles, e.users, refdata.NewCache(), zerolog.Nop())
	e.deps = form.Deps{
		Departments:     e.departments,
		Roles:           e.roles,
		Users:           e.users,
		Sync:            e.sync,
		Creds:           ports.StaticCredentials(token),
		Log:             zerolog.Nop(),
		RolePreviewSize: 2,
		InitialPassword: "Welcome#1",
	}
	return e
}
