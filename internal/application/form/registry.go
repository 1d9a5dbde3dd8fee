package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain"
)

// Registry formularios abiertos del lado servidor, por sesión de administrador.
// Un formulario sin uso durante ttl se cierra y desaparece.
type Registry struct {
	mu    sync.Mutex
	forms map[string]*registryEntry
	ttl   time.Duration
	now   func() time.Time
}

type registryEntry struct {
	form    Form
	owner   string
	touched time.Time
}

// NewRegistry construye el registro. ttl <= 0 desactiva la expiración.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{forms: make(map[string]*registryEntry), ttl: ttl, now: time.Now}
}

// Put guarda f para owner y devuelve su id.
func (r *Registry) Put(owner string, f Form) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[id] = &registryEntry{form: f, owner: owner, touched: r.now()}
	return id
}

// Get devuelve el formulario si existe, pertenece a owner y no expiró.
func (r *Registry) Get(owner, id string) (Form, error) {
	r.mu.Lock()
	e, ok := r.forms[id]
	if !ok || e.owner != owner {
		r.mu.Unlock()
		return nil, fmt.Errorf("formulario %s: %w", id, domain.ErrNotFound)
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.forms, id)
		r.mu.Unlock()
		e.form.Close()
		return nil, fmt.Errorf("formulario %s expirado: %w", id, domain.ErrNotFound)
	}
	e.touched = now
	r.mu.Unlock()
	return e.form, nil
}

// Remove cierra y elimina el formulario.
func (r *Registry) Remove(owner, id string) error {
	r.mu.Lock()
	e, ok := r.forms[id]
	if !ok || e.owner != owner {
		r.mu.Unlock()
		return fmt.Errorf("formulario %s: %w", id, domain.ErrNotFound)
	}
	delete(r.forms, id)
	r.mu.Unlock()
	e.form.Close()
	return nil
}

// RemoveOwner cierra y elimina todos los formularios de owner (cierre de sesión).
func (r *Registry) RemoveOwner(owner string) int {
	r.mu.Lock()
	var closed []Form
	for id, e := range r.forms {
		if e.owner == owner {
			closed = append(closed, e.form)
			delete(r.forms, id)
		}
	}
	r.mu.Unlock()
	for _, f := range closed {
		f.Close()
	}
	return len(closed)
}

// Len cantidad de formularios abiertos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep cierra los formularios expirados y devuelve cuántos eliminó.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var closed []Form
	for id, e := range r.forms {
		if r.expired(e, now) {
			closed = append(closed, e.form)
			delete(r.forms, id)
		}
	}
	r.mu.Unlock()
	for _, f := range closed {
		f.Close()
	}
	return len(closed)
}

// Run ejecuta Sweep cada interval hasta que ctx termine.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Registry) expired(e *registryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.touched) > r.ttl
}

// Factory abre formularios nuevos con las dependencias compartidas.
type Factory struct {
	deps   Deps
	scopes refdata.Scopes
}

// NewFactory construye la fábrica. Con scopes cada formulario trabaja sobre los datos
// de referencia de la sesión que lo abre (ports.SessionIDFrom); sin scopes usa deps.Sync.
func NewFactory(deps Deps, scopes refdata.Scopes) *Factory {
	return &Factory{deps: deps, scopes: scopes}
}

// Deps dependencias con las que se construyen los formularios de la sesión en ctx.
func (f *Factory) Deps(ctx context.Context) Deps {
	d := f.deps
	if f.scopes != nil {
		d.Sync = f.scopes.For(ports.SessionIDFrom(ctx))
	}
	return d
}

// ParseKind valida el tipo de formulario recibido por la API HTTP.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDepartment, KindRole, KindUser:
		return k, nil
	}
	return "", fmt.Errorf("tipo de formulario %q: %w", s, domain.ErrInvalidInput)
}

// OpenCreate abre un formulario de creación. El de departamento carga además la muestra de roles.
func (f *Factory) OpenCreate(ctx context.Context, kind Kind) (Form, error) {
	deps := f.Deps(ctx)
	switch kind {
	case KindDepartment:
		form := NewDepartmentForm(deps)
		form.OpenCreate()
		if err := form.RefreshChildren(ctx); err != nil {
			deps.Log.Warn().Err(err).Msg("form: muestra de roles")
		}
		return form, nil
	case KindRole:
		form := NewRoleForm(deps)
		form.OpenCreate()
		return form, nil
	case KindUser:
		form := NewUserForm(deps)
		form.OpenCreate()
		return form, nil
	}
	return nil, fmt.Errorf("tipo de formulario %q: %w", kind, domain.ErrInvalidInput)
}

// OpenEdit abre un formulario de edición para la entidad id, tomada de los datos de
// referencia que la sesión ya cargó.
func (f *Factory) OpenEdit(ctx context.Context, kind Kind, id int64) (Form, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	deps := f.Deps(ctx)
	if deps.Sync == nil {
		return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	cache := deps.Sync.Cache()
	switch kind {
	case KindDepartment:
		for _, d := range cache.Departments() {
			if d.ID == id {
				form := NewDepartmentForm(deps)
				form.LoadForEdit(d)
				if err := form.RefreshChildren(ctx); err != nil {
					return nil, err
				}
				return form, nil
			}
		}
	case KindRole:
		for _, r := range cache.Roles() {
			if r.ID == id {
				form := NewRoleForm(deps)
				form.LoadForEdit(r)
				return form, nil
			}
		}
	case KindUser:
		for _, u := range cache.Users() {
			if u.ID == id {
				form := NewUserForm(deps)
				form.LoadForEdit(u)
				return form, nil
			}
		}
	}
	return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

// OpenChildRole abre el editor de un rol hijo del formulario de departamento.
// roleID == 0 abre creación sembrada con el departamento del padre.
func (f *Factory) OpenChildRole(parent *DepartmentForm, roleID int64) (*RoleForm, error) {
	if roleID == 0 {
		return parent.OpenRoleEditor(nil)
	}
	for _, r := range parent.ChildRoles() {
		if r.ID == roleID {
			role := r
			return parent.OpenRoleEditor(&role)
		}
	}
	return nil, fmt.Errorf("rol %d: %w", roleID, domain.ErrNotFound)
}
