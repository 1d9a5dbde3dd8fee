package form

import (
	"context"
	"strings"

	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// RoleDraft borrador del formulario de rol. Permissions siempre trae los cinco módulos.
type RoleDraft struct {
	Department  int64             `json:"department"`
	Branch      int64             `json:"branch"`
	Role        string            `json:"role"`
	Description string            `json:"description"`
	Permissions permission.Matrix `json:"permissions"`
}

// Validate campos obligatorios (department, branch, role, description) y luego,
// solo si pasan, que haya al menos un permiso.
func (d RoleDraft) Validate() error {
	switch {
	case d.Department == 0:
		return domain.NewValidationError("Department is required.")
	case d.Branch == 0:
		return domain.NewValidationError("Branch is required.")
	case strings.TrimSpace(d.Role) == "":
		return domain.NewValidationError("Role name is required.")
	case strings.TrimSpace(d.Description) == "":
		return domain.NewValidationError("Description is required.")
	}
	if !permission.HasAny(d.Permissions) {
		return domain.NewValidationError("Select at least one permission.")
	}
	return nil
}

func (d RoleDraft) payload() repository.RolePayload {
	return repository.RolePayload{
		Department:  d.Department,
		Branch:      d.Branch,
		Role:        d.Role,
		Description: d.Description,
		Permissions: permission.Clone(d.Permissions),
	}
}

func emptyRoleDraft() RoleDraft {
	return RoleDraft{Permissions: permission.Default()}
}

// SavedFunc aviso de guardado que un formulario hijo envía a su padre.
type SavedFunc func(ctx context.Context, saved entity.Role)

// RoleForm controlador de rol con su matriz de permisos.
type RoleForm struct {
	controller
	deps    Deps
	draft   RoleDraft
	onSaved SavedFunc
}

// NewRoleForm construye el controlador en Idle.
func NewRoleForm(deps Deps) *RoleForm {
	return &RoleForm{deps: deps, controller: controller{state: StateIdle}, draft: emptyRoleDraft()}
}

// Kind implementa Form.
func (f *RoleForm) Kind() Kind { return KindRole }

// State implementa Form.
func (f *RoleForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OnSaved registra el aviso de guardado (lo usa el formulario de departamento padre).
func (f *RoleForm) OnSaved(fn SavedFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSaved = fn
}

// Draft copia del borrador actual (la matriz no se comparte).
func (f *RoleForm) Draft() RoleDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copyDraft()
}

func (f *RoleForm) copyDraft() RoleDraft {
	d := f.draft
	d.Permissions = permission.Clone(f.draft.Permissions)
	return d
}

// OpenCreate pasa a Creating con la matriz por defecto.
func (f *RoleForm) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = emptyRoleDraft()
	f.state = StateCreating
	f.editingID = 0
}

func (f *RoleForm) seed(departmentID, branchID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Department = departmentID
	f.draft.Branch = branchID
}

// LoadForEdit aplana las referencias del rol y completa la matriz con los valores por defecto.
func (f *RoleForm) LoadForEdit(r entity.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = RoleDraft{
		Department:  r.DepartmentRef(),
		Branch:      r.Branch.ID,
		Role:        r.Role,
		Description: r.Description,
		Permissions: r.Matrix(),
	}
	f.state = StateEditing
	f.editingID = r.ID
}

// SetDraft reemplaza el borrador; la matriz recibida se completa con los valores por defecto.
func (f *RoleForm) SetDraft(d RoleDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return domain.ErrNoActiveForm
	}
	d.Permissions = permission.Clone(d.Permissions)
	f.draft = d
	return nil
}

// Toggle invierte una bandera de la matriz del borrador. Módulo o bandera desconocidos no cambian nada.
func (f *RoleForm) Toggle(module permission.Module, flag permission.Flag) (permission.Matrix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return nil, domain.ErrNoActiveForm
	}
	f.draft.Permissions = permission.Toggle(f.draft.Permissions, module, flag)
	return permission.Clone(f.draft.Permissions), nil
}

// ResetPermissions vuelve la matriz del borrador a todo en false.
func (f *RoleForm) ResetPermissions() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return domain.ErrNoActiveForm
	}
	f.draft.Permissions = permission.Reset()
	return nil
}

// Validate valida el borrador actual.
func (f *RoleForm) Validate() error {
	return f.Draft().Validate()
}

// Submit envía el rol. Una matriz vacía se rechaza antes de cualquier llamada.
// Los errores de validación del campo "role" del servidor tienen prioridad como mensaje.
// La guardia se toma antes de leer el borrador.
func (f *RoleForm) Submit(ctx context.Context) (*entity.Role, error) {
	release, err := f.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	f.mu.Lock()
	mode, id, draft, onSaved := f.mode(), f.editingID, f.copyDraft(), f.onSaved
	f.mu.Unlock()

	if mode == "" {
		return nil, domain.ErrNoActiveForm
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := precheck(ctx, f.deps); err != nil {
		return nil, err
	}

	var saved *entity.Role
	if mode == ModeEdit {
		saved, err = f.deps.Roles.Update(ctx, id, draft.payload())
	} else {
		saved, err = f.deps.Roles.Create(ctx, draft.payload())
	}
	if err != nil {
		f.deps.Log.Warn().Err(err).Str("mode", string(mode)).Int64("role_id", id).Msg("form: guardar rol")
		return nil, operationError("role", mode, err)
	}

	f.mu.Lock()
	f.draft = emptyRoleDraft()
	f.idle()
	f.mu.Unlock()

	refresh(ctx, f.deps, refdata.KindRoles)
	if onSaved != nil {
		result := entity.Role{ID: id, Role: draft.Role, Department: entity.RefOf(draft.Department), Branch: entity.RefOf(draft.Branch)}
		if saved != nil {
			result = refdata.CopyRole(*saved)
		}
		onSaved(ctx, result)
	}
	return saved, nil
}

// Cancel descarta el borrador y sale de edición.
func (f *RoleForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = emptyRoleDraft()
	f.idle()
}

// Close implementa Form.
func (f *RoleForm) Close() {
	f.Cancel()
	f.OnSaved(nil)
}

// View implementa Form.
func (f *RoleForm) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Kind:      KindRole,
		Mode:      f.mode(),
		State:     f.state,
		Loading:   f.loading.Load(),
		EditingID: f.editingID,
		Draft:     f.copyDraft(),
	}
}
