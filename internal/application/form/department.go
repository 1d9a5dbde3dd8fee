package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// DepartmentDraft borrador del formulario de departamento. Branch es el id ya normalizado.
type DepartmentDraft struct {
	DepartmentName string `json:"department_name"`
	Code           string `json:"code"`
	Branch         int64  `json:"branch"`
	Description    string `json:"description"`
}

// Validate campos obligatorios en orden: department_name, code, branch. El primero que falta corta.
func (d DepartmentDraft) Validate() error {
	switch {
	case strings.TrimSpace(d.DepartmentName) == "":
		return domain.NewValidationError("Department name is required.")
	case strings.TrimSpace(d.Code) == "":
		return domain.NewValidationError("Code is required.")
	case d.Branch == 0:
		return domain.NewValidationError("Branch is required.")
	}
	return nil
}

func (d DepartmentDraft) payload() repository.DepartmentPayload {
	return repository.DepartmentPayload{
		DepartmentName: d.DepartmentName,
		Code:           d.Code,
		Branch:         d.Branch,
		Description:    d.Description,
	}
}

// DepartmentForm controlador de Departamento con su lista de roles hijos.
type DepartmentForm struct {
	controller
	deps     Deps
	draft    DepartmentDraft
	children []entity.Role
}

// NewDepartmentForm construye el controlador en Idle.
func NewDepartmentForm(deps Deps) *DepartmentForm {
	return &DepartmentForm{deps: deps, controller: controller{state: StateIdle}, children: []entity.Role{}}
}

// Kind implementa Form.
func (f *DepartmentForm) Kind() Kind { return KindDepartment }

// State implementa Form.
func (f *DepartmentForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft copia del borrador actual.
func (f *DepartmentForm) Draft() DepartmentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// OpenCreate pasa a Creating con un borrador vacío.
func (f *DepartmentForm) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = DepartmentDraft{}
	f.children = []entity.Role{}
	f.state = StateCreating
	f.editingID = 0
}

// LoadForEdit aplana el departamento en un borrador y pasa a Editing.
func (f *DepartmentForm) LoadForEdit(d entity.Department) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = DepartmentDraft{
		DepartmentName: d.DepartmentName,
		Code:           d.Code,
		Branch:         d.Branch.ID,
		Description:    d.Description,
	}
	f.children = []entity.Role{}
	f.state = StateEditing
	f.editingID = d.ID
}

// SetDraft reemplaza el borrador (edición de campos desde la UI).
func (f *DepartmentForm) SetDraft(d DepartmentDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return domain.ErrNoActiveForm
	}
	f.draft = d
	return nil
}

// Validate valida el borrador actual.
func (f *DepartmentForm) Validate() error {
	return f.Draft().Validate()
}

// RefreshChildren recarga la lista de roles hijos: en edición, los roles frescos del
// departamento; en creación, una muestra acotada.
func (f *DepartmentForm) RefreshChildren(ctx context.Context) error {
	f.mu.Lock()
	state, id := f.state, f.editingID
	f.mu.Unlock()

	var (
		roles []entity.Role
		err   error
	)
	switch state {
	case StateEditing:
		roles, err = f.deps.Sync.RolesOfDepartment(ctx, id)
	case StateCreating:
		roles, err = f.deps.Sync.SampleRoles(ctx, f.deps.RolePreviewSize)
	default:
		return domain.ErrNoActiveForm
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	// El formulario pudo cambiar de entidad mientras la petición estaba en vuelo.
	if f.state == state && f.editingID == id {
		f.children = roles
	}
	return nil
}

// ChildRoles copia de los roles hijos cargados.
func (f *DepartmentForm) ChildRoles() []entity.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Role, len(f.children))
	for i, r := range f.children {
		out[i] = refdata.CopyRole(r)
	}
	return out
}

// Submit valida, comprueba el token y envía POST o PUT según el modo.
// La guardia se toma antes de leer el borrador: un segundo envío concurrente
// recibe ErrSubmitInProgress y uno posterior al éxito encuentra el formulario en Idle.
// Éxito: borrador vacío, Idle y re-sincronización de departamentos.
// Fallo: el borrador queda intacto y el error lleva el mensaje del servidor o el genérico.
func (f *DepartmentForm) Submit(ctx context.Context) (*entity.Department, error) {
	release, err := f.begin()
	if err != nil {
		return nil, err
	}
	defer release()

	f.mu.Lock()
	mode, id, draft := f.mode(), f.editingID, f.draft
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

	var saved *entity.Department
	if mode == ModeEdit {
		saved, err = f.deps.Departments.Update(ctx, id, draft.payload())
	} else {
		saved, err = f.deps.Departments.Create(ctx, draft.payload())
	}
	if err != nil {
		f.deps.Log.Warn().Err(err).Str("mode", string(mode)).Int64("department_id", id).Msg("form: guardar departamento")
		return nil, operationError("department", mode, err)
	}

	f.mu.Lock()
	f.draft = DepartmentDraft{}
	f.children = []entity.Role{}
	f.idle()
	f.mu.Unlock()

	refresh(ctx, f.deps, refdata.KindDepartments)
	return saved, nil
}

// Cancel descarta el borrador y sale de edición.
func (f *DepartmentForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = DepartmentDraft{}
	f.children = []entity.Role{}
	f.idle()
}

// Close implementa Form.
func (f *DepartmentForm) Close() { f.Cancel() }

// DeleteChild borra un rol hijo solo tras confirmación explícita y solo en edición:
// en creación la lista es una muestra de otros departamentos. Sin confirmación no
// se llama al API. En éxito recarga los hijos; en fallo la lista no cambia.
func (f *DepartmentForm) DeleteChild(ctx context.Context, roleID int64, confirm ports.Confirmation) error {
	release, err := f.begin()
	if err != nil {
		return err
	}
	defer release()

	f.mu.Lock()
	state := f.state
	var target *entity.Role
	for i := range f.children {
		if f.children[i].ID == roleID {
			r := f.children[i]
			target = &r
			break
		}
	}
	f.mu.Unlock()

	if state != StateEditing {
		return domain.ErrNoActiveForm
	}
	if target == nil {
		return fmt.Errorf("form: rol %d no pertenece al departamento: %w", roleID, domain.ErrNotFound)
	}
	if !ports.Confirm(confirm, fmt.Sprintf("Delete role %q? This cannot be undone.", target.Role)) {
		return domain.ErrNotConfirmed
	}
	if err := precheck(ctx, f.deps); err != nil {
		return err
	}

	if err := f.deps.Roles.Delete(ctx, roleID); err != nil {
		if isAuth(err) {
			return err
		}
		return domain.NewOperationError("role", "delete", err)
	}
	if err := f.RefreshChildren(ctx); err != nil {
		f.deps.Log.Warn().Err(err).Msg("form: recargar roles tras borrar")
	}
	refresh(ctx, f.deps, refdata.KindRoles)
	return nil
}

// OpenRoleEditor abre un formulario de rol hijo. Con role nil abre creación sembrada con
// una copia del departamento y sucursal del padre; si no, edita una copia del rol.
// Cuando el hijo guarda, el padre recarga su lista de roles.
func (f *DepartmentForm) OpenRoleEditor(role *entity.Role) (*RoleForm, error) {
	f.mu.Lock()
	state, deptID, branch := f.state, f.editingID, f.draft.Branch
	f.mu.Unlock()

	if state != StateEditing {
		return nil, domain.ErrNoActiveForm
	}
	child := NewRoleForm(f.deps)
	if role == nil {
		child.OpenCreate()
		child.seed(deptID, branch)
	} else {
		child.LoadForEdit(refdata.CopyRole(*role))
	}
	child.OnSaved(func(ctx context.Context, _ entity.Role) {
		if err := f.RefreshChildren(ctx); err != nil {
			f.deps.Log.Warn().Err(err).Msg("form: recargar roles tras guardar hijo")
		}
	})
	return child, nil
}

// View implementa Form.
func (f *DepartmentForm) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Kind:      KindDepartment,
		Mode:      f.mode(),
		State:     f.state,
		Loading:   f.loading.Load(),
		EditingID: f.editingID,
		Draft:     f.draft,
		Roles:     roleItems(f.children),
	}
}

func roleItems(roles []entity.Role) []RoleItem {
	out := make([]RoleItem, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleItem{ID: r.ID, Role: r.Role, Description: r.Description, DepartmentID: r.DepartmentRef()})
	}
	return out
}
