package form

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/application/selector"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// UserDraft borrador del formulario de usuario. AvailableBranches es texto separado por comas.
type UserDraft struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	ContactNumber     string `json:"contact_number"`
	EmployeeID        string `json:"employee_id"`
	Branch            int64  `json:"branch"`
	Department        int64  `json:"department"`
	Role              int64  `json:"role"`
	ReportingTo       string `json:"reporting_to"`
	AvailableBranches string `json:"available_branches"`
}

// Validate campos obligatorios en orden, luego que el departamento esté cargado y
// que el rol le pertenezca.
func (d UserDraft) Validate(departments []entity.Department, roles []entity.Role) error {
	switch {
	case strings.TrimSpace(d.FirstName) == "":
		return domain.NewValidationError("First name is required.")
	case strings.TrimSpace(d.LastName) == "":
		return domain.NewValidationError("Last name is required.")
	case strings.TrimSpace(d.Email) == "":
		return domain.NewValidationError("Email is required.")
	case d.Branch == 0:
		return domain.NewValidationError("Branch is required.")
	case d.Department == 0:
		return domain.NewValidationError("Department is required.")
	case d.Role == 0:
		return domain.NewValidationError("Role is required.")
	}
	if !selector.KnownDepartment(d.Department, departments) {
		return domain.NewValidationError("Selected department is not available.")
	}
	if !selector.Belongs(d.Role, d.Department, roles) {
		return domain.NewValidationError("Selected role does not belong to the selected department.")
	}
	return nil
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func optionalText(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// payload arma el cuerpo. Email, employee_id y contraseña solo viajan al crear.
func (d UserDraft) payload(mode Mode, password string) repository.UserPayload {
	p := repository.UserPayload{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Profile: repository.ProfilePayload{
			ContactNumber:     strings.TrimSpace(d.ContactNumber),
			Branch:            optionalID(d.Branch),
			Department:        optionalID(d.Department),
			Role:              optionalID(d.Role),
			ReportingTo:       optionalText(d.ReportingTo),
			AvailableBranches: entity.ParseBranchIDList(d.AvailableBranches),
		},
	}
	if mode == ModeCreate {
		email := strings.TrimSpace(d.Email)
		p.Email = &email
		p.Password = &password
		p.Profile.EmployeeID = optionalText(d.EmployeeID)
	}
	return p
}

// UserForm controlador de usuario con el selector en cascada Departamento → Rol.
type UserForm struct {
	controller
	deps     Deps
	draft    UserDraft
	cache    *refdata.Cache
	resolver *selector.Resolver
	unwatch  func()
}

// NewUserForm construye el controlador en Idle. Se suscribe a la caché para volver a
// validar el rol elegido cada vez que llega una lista de roles o departamentos nueva.
// Sin deps.Sync las listas quedan vacías: no se ofrecen roles y todo envío falla
// con "Selected department is not available.".
func NewUserForm(deps Deps) *UserForm {
	f := &UserForm{deps: deps, controller: controller{state: StateIdle}}
	f.cache = refdata.NewCache()
	if deps.Sync != nil {
		f.cache = deps.Sync.Cache()
	}
	f.resolver = selector.NewResolver(f.cache)
	f.unwatch = f.cache.Watch(func(kind refdata.Kind, _ uint64) {
		if kind == refdata.KindRoles || kind == refdata.KindDepartments {
			f.reconcile()
		}
	})
	return f
}

// Kind implementa Form.
func (f *UserForm) Kind() Kind { return KindUser }

// State implementa Form.
func (f *UserForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft copia del borrador actual.
func (f *UserForm) Draft() UserDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// OpenCreate pasa a Creating con un borrador vacío.
func (f *UserForm) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = UserDraft{}
	f.state = StateCreating
	f.editingID = 0
}

// LoadForEdit aplana el perfil (referencias como id u objeto) en el borrador.
func (f *UserForm) LoadForEdit(u entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = UserDraft{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		ContactNumber:     string(u.Profile.ContactNumber),
		EmployeeID:        string(u.Profile.EmployeeID),
		Branch:            u.Profile.Branch.ID,
		Department:        u.Profile.Department.ID,
		Role:              u.Profile.Role.ID,
		ReportingTo:       string(u.Profile.ReportingTo),
		AvailableBranches: u.Profile.AvailableBranches.String(),
	}
	f.state = StateEditing
	f.editingID = u.ID
}

// SetDraft reemplaza el borrador. Si cambia el departamento se aplica la cascada.
func (f *UserForm) SetDraft(d UserDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return domain.ErrNoActiveForm
	}
	sel := selector.Selection{DepartmentID: d.Department, RoleID: d.Role}
	if d.Department != f.draft.Department {
		sel = f.resolver.Select(sel, d.Department)
	}
	d.Role = sel.RoleID
	f.draft = d
	return nil
}

// SelectDepartment cambia el departamento y limpia el rol si ya no le pertenece.
// Un departamento no cargado no ofrece roles.
func (f *UserForm) SelectDepartment(departmentID int64) ([]entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return nil, domain.ErrNoActiveForm
	}
	sel := f.resolver.Select(selector.Selection{DepartmentID: f.draft.Department, RoleID: f.draft.Role}, departmentID)
	f.draft.Department, f.draft.Role = sel.DepartmentID, sel.RoleID
	return f.resolver.Roles(departmentID), nil
}

// AvailableRoles roles candidatos para el departamento elegido, desde la lista más reciente.
func (f *UserForm) AvailableRoles() []entity.Role {
	f.mu.Lock()
	dept := f.draft.Department
	f.mu.Unlock()
	return f.resolver.Roles(dept)
}

func (f *UserForm) reconcile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle {
		return
	}
	sel := f.resolver.Reconcile(selector.Selection{DepartmentID: f.draft.Department, RoleID: f.draft.Role})
	f.draft.Role = sel.RoleID
}

// Validate valida el borrador contra las listas actuales.
func (f *UserForm) Validate() error {
	return f.Draft().Validate(f.cache.Departments(), f.cache.Roles())
}

// Submit crea o actualiza el usuario. Al crear se envía email, employee_id y la contraseña inicial.
// La guardia se toma antes de leer el borrador.
func (f *UserForm) Submit(ctx context.Context) (*entity.User, error) {
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
	if err := draft.Validate(f.cache.Departments(), f.cache.Roles()); err != nil {
		return nil, err
	}
	if err := precheck(ctx, f.deps); err != nil {
		return nil, err
	}

	var saved *entity.User
	if mode == ModeEdit {
		saved, err = f.deps.Users.Update(ctx, id, draft.payload(mode, ""))
	} else {
		saved, err = f.deps.Users.Create(ctx, draft.payload(mode, f.initialPassword()))
	}
	if err != nil {
		f.deps.Log.Warn().Err(err).Str("mode", string(mode)).Int64("user_id", id).Msg("form: guardar usuario")
		return nil, operationError("user", mode, err)
	}

	f.mu.Lock()
	f.draft = UserDraft{}
	f.idle()
	f.mu.Unlock()

	refresh(ctx, f.deps, refdata.KindUsers)
	return saved, nil
}

func (f *UserForm) initialPassword() string {
	if p := strings.TrimSpace(f.deps.InitialPassword); p != "" {
		return p
	}
	return uuid.NewString()
}

// Cancel descarta el borrador y sale de edición.
func (f *UserForm) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = UserDraft{}
	f.idle()
}

// Close cancela y da de baja la suscripción a la caché.
func (f *UserForm) Close() {
	f.Cancel()
	if f.unwatch != nil {
		f.unwatch()
	}
}

// View implementa Form. Roles son los candidatos del departamento elegido.
func (f *UserForm) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Kind:      KindUser,
		Mode:      f.mode(),
		State:     f.state,
		Loading:   f.loading.Load(),
		EditingID: f.editingID,
		Draft:     f.draft,
		Roles:     roleItems(f.resolver.Roles(f.draft.Department)),
	}
}
