// Package form contiene los controladores de formulario con estado para
// Departamento (+ sus roles), Rol y Usuario.
//
// Cada controlador es dueño exclusivo de su borrador. El ciclo es
// Idle → (OpenCreate) → Creating → (Submit ok) → Idle y
// Idle → (LoadForEdit) → Editing → (Submit ok | Cancel) → Idle.
// Un Submit fallido deja el borrador intacto para reintentar.
package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// Kind tipo de formulario.
type Kind string

// Tipos de formulario.
const (
	KindDepartment Kind = "department"
	KindRole       Kind = "role"
	KindUser       Kind = "user"
)

// Mode modo de envío.
type Mode string

// Modos.
const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// State estado del controlador.
type State string

// Estados.
const (
	StateIdle     State = "idle"
	StateCreating State = "creating"
	StateEditing  State = "editing"
)

// Deps dependencias compartidas por todos los controladores.
type Deps struct {
	Departments repository.DepartmentRepository
	Roles       repository.RoleRepository
	Users       repository.UserRepository
	Sync        *refdata.Synchronizer
	Creds       ports.CredentialProvider
	Log         zerolog.Logger
	// RolePreviewSize cantidad de roles de muestra en el formulario de departamento (modo creación).
	RolePreviewSize int
	// InitialPassword contraseña inicial de usuarios nuevos; vacía → se genera una aleatoria.
	InitialPassword string
}

// Form vista común de los tres controladores (usada por el registro y la capa HTTP).
type Form interface {
	Kind() Kind
	State() State
	View() View
	Cancel()
	Close()
}

// View estado serializable de un formulario.
type View struct {
	Kind      Kind        `json:"kind"`
	Mode      Mode        `json:"mode,omitempty"`
	State     State       `json:"state"`
	Loading   bool        `json:"loading"`
	EditingID int64       `json:"editing_id,omitempty"`
	Draft     interface{} `json:"draft"`
	// Roles hijos (formulario de departamento) o roles candidatos (formulario de usuario).
	Roles []RoleItem `json:"roles,omitempty"`
}

// RoleItem resumen de un rol para listas de la vista.
type RoleItem struct {
	ID           int64  `json:"id"`
	Role         string `json:"role"`
	Description  string `json:"description"`
	DepartmentID int64  `json:"department_id"`
}

// controller estado común: modo, estado, id en edición y guardia de envío.
type controller struct {
	mu        sync.Mutex
	loading   atomic.Bool
	state     State
	editingID int64
}

func (c *controller) mode() Mode {
	switch c.state {
	case StateCreating:
		return ModeCreate
	case StateEditing:
		return ModeEdit
	}
	return ""
}

// begin toma la guardia de envío. release debe llamarse en todos los caminos de salida.
func (c *controller) begin() (release func(), err error) {
	if !c.loading.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInProgress
	}
	return func() { c.loading.Store(false) }, nil
}

// idle vuelve al estado inicial y olvida la entidad en edición.
func (c *controller) idle() {
	c.state = StateIdle
	c.editingID = 0
}

// precheck verifica que haya token antes de enviar nada.
func precheck(ctx context.Context, d Deps) error {
	_, err := ports.RequireToken(ctx, d.Creds)
	return err
}

// refresh re-sincroniza las listas afectadas tras una mutación exitosa.
// Un fallo aquí no deshace la mutación; solo se registra.
func refresh(ctx context.Context, d Deps, kinds ...refdata.Kind) {
	if d.Sync == nil {
		return
	}
	if err := d.Sync.Refresh(ctx, kinds...); err != nil {
		d.Log.Warn().Err(err).Msg("form: no se pudo re-sincronizar tras guardar")
	}
}

// operationError convierte un error del API en el mensaje visible para el usuario.
// Los errores de autenticación se devuelven tal cual.
func operationError(entity string, mode Mode, err error) error {
	if isAuth(err) {
		return err
	}
	op := "create"
	if mode == ModeEdit {
		op = "update"
	}
	return domain.NewOperationError(entity, op, err)
}

func isAuth(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
