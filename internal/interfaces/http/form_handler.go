package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/form"
	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
)

// FormHandler expone los controladores de formulario alojados en el servidor.
// Cada formulario pertenece a la sesión que lo abrió.
type FormHandler struct {
	factory  *form.Factory
	registry *form.Registry
}

// NewFormHandler construye el handler.
func NewFormHandler(factory *form.Factory, registry *form.Registry) *FormHandler {
	return &FormHandler{factory: factory, registry: registry}
}

func (h *FormHandler) lookup(c *fiber.Ctx) (form.Form, error) {
	return h.registry.Get(GetSessionID(c), c.Params("formID"))
}

func wrongKind(f form.Form, op string) error {
	return fmt.Errorf("%s no aplica a formularios de tipo %s: %w", op, f.Kind(), domain.ErrInvalidInput)
}

// Open godoc
// @Summary      Abrir formulario (creación sin id, edición con id)
// @Tags         forms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string               true   "department | role | user"
// @Param        body  body  dto.OpenFormRequest  false  "id de la entidad a editar"
// @Success      201   {object}  dto.FormResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/forms/{kind} [post]
func (h *FormHandler) Open(c *fiber.Ctx) error {
	kind, err := form.ParseKind(c.Params("kind"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.OpenFormRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	var f form.Form
	if in.ID > 0 {
		f, err = h.factory.OpenEdit(c.UserContext(), kind, in.ID)
	} else {
		f, err = h.factory.OpenCreate(c.UserContext(), kind)
	}
	if err != nil {
		return writeError(c, err)
	}
	id := h.registry.Put(GetSessionID(c), f)
	return c.Status(fiber.StatusCreated).JSON(dto.FormResponse{FormID: id, Form: f.View()})
}

// Get godoc
// @Summary      Estado del formulario
// @Tags         forms
// @Security     Bearer
// @Produce      json
// @Param        formID  path  string  true  "ID del formulario"
// @Success      200     {object}  dto.FormResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/forms/{formID} [get]
func (h *FormHandler) Get(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: f.View()})
}

// PutDraft godoc
// @Summary      Reemplazar el borrador
// @Tags         forms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        formID  path  string  true  "ID del formulario"
// @Success      200     {object}  dto.FormResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/forms/{formID}/draft [put]
func (h *FormHandler) PutDraft(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	body := c.Body()
	switch t := f.(type) {
	case *form.DepartmentForm:
		var d form.DepartmentDraft
		if err := json.Unmarshal(body, &d); err != nil {
			return badBody(c)
		}
		err = t.SetDraft(d)
	case *form.RoleForm:
		var d form.RoleDraft
		if err := json.Unmarshal(body, &d); err != nil {
			return badBody(c)
		}
		err = t.SetDraft(d)
	case *form.UserForm:
		var d form.UserDraft
		if err := json.Unmarshal(body, &d); err != nil {
			return badBody(c)
		}
		err = t.SetDraft(d)
	default:
		err = wrongKind(f, "draft")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: f.View()})
}

// TogglePermission godoc
// @Summary      Invertir una bandera de la matriz del rol
// @Tags         forms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        formID  path  string                       true  "ID del formulario"
// @Param        body    body  dto.TogglePermissionRequest  true  "módulo y bandera"
// @Success      200     {object}  dto.FormResponse
// @Router       /api/forms/{formID}/permissions/toggle [post]
func (h *FormHandler) TogglePermission(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	rf, ok := f.(*form.RoleForm)
	if !ok {
		return writeError(c, wrongKind(f, "permissions"))
	}
	var in dto.TogglePermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := rf.Toggle(permission.Module(in.Module), permission.Flag(in.Flag)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: rf.View()})
}

// ResetPermissions godoc
// @Summary      Reiniciar la matriz del rol a todo en false
// @Tags         forms
// @Security     Bearer
// @Produce      json
// @Param        formID  path  string  true  "ID del formulario"
// @Success      200     {object}  dto.FormResponse
// @Router       /api/forms/{formID}/permissions/reset [post]
func (h *FormHandler) ResetPermissions(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	rf, ok := f.(*form.RoleForm)
	if !ok {
		return writeError(c, wrongKind(f, "permissions"))
	}
	if err := rf.ResetPermissions(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: rf.View()})
}

// SelectDepartment godoc
// @Summary      Cambiar el departamento del usuario (selector en cascada)
// @Tags         forms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        formID  path  string                       true  "ID del formulario"
// @Param        body    body  dto.SelectDepartmentRequest  true  "departamento"
// @Success      200     {object}  dto.FormResponse
// @Router       /api/forms/{formID}/department [post]
func (h *FormHandler) SelectDepartment(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	uf, ok := f.(*form.UserForm)
	if !ok {
		return writeError(c, wrongKind(f, "department"))
	}
	var in dto.SelectDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := uf.SelectDepartment(in.DepartmentID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: uf.View()})
}

// Submit godoc
// @Summary      Enviar el borrador (POST en creación, PUT en edición)
// @Tags         forms
// @Security     Bearer
// @Produce      json
// @Param        formID  path  string  true  "ID del formulario"
// @Success      200     {object}  dto.SubmitResponse
// @Failure      401     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /api/forms/{formID}/submit [post]
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	var saved interface{}
	switch t := f.(type) {
	case *form.DepartmentForm:
		saved, err = t.Submit(ctx)
	case *form.RoleForm:
		saved, err = t.Submit(ctx)
	case *form.UserForm:
		saved, err = t.Submit(ctx)
	default:
		err = wrongKind(f, "submit")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SubmitResponse{Saved: saved, Form: f.View()})
}

// Cancel godoc
// @Summary      Cancelar y cerrar el formulario
// @Tags         forms
// @Security     Bearer
// @Param        formID  path  string  true  "ID del formulario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forms/{formID} [delete]
func (h *FormHandler) Cancel(c *fiber.Ctx) error {
	if err := h.registry.Remove(GetSessionID(c), c.Params("formID")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenChildRole godoc
// @Summary      Abrir el editor de un rol del departamento (role_id 0 = nuevo)
// @Tags         forms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        formID  path  string                    true  "ID del formulario de departamento"
// @Param        body    body  dto.OpenChildRoleRequest  false "rol hijo"
// @Success      201     {object}  dto.FormResponse
// @Router       /api/forms/{formID}/roles [post]
func (h *FormHandler) OpenChildRole(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	parent, ok := f.(*form.DepartmentForm)
	if !ok {
		return writeError(c, wrongKind(f, "roles"))
	}
	var in dto.OpenChildRoleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	child, err := h.factory.OpenChildRole(parent, in.RoleID)
	if err != nil {
		return writeError(c, err)
	}
	id := h.registry.Put(GetSessionID(c), child)
	return c.Status(fiber.StatusCreated).JSON(dto.FormResponse{FormID: id, Form: child.View()})
}

// DeleteChildRole godoc
// @Summary      Eliminar un rol del departamento (irreversible, requiere confirm=true)
// @Tags         forms
// @Security     Bearer
// @Produce      json
// @Param        formID   path   string  true   "ID del formulario de departamento"
// @Param        roleID   path   int     true   "ID del rol"
// @Param        confirm  query  bool    false  "confirmación explícita"
// @Success      200      {object}  dto.FormResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/forms/{formID}/roles/{roleID} [delete]
func (h *FormHandler) DeleteChildRole(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return writeError(c, err)
	}
	parent, ok := f.(*form.DepartmentForm)
	if !ok {
		return writeError(c, wrongKind(f, "roles"))
	}
	roleID, err := c.ParamsInt("roleID")
	if err != nil || roleID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "roleID debe ser un entero positivo"})
	}
	var confirm ports.Confirmation
	if c.QueryBool("confirm", false) {
		confirm = ports.Confirmed
	}
	if err := parent.DeleteChild(c.UserContext(), int64(roleID), confirm); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FormResponse{FormID: c.Params("formID"), Form: parent.View()})
}
