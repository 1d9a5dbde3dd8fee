package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/application/selector"
)

// ReferenceHandler expone las listas de referencia (sucursales, departamentos, roles, usuarios).
// Cada sesión ve solo lo que su propio token obtuvo.
type ReferenceHandler struct {
	scopes refdata.Scopes
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(scopes refdata.Scopes) *ReferenceHandler {
	return &ReferenceHandler{scopes: scopes}
}

func (h *ReferenceHandler) sync(c *fiber.Ctx) *refdata.Synchronizer {
	return h.scopes.For(GetSessionID(c))
}

// Get godoc
// @Summary      Listas de referencia en caché de la sesión
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReferenceResponse
// @Router       /api/reference [get]
func (h *ReferenceHandler) Get(c *fiber.Ctx) error {
	return c.JSON(referenceResponse(h.sync(c).Cache().Snapshot()))
}

// Refresh godoc
// @Summary      Recargar todas las listas de referencia
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReferenceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reference/refresh [post]
func (h *ReferenceHandler) Refresh(c *fiber.Ctx) error {
	sync := h.sync(c)
	if err := sync.LoadAll(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(referenceResponse(sync.Cache().Snapshot()))
}

// DepartmentRoles godoc
// @Summary      Roles actuales de un departamento (consulta fresca)
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del departamento"
// @Success      200  {array}   entity.Role
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/departments/{id}/roles [get]
func (h *ReferenceHandler) DepartmentRoles(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
	}
	roles, err := h.sync(c).RolesOfDepartment(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(roles)
}

func referenceResponse(s refdata.Snapshot) dto.ReferenceResponse {
	out := dto.ReferenceResponse{
		Branches:    s.Branches,
		Departments: s.Departments,
		Roles:       s.Roles,
		Users:       s.Users,
		Version:     s.Version,
	}
	for _, r := range selector.OrphanRoles(s.Roles, s.Departments) {
		out.OrphanRoleIDs = append(out.OrphanRoleIDs, r.ID)
	}
	return out
}
