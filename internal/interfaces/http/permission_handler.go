package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/dto"
	"github.com/jhoicas/orgadmin-api/internal/application/report"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
)

// PermissionHandler catálogo de permisos y reporte PDF por rol.
type PermissionHandler struct {
	report *report.UseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *report.UseCase) *PermissionHandler {
	return &PermissionHandler{report: uc}
}

// Modules godoc
// @Summary      Módulos y banderas de la matriz de permisos
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PermissionModulesResponse
// @Router       /api/permissions/modules [get]
func (h *PermissionHandler) Modules(c *fiber.Ctx) error {
	out := dto.PermissionModulesResponse{Default: permission.Default()}
	for _, m := range permission.Modules() {
		out.Modules = append(out.Modules, dto.LabeledName{Name: string(m), Label: permission.Label(string(m))})
	}
	for _, f := range permission.Flags() {
		out.Flags = append(out.Flags, dto.LabeledName{Name: string(f), Label: permission.Label(string(f))})
	}
	return c.JSON(out)
}

// RolePDF godoc
// @Summary      Reporte PDF de la matriz de permisos de un rol
// @Tags         permissions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del rol"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/roles/{id}/permissions.pdf [get]
func (h *PermissionHandler) RolePDF(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
	}
	out, name, err := h.report.RolePermissionsPDF(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	return c.Send(out)
}
