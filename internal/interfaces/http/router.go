package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/orgadmin-api/internal/application/form"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/application/report"
	"github.com/jhoicas/orgadmin-api/internal/application/session"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC *session.UseCase
	RefData   *refdata.Hub
	Forms     *form.Factory
	Registry  *form.Registry
	ReportUC  *report.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sesión (público)
	authHandler := NewAuthHandler(deps.SessionUC,
		deps.RefData.Drop,
		func(id string) { deps.Registry.RemoveOwner(id) },
	)
	api.Post("/session", authHandler.Open)

	// Rutas protegidas (requieren Bearer Token de una sesión abierta)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.SessionUC))
	protected.Delete("/session", authHandler.Close)

	// Listas de referencia
	refHandler := NewReferenceHandler(deps.RefData)
	protected.Get("/reference", refHandler.Get)
	protected.Post("/reference/refresh", refHandler.Refresh)
	protected.Get("/departments/:id/roles", refHandler.DepartmentRoles)

	// Permisos
	permHandler := NewPermissionHandler(deps.ReportUC)
	protected.Get("/permissions/modules", permHandler.Modules)
	protected.Get("/roles/:id/permissions.pdf", permHandler.RolePDF)

	// Formularios
	forms := protected.Group("/forms")
	formHandler := NewFormHandler(deps.Forms, deps.Registry)
	forms.Post("/:kind", formHandler.Open)
	forms.Get("/:formID", formHandler.Get)
	forms.Delete("/:formID", formHandler.Cancel)
	forms.Put("/:formID/draft", formHandler.PutDraft)
	forms.Post("/:formID/permissions/toggle", formHandler.TogglePermission)
	forms.Post("/:formID/permissions/reset", formHandler.ResetPermissions)
	forms.Post("/:formID/department", formHandler.SelectDepartment)
	forms.Post("/:formID/submit", formHandler.Submit)
	forms.Post("/:formID/roles", formHandler.OpenChildRole)
	forms.Delete("/:formID/roles/:roleID", formHandler.DeleteChildRole)
}
