package dto

// OpenFormRequest abre un formulario: sin ID en modo creación, con ID en modo edición.
type OpenFormRequest struct {
	ID int64 `json:"id"`
}

// OpenChildRoleRequest abre el editor de un rol hijo; RoleID 0 = nuevo rol del departamento.
type OpenChildRoleRequest struct {
	RoleID int64 `json:"role_id"`
}

// FormResponse formulario abierto y su estado.
type FormResponse struct {
	FormID string      `json:"form_id"`
	Form   interface{} `json:"form"`
}

// TogglePermissionRequest bandera a invertir en la matriz del borrador.
type TogglePermissionRequest struct {
	Module string `json:"module"`
	Flag   string `json:"flag"`
}

// SelectDepartmentRequest cambio de departamento (selector en cascada).
type SelectDepartmentRequest struct {
	DepartmentID int64 `json:"department_id"`
}

// SubmitResponse resultado de un envío exitoso.
type SubmitResponse struct {
	Saved interface{} `json:"saved,omitempty"`
	Form  interface{} `json:"form"`
}

// PermissionModulesResponse catálogo de módulos y banderas con sus etiquetas.
type PermissionModulesResponse struct {
	Modules []LabeledName `json:"modules"`
	Flags   []LabeledName `json:"flags"`
	Default interface{}   `json:"default"`
}

// LabeledName nombre canónico y su etiqueta legible.
type LabeledName struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
