package entity

import "github.com/jhoicas/orgadmin-api/internal/domain/permission"

// Branch sucursal. Dato de referencia inmutable, se crea fuera de este sistema.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Department departamento de una sucursal; es dueño de cero o más roles.
type Department struct {
	ID             int64  `json:"id"`
	DepartmentName string `json:"department_name"`
	Code           string `json:"code"`
	Branch         Ref    `json:"branch"`
	Description    string `json:"description"`
}

// Role cargo dentro de un departamento, con su matriz de permisos.
// El API puede enviar el departamento como "department" (id u objeto) o como "department_id".
type Role struct {
	ID             int64              `json:"id"`
	Role           string             `json:"role"`
	Description    string             `json:"description"`
	Department     Ref                `json:"department"`
	DepartmentID   *Ref               `json:"department_id,omitempty"`
	DepartmentName string             `json:"department_name,omitempty"`
	Branch         Ref                `json:"branch"`
	BranchName     string             `json:"branch_name,omitempty"`
	Permissions    permission.Partial `json:"permissions"`
}

// DepartmentRef id de departamento normalizado, venga en "department" o en "department_id".
func (r Role) DepartmentRef() int64 {
	if !r.Department.IsZero() {
		return r.Department.ID
	}
	if r.DepartmentID != nil {
		return r.DepartmentID.ID
	}
	return 0
}

// Matrix matriz completa del rol (cinco módulos, banderas faltantes en false).
func (r Role) Matrix() permission.Matrix {
	return permission.MergeWithDefaults(r.Permissions)
}

// User usuario con su perfil organizacional.
type User struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Profile   Profile `json:"profile"`
}

// Profile datos organizacionales del usuario. Role debe pertenecer a Department.
type Profile struct {
	ContactNumber     FlexString   `json:"contact_number"`
	EmployeeID        FlexString   `json:"employee_id"`
	Branch            Ref          `json:"branch"`
	Department        Ref          `json:"department"`
	Role              Ref          `json:"role"`
	ReportingTo       FlexString   `json:"reporting_to"`
	AvailableBranches BranchIDList `json:"available_branches"`
}
