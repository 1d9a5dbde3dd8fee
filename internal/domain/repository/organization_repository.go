package repository

import (
	"context"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
)

// BranchRepository puerto de lectura de sucursales (API remoto).
type BranchRepository interface {
	List(ctx context.Context) ([]entity.Branch, error)
}

// DepartmentPage una página de departamentos tal como la pagina el API.
type DepartmentPage struct {
	Departments []entity.Department
	TotalPages  int
}

// DepartmentPayload cuerpo de POST/PUT /departments/.
type DepartmentPayload struct {
	DepartmentName string `json:"department_name"`
	Code           string `json:"code"`
	Branch         int64  `json:"branch"`
	Description    string `json:"description"`
}

// DepartmentRepository puerto de persistencia de departamentos. No expone borrado.
type DepartmentRepository interface {
	ListPage(ctx context.Context, page int) (*DepartmentPage, error)
	Create(ctx context.Context, in DepartmentPayload) (*entity.Department, error)
	Update(ctx context.Context, id int64, in DepartmentPayload) (*entity.Department, error)
}

// RoleQuery filtros de GET /roles/. Todo en cero = lista completa.
type RoleQuery struct {
	DepartmentID int64
	Page         int
	PerPage      int
}

// RolePayload cuerpo de POST/PUT /roles/.
type RolePayload struct {
	Department  int64             `json:"department"`
	Branch      int64             `json:"branch"`
	Role        string            `json:"role"`
	Description string            `json:"description"`
	Permissions permission.Matrix `json:"permissions"`
}

// RoleRepository puerto de persistencia de roles.
type RoleRepository interface {
	List(ctx context.Context, q RoleQuery) ([]entity.Role, error)
	Create(ctx context.Context, in RolePayload) (*entity.Role, error)
	Update(ctx context.Context, id int64, in RolePayload) (*entity.Role, error)
	Delete(ctx context.Context, id int64) error
}

// ProfilePayload perfil anidado en el cuerpo de usuario. Los ids vacíos viajan como null.
type ProfilePayload struct {
	ContactNumber     string   `json:"contact_number"`
	EmployeeID        *string  `json:"employee_id,omitempty"`
	Branch            *int64   `json:"branch"`
	Department        *int64   `json:"department"`
	Role              *int64   `json:"role"`
	ReportingTo       *string  `json:"reporting_to"`
	AvailableBranches []string `json:"available_branches"`
}

// UserPayload cuerpo de POST/PUT /users/. Email, EmployeeID y Password solo se envían al crear.
type UserPayload struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     *string        `json:"email,omitempty"`
	Password  *string        `json:"password,omitempty"`
	Profile   ProfilePayload `json:"profile"`
}

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	Create(ctx context.Context, in UserPayload) (*entity.User, error)
	Update(ctx context.Context, id int64, in UserPayload) (*entity.User, error)
}
