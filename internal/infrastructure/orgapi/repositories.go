package orgapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

var (
	_ repository.BranchRepository     = (*BranchRepo)(nil)
	_ repository.DepartmentRepository = (*DepartmentRepo)(nil)
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
)

// ── Sucursales ────────────────────────────────────────────────────────────────

// BranchRepo adaptador de GET /branches/.
type BranchRepo struct{ c *Client }

// NewBranchRepository construye el adaptador.
func NewBranchRepository(c *Client) *BranchRepo { return &BranchRepo{c: c} }

// List GET /branches/.
func (r *BranchRepo) List(ctx context.Context) ([]entity.Branch, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodGet, path: "/branches/"})
	if err != nil {
		return nil, err
	}
	list, err := decodeList[entity.Branch](raw, "branches")
	if err != nil {
		return nil, fmt.Errorf("orgapi: deserializar branches: %w", err)
	}
	return list, nil
}

// ── Departamentos ─────────────────────────────────────────────────────────────

// DepartmentRepo adaptador de /departments/.
type DepartmentRepo struct{ c *Client }

// NewDepartmentRepository construye el adaptador.
func NewDepartmentRepository(c *Client) *DepartmentRepo { return &DepartmentRepo{c: c} }

type departmentPageResponse struct {
	Departments []entity.Department `json:"departments"`
	TotalPages  int                 `json:"total_pages"`
}

// ListPage GET /departments/?page=N.
func (r *DepartmentRepo) ListPage(ctx context.Context, page int) (*repository.DepartmentPage, error) {
	if page < 1 {
		page = 1
	}
	var resp departmentPageResponse
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := r.c.getJSON(ctx, "/departments/", q, &resp); err != nil {
		return nil, err
	}
	if resp.Departments == nil {
		resp.Departments = []entity.Department{}
	}
	return &repository.DepartmentPage{Departments: resp.Departments, TotalPages: resp.TotalPages}, nil
}

// Create POST /departments/.
func (r *DepartmentRepo) Create(ctx context.Context, in repository.DepartmentPayload) (*entity.Department, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPost, path: "/departments/", body: in})
	if err != nil {
		return nil, err
	}
	return decodeOptional[entity.Department](raw)
}

// Update PUT /departments/{id}/.
func (r *DepartmentRepo) Update(ctx context.Context, id int64, in repository.DepartmentPayload) (*entity.Department, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/departments/%d/", id), body: in})
	if err != nil {
		return nil, err
	}
	return decodeOptional[entity.Department](raw)
}

// ── Roles ─────────────────────────────────────────────────────────────────────

// RoleRepo adaptador de /roles/.
type RoleRepo struct{ c *Client }

// NewRoleRepository construye el adaptador.
func NewRoleRepository(c *Client) *RoleRepo { return &RoleRepo{c: c} }

// List GET /roles/ con ?department= o ?page=&per_page= según q.
func (r *RoleRepo) List(ctx context.Context, q repository.RoleQuery) ([]entity.Role, error) {
	query := url.Values{}
	if q.DepartmentID != 0 {
		query.Set("department", strconv.FormatInt(q.DepartmentID, 10))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	raw, err := r.c.do(ctx, call{method: http.MethodGet, path: "/roles/", query: query})
	if err != nil {
		return nil, err
	}
	list, err := decodeList[entity.Role](raw, "roles")
	if err != nil {
		return nil, fmt.Errorf("orgapi: deserializar roles: %w", err)
	}
	return list, nil
}

// Create POST /roles/. Los errores de validación del campo "role" tienen prioridad como mensaje.
func (r *RoleRepo) Create(ctx context.Context, in repository.RolePayload) (*entity.Role, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPost, path: "/roles/", body: in, preferField: "role"})
	if err != nil {
		return nil, err
	}
	return decodeOptional[entity.Role](raw)
}

// Update PUT /roles/{id}/.
func (r *RoleRepo) Update(ctx context.Context, id int64, in repository.RolePayload) (*entity.Role, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/roles/%d/", id), body: in, preferField: "role"})
	if err != nil {
		return nil, err
	}
	return decodeOptional[entity.Role](raw)
}

// Delete DELETE /roles/{id}/. Irreversible: el llamador debe haber confirmado.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/roles/%d/", id)})
	return err
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo adaptador de /users/.
type UserRepo struct{ c *Client }

// NewUserRepository construye el adaptador.
func NewUserRepository(c *Client) *UserRepo { return &UserRepo{c: c} }

// List GET /users/.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodGet, path: "/users/"})
	if err != nil {
		return nil, err
	}
	list, err := decodeList[entity.User](raw, "users")
	if err != nil {
		return nil, fmt.Errorf("orgapi: deserializar users: %w", err)
	}
	return list, nil
}

// Create POST /users/.
func (r *UserRepo) Create(ctx context.Context, in repository.UserPayload) (*entity.User, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPost, path: "/users/", body: in})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// Update PUT /users/{id}/.
func (r *UserRepo) Update(ctx context.Context, id int64, in repository.UserPayload) (*entity.User, error) {
	raw, err := r.c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/users/%d/", id), body: in})
	if err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// decodeUser tolera cuerpos vacíos o que no son un objeto (p.ej. "ok"); un objeto
// que no se puede decodificar como usuario es un error.
func decodeUser(raw []byte) (*entity.User, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var u entity.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("orgapi: deserializar user: %w", err)
	}
	return &u, nil
}
