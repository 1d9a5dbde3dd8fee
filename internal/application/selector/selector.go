// Package selector resuelve el selector en cascada Departamento → Rol.
//
// La lista de roles candidatos depende del departamento elegido; cuando cambia el
// departamento, o cuando llega una lista de roles nueva, un rol elegido que ya no
// pertenece al departamento se limpia. Persistir un rol de otro departamento es
// estado corrupto, no un detalle de UX.
package selector

import "github.com/jhoicas/orgadmin-api/internal/domain/entity"

// Source fuente viva de departamentos y roles (refdata.Cache).
type Source interface {
	Departments() []entity.Department
	Roles() []entity.Role
}

// ResolveRoles devuelve, en el orden de entrada, los roles cuyo departamento
// normalizado es departmentID. departmentID == 0 → lista vacía.
func ResolveRoles(departmentID int64, roles []entity.Role) []entity.Role {
	out := []entity.Role{}
	if departmentID == 0 {
		return out
	}
	for _, r := range roles {
		if r.DepartmentRef() == departmentID {
			out = append(out, r)
		}
	}
	return out
}

// KnownDepartment true si departmentID está entre los departamentos cargados.
func KnownDepartment(departmentID int64, departments []entity.Department) bool {
	if departmentID == 0 {
		return false
	}
	for _, d := range departments {
		if d.ID == departmentID {
			return true
		}
	}
	return false
}

// AvailableRoles roles ofrecibles para departmentID: vacío si el departamento no
// está cargado, aunque existan roles que lo referencien (dependencia obsoleta).
func AvailableRoles(departmentID int64, departments []entity.Department, roles []entity.Role) []entity.Role {
	if !KnownDepartment(departmentID, departments) {
		return []entity.Role{}
	}
	return ResolveRoles(departmentID, roles)
}

// Belongs true si roleID está entre los roles del departamento.
func Belongs(roleID, departmentID int64, roles []entity.Role) bool {
	if roleID == 0 || departmentID == 0 {
		return false
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r.DepartmentRef() == departmentID
		}
	}
	return false
}

// Selection par departamento/rol elegido en un formulario.
type Selection struct {
	DepartmentID int64 `json:"department_id"`
	RoleID       int64 `json:"role_id"`
}

// WithDepartment cambia el departamento y limpia el rol si no pertenece al nuevo.
func (s Selection) WithDepartment(departmentID int64, roles []entity.Role) Selection {
	s.DepartmentID = departmentID
	return s.Reconcile(roles)
}

// Reconcile vuelve a validar el rol contra una lista (posiblemente recién obtenida).
func (s Selection) Reconcile(roles []entity.Role) Selection {
	if s.RoleID != 0 && !Belongs(s.RoleID, s.DepartmentID, roles) {
		s.RoleID = 0
	}
	return s
}

// Resolver aplica la cascada sobre las listas más recientes de la fuente; nunca
// guarda una copia propia que pueda quedar vieja.
type Resolver struct {
	src Source
}

// NewResolver construye el resolvedor sobre src.
func NewResolver(src Source) *Resolver { return &Resolver{src: src} }

// Known true si el departamento está cargado.
func (r *Resolver) Known(departmentID int64) bool {
	return KnownDepartment(departmentID, r.src.Departments())
}

// Roles candidatos del departamento; vacío para un departamento no cargado.
func (r *Resolver) Roles(departmentID int64) []entity.Role {
	return AvailableRoles(departmentID, r.src.Departments(), r.src.Roles())
}

// Select aplica un cambio de departamento a sel.
func (r *Resolver) Select(sel Selection, departmentID int64) Selection {
	return sel.WithDepartment(departmentID, r.Roles(departmentID))
}

// Reconcile re-valida sel contra las listas actuales.
func (r *Resolver) Reconcile(sel Selection) Selection {
	return sel.Reconcile(r.Roles(sel.DepartmentID))
}

// OrphanRoles roles cuyo departamento no está entre los cargados (dependencia obsoleta).
// Se excluyen de las vistas filtradas; nunca son un error fatal. Roles sin departamento
// también se reportan.
func OrphanRoles(roles []entity.Role, departments []entity.Department) []entity.Role {
	known := make(map[int64]struct{}, len(departments))
	for _, d := range departments {
		known[d.ID] = struct{}{}
	}
	out := []entity.Role{}
	for _, r := range roles {
		if _, ok := known[r.DepartmentRef()]; !ok {
			out = append(out, r)
		}
	}
	return out
}
