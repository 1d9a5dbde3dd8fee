// Package refdata mantiene los datos de referencia (sucursales, departamentos, roles,
// usuarios) que alimentan los selectores, y los re-sincroniza con el API remoto
// después de cada mutación.
package refdata

import (
	"sync"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
)

// Kind identifica una lista de referencia.
type Kind string

// Listas conocidas.
const (
	KindBranches    Kind = "branches"
	KindDepartments Kind = "departments"
	KindRoles       Kind = "roles"
	KindUsers       Kind = "users"
)

// Snapshot copia consistente de todas las listas en una versión dada.
type Snapshot struct {
	Branches    []entity.Branch     `json:"branches"`
	Departments []entity.Department `json:"departments"`
	Roles       []entity.Role       `json:"roles"`
	Users       []entity.User       `json:"users"`
	Version     uint64              `json:"version"`
}

// Watcher se invoca (fuera del lock) cada vez que una lista se reemplaza.
type Watcher func(kind Kind, version uint64)

// Cache dueño de las listas canónicas. Entrega siempre copias; nadie fuera del
// paquete puede mutar una lista ya publicada.
type Cache struct {
	mu          sync.RWMutex
	branches    []entity.Branch
	departments []entity.Department
	roles       []entity.Role
	users       []entity.User
	version     uint64

	wmu      sync.Mutex
	watchers map[int]Watcher
	nextID   int
}

// NewCache construye una caché vacía.
func NewCache() *Cache {
	return &Cache{
		branches:    []entity.Branch{},
		departments: []entity.Department{},
		roles:       []entity.Role{},
		users:       []entity.User{},
		watchers:    make(map[int]Watcher),
	}
}

// Branches copia de las sucursales.
func (c *Cache) Branches() []entity.Branch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Branch{}, c.branches...)
}

// Departments copia de los departamentos (todas las páginas agregadas).
func (c *Cache) Departments() []entity.Department {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.Department{}, c.departments...)
}

// Roles copia de la lista completa de roles más reciente.
func (c *Cache) Roles() []entity.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyRoles(c.roles)
}

// Users copia de los usuarios.
func (c *Cache) Users() []entity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]entity.User{}, c.users...)
}

// Version contador monotónico; aumenta con cada reemplazo de lista.
func (c *Cache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot copia de todas las listas bajo un mismo lock.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Branches:    append([]entity.Branch{}, c.branches...),
		Departments: append([]entity.Department{}, c.departments...),
		Roles:       copyRoles(c.roles),
		Users:       append([]entity.User{}, c.users...),
		Version:     c.version,
	}
}

// SetBranches reemplaza la lista de sucursales.
func (c *Cache) SetBranches(list []entity.Branch) {
	c.replace(KindBranches, func() { c.branches = append([]entity.Branch{}, list...) })
}

// SetDepartments reemplaza la lista de departamentos.
func (c *Cache) SetDepartments(list []entity.Department) {
	c.replace(KindDepartments, func() { c.departments = append([]entity.Department{}, list...) })
}

// SetRoles reemplaza la lista de roles.
func (c *Cache) SetRoles(list []entity.Role) {
	c.replace(KindRoles, func() { c.roles = copyRoles(list) })
}

// SetUsers reemplaza la lista de usuarios.
func (c *Cache) SetUsers(list []entity.User) {
	c.replace(KindUsers, func() { c.users = append([]entity.User{}, list...) })
}

func (c *Cache) replace(kind Kind, apply func()) {
	c.mu.Lock()
	apply()
	c.version++
	v := c.version
	c.mu.Unlock()
	c.notify(kind, v)
}

// Watch registra w; la función devuelta lo da de baja.
func (c *Cache) Watch(w Watcher) (cancel func()) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = w
	return func() {
		c.wmu.Lock()
		defer c.wmu.Unlock()
		delete(c.watchers, id)
	}
}

func (c *Cache) notify(kind Kind, version uint64) {
	c.wmu.Lock()
	list := make([]Watcher, 0, len(c.watchers))
	for _, w := range c.watchers {
		list = append(list, w)
	}
	c.wmu.Unlock()
	for _, w := range list {
		w(kind, version)
	}
}

// copyRoles copia profunda: Permissions es un mapa y no debe compartirse.
func copyRoles(in []entity.Role) []entity.Role {
	out := make([]entity.Role, len(in))
	for i, r := range in {
		out[i] = CopyRole(r)
	}
	return out
}

// CopyRole copia un rol sin compartir el mapa de permisos ni el puntero department_id.
func CopyRole(r entity.Role) entity.Role {
	if r.Permissions != nil {
		p := make(map[string]map[string]bool, len(r.Permissions))
		for mod, set := range r.Permissions {
			inner := make(map[string]bool, len(set))
			for k, v := range set {
				inner[k] = v
			}
			p[mod] = inner
		}
		r.Permissions = p
	}
	if r.DepartmentID != nil {
		ref := *r.DepartmentID
		r.DepartmentID = &ref
	}
	return r
}
