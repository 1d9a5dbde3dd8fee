package refdata

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/repository"
)

// Synchronizer re-obtiene listas completas del API y las publica en la Cache.
// Nunca parchea estado local: tras una mutación se vuelve a leer la fuente.
// No reintenta: cada fallo es terminal para ese intento.
type Synchronizer struct {
	branches    repository.BranchRepository
	departments repository.DepartmentRepository
	roles       repository.RoleRepository
	users       repository.UserRepository
	cache       *Cache
	log         zerolog.Logger
}

// NewSynchronizer construye el sincronizador.
func NewSynchronizer(
	branches repository.BranchRepository,
	departments repository.DepartmentRepository,
	roles repository.RoleRepository,
	users repository.UserRepository,
	cache *Cache,
	log zerolog.Logger,
) *Synchronizer {
	return &Synchronizer{
		branches:    branches,
		departments: departments,
		roles:       roles,
		users:       users,
		cache:       cache,
		log:         log,
	}
}

// Cache devuelve la caché que alimenta este sincronizador.
func (s *Synchronizer) Cache() *Cache { return s.cache }

// LoadAll carga las cuatro listas en paralelo y espera a todas. Si alguna falla
// se devuelve el error, pero las que ya terminaron quedan aplicadas.
func (s *Synchronizer) LoadAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.RefreshBranches(gctx) })
	g.Go(func() error { return s.RefreshDepartments(gctx) })
	g.Go(func() error { return s.RefreshRoles(gctx) })
	g.Go(func() error { return s.RefreshUsers(gctx) })
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("refdata: carga inicial incompleta")
		return err
	}
	return nil
}

// Refresh re-sincroniza las listas indicadas, en orden.
func (s *Synchronizer) Refresh(ctx context.Context, kinds ...Kind) error {
	for _, k := range kinds {
		var err error
		switch k {
		case KindBranches:
			err = s.RefreshBranches(ctx)
		case KindDepartments:
			err = s.RefreshDepartments(ctx)
		case KindRoles:
			err = s.RefreshRoles(ctx)
		case KindUsers:
			err = s.RefreshUsers(ctx)
		default:
			err = fmt.Errorf("refdata: lista desconocida %q", k)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RefreshBranches GET /branches/.
func (s *Synchronizer) RefreshBranches(ctx context.Context) error {
	list, err := s.branches.List(ctx)
	if err != nil {
		return fmt.Errorf("refdata: branches: %w", err)
	}
	s.cache.SetBranches(list)
	return nil
}

// RefreshDepartments agrega todas las páginas hasta total_pages; cada página se pide
// una sola vez. La caché solo se reemplaza con la lista completa, nunca con una página parcial.
func (s *Synchronizer) RefreshDepartments(ctx context.Context) error {
	first, err := s.departments.ListPage(ctx, 1)
	if err != nil {
		return fmt.Errorf("refdata: departments página 1: %w", err)
	}
	all := append([]entity.Department{}, first.Departments...)
	for page := 2; page <= first.TotalPages; page++ {
		next, err := s.departments.ListPage(ctx, page)
		if err != nil {
			return fmt.Errorf("refdata: departments página %d: %w", page, err)
		}
		all = append(all, next.Departments...)
	}
	s.cache.SetDepartments(all)
	s.log.Debug().Int("pages", max(first.TotalPages, 1)).Int("count", len(all)).Msg("refdata: departamentos agregados")
	return nil
}

// RefreshRoles GET /roles/ (lista completa).
func (s *Synchronizer) RefreshRoles(ctx context.Context) error {
	list, err := s.roles.List(ctx, repository.RoleQuery{})
	if err != nil {
		return fmt.Errorf("refdata: roles: %w", err)
	}
	s.cache.SetRoles(list)
	return nil
}

// RefreshUsers GET /users/.
func (s *Synchronizer) RefreshUsers(ctx context.Context) error {
	list, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("refdata: users: %w", err)
	}
	s.cache.SetUsers(list)
	return nil
}

// RolesOfDepartment GET /roles/?department=id, siempre fresco. Sin id → lista vacía sin llamar al API.
func (s *Synchronizer) RolesOfDepartment(ctx context.Context, departmentID int64) ([]entity.Role, error) {
	if departmentID == 0 {
		return []entity.Role{}, nil
	}
	list, err := s.roles.List(ctx, repository.RoleQuery{DepartmentID: departmentID})
	if err != nil {
		return nil, fmt.Errorf("refdata: roles del departamento %d: %w", departmentID, err)
	}
	return list, nil
}

// SampleRoles GET /roles/?page=1&per_page=n: vista previa acotada para el modo creación.
func (s *Synchronizer) SampleRoles(ctx context.Context, n int) ([]entity.Role, error) {
	if n <= 0 {
		return []entity.Role{}, nil
	}
	list, err := s.roles.List(ctx, repository.RoleQuery{Page: 1, PerPage: n})
	if err != nil {
		return nil, fmt.Errorf("refdata: muestra de roles: %w", err)
	}
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}
