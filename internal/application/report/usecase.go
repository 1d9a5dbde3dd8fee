// Package report arma el reporte de la matriz de permisos de un rol.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/orgadmin-api/internal/application/ports"
	"github.com/jhoicas/orgadmin-api/internal/application/refdata"
	"github.com/jhoicas/orgadmin-api/internal/domain"
	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
)

// UseCase genera el reporte de permisos a partir de las listas de referencia de la sesión.
type UseCase struct {
	scopes refdata.Scopes
	gen    ports.PermissionReportGenerator
	log    zerolog.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(scopes refdata.Scopes, gen ports.PermissionReportGenerator, log zerolog.Logger) *UseCase {
	return &UseCase{scopes: scopes, gen: gen, log: log, now: time.Now}
}

// RolePermissionsPDF devuelve el PDF del rol y un nombre de archivo sugerido.
// Usa la caché de la sesión en ctx; si el rol no está se refresca la lista de roles
// una vez con el token de esa sesión.
func (uc *UseCase) RolePermissionsPDF(ctx context.Context, roleID int64) ([]byte, string, error) {
	sync := uc.scopes.For(ports.SessionIDFrom(ctx))
	cache := sync.Cache()
	role, ok := findRole(cache.Roles(), roleID)
	if !ok {
		if err := sync.RefreshRoles(ctx); err != nil {
			return nil, "", err
		}
		if role, ok = findRole(cache.Roles(), roleID); !ok {
			return nil, "", fmt.Errorf("rol %d: %w", roleID, domain.ErrNotFound)
		}
	}

	rep := &ports.PermissionReport{
		Role:           role,
		Matrix:         role.Matrix(),
		DepartmentName: departmentName(cache.Departments(), role),
		BranchName:     branchName(cache.Branches(), role),
		GeneratedAt:    uc.now(),
	}
	out, err := uc.gen.GeneratePermissionReport(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar PDF: %w", err)
	}
	uc.log.Debug().Int64("role_id", roleID).Int("bytes", len(out)).Msg("reporte de permisos generado")
	return out, fileName(role), nil
}

func findRole(roles []entity.Role, id int64) (entity.Role, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return entity.Role{}, false
}

func departmentName(list []entity.Department, r entity.Role) string {
	id := r.DepartmentRef()
	for _, d := range list {
		if d.ID == id {
			return d.DepartmentName
		}
	}
	return r.DepartmentName
}

func branchName(list []entity.Branch, r entity.Role) string {
	for _, b := range list {
		if b.ID == r.Branch.ID {
			return b.Name
		}
	}
	return r.BranchName
}

// fileName "role-12-sales-lead.pdf".
func fileName(r entity.Role) string {
	slug := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(r.Role))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fmt.Sprintf("role-%d.pdf", r.ID)
	}
	return fmt.Sprintf("role-%d-%s.pdf", r.ID, slug)
}
