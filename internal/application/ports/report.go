package ports

import (
	"context"
	"time"

	"github.com/jhoicas/orgadmin-api/internal/domain/entity"
	"github.com/jhoicas/orgadmin-api/internal/domain/permission"
)

// PermissionReport datos ya resueltos para imprimir la matriz de un rol.
type PermissionReport struct {
	Role           entity.Role
	Matrix         permission.Matrix
	DepartmentName string
	BranchName     string
	GeneratedAt    time.Time
}

// PermissionReportGenerator puerto de salida para renderizar el reporte (PDF).
type PermissionReportGenerator interface {
	GeneratePermissionReport(ctx context.Context, r *PermissionReport) ([]byte, error)
}
