package dto

import "github.com/jhoicas/orgadmin-api/internal/domain/entity"

// ReferenceResponse listas de referencia vigentes para los selectores.
type ReferenceResponse struct {
	Branches    []entity.Branch     `json:"branches"`
	Departments []entity.Department `json:"departments"`
	Roles       []entity.Role       `json:"roles"`
	Users       []entity.User       `json:"users"`
	Version     uint64              `json:"version"`
	// OrphanRoleIDs roles cuyo departamento no está en la lista; no aparecen en los selectores.
	OrphanRoleIDs []int64 `json:"orphan_role_ids,omitempty"`
}
