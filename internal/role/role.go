package role

import (
	"time"

	"github.com/google/uuid"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	"github.com/mustafakh994/forms-management/internal/permission"
)

type Role struct {
	ID           uuid.UUID  `json:"id"`
	DepartmentID uuid.UUID  `json:"department_id"`
	Name         string     `json:"name"`
	DisplayName  string     `json:"display_name"`
	Description  string     `json:"description"`
	IsSystemRole bool       `json:"is_system_role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Permissions is populated on detail reads, nil on listings.
	Permissions []*permission.Permission `json:"permissions,omitempty"`
}

func NewRole(departmentID uuid.UUID, name, displayName, description string) *Role {
	return &Role{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		Name:         name,
		DisplayName:  displayName,
		Description:  description,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func (r *Role) Touch() {
	now := time.Now().UTC()
	r.UpdatedAt = &now
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:           r.ID,
		DepartmentID: r.DepartmentID,
		Name:         r.Name,
		DisplayName:  r.DisplayName,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	return &Role{
		ID:           r.ID,
		DepartmentID: r.DepartmentID,
		Name:         r.Name,
		DisplayName:  r.DisplayName,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
