package permission

import (
	"time"

	"github.com/google/uuid"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
)

type Permission struct {
	ID           uuid.UUID `json:"id"`
	DepartmentID uuid.UUID `json:"department_id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Description  string    `json:"description"`
	Resource     string    `json:"resource"`
	Action       string    `json:"action"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPermission(departmentID uuid.UUID, name, displayName, description, resource, action string) *Permission {
	return &Permission{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		Name:         name,
		DisplayName:  displayName,
		Description:  description,
		Resource:     resource,
		Action:       action,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func ToDataModel(p *Permission) *permissionDatamodel.Permission {
	return &permissionDatamodel.Permission{
		ID:           p.ID,
		DepartmentID: p.DepartmentID,
		Name:         p.Name,
		DisplayName:  p.DisplayName,
		Description:  p.Description,
		Resource:     p.Resource,
		Action:       p.Action,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}

func FromDataModel(p *permissionDatamodel.Permission) *Permission {
	return &Permission{
		ID:           p.ID,
		DepartmentID: p.DepartmentID,
		Name:         p.Name,
		DisplayName:  p.DisplayName,
		Description:  p.Description,
		Resource:     p.Resource,
		Action:       p.Action,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
	}
}
