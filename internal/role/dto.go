package role

import (
	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

func (dto *CreateRoleDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("name", dto.Name).Required().MaxLength(255)

	return validator.Validate()
}

type UpdateRoleDTO struct {
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type AssignPermissionsDTO struct {
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}
