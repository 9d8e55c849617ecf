package permission

import (
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreatePermissionDTO struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

func (dto *CreatePermissionDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("name", dto.Name).Required().MaxLength(255)
	validator.Field("resource", dto.Resource).MaxLength(100)
	validator.Field("action", dto.Action).MaxLength(50)

	return validator.Validate()
}

type UpdatePermissionDTO struct {
	DisplayName *string `json:"display_name,omitempty"`
	Description *string `json:"description,omitempty"`
	Resource    *string `json:"resource,omitempty"`
	Action      *string `json:"action,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type PermissionsResponse struct {
	Permissions []*Permission `json:"permissions"`
}
