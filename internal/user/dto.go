package user

import (
	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	RoleID   *uuid.UUID `json:"role_id,omitempty"`
	Profile  *string    `json:"profile,omitempty"`
}

func (dto *CreateUserDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("email", dto.Email).Required().Email()
	validator.Field("password", dto.Password).Required().MinLength(8)
	validator.Field("name", dto.Name).MaxLength(255)

	return validator.Validate()
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Profile  *string `json:"profile,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AssignRoleDTO struct {
	RoleID uuid.UUID `json:"role_id"`
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
