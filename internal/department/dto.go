package department

import (
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Code        *string `json:"code,omitempty"`
	Settings    *string `json:"settings,omitempty"`
}

func (dto *CreateDepartmentDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("name", dto.Name).Required().MaxLength(255)
	if dto.Code != nil {
		validator.Field("code", *dto.Code).Required().MaxLength(50)
	}

	return validator.Validate()
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Code        *string `json:"code,omitempty"`
	Settings    *string `json:"settings,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (dto *UpdateDepartmentDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	if dto.Name != nil {
		validator.Field("name", *dto.Name).Required().MaxLength(255)
	}
	if dto.Code != nil {
		validator.Field("code", *dto.Code).Required().MaxLength(50)
	}

	return validator.Validate()
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}
