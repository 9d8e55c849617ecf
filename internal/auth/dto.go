package auth

import (
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("email", d.Email).Required().Email()
	validator.Field("password", d.Password).Required()

	return validator.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("refresh_token", d.RefreshToken).Required()

	return validator.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d *ChangePasswordDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("current_password", d.CurrentPassword).Required()
	validator.Field("new_password", d.NewPassword).Required().MinLength(8)

	return validator.Validate()
}
