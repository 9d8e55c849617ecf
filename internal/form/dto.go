package form

import (
	"encoding/json"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreateFormDTO struct {
	Name        string  `json:"name"`
	Code        string  `json:"code,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	FormSchema  *string `json:"form_schema,omitempty"`
	Settings    *string `json:"settings,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (dto *CreateFormDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("name", dto.Name).Required().MaxLength(255)
	if dto.Status != "" {
		validator.Field("status", dto.Status).OneOf(StatusDraft, StatusPublished, StatusArchived)
	}
	if dto.FormSchema != nil {
		validator.Field("form_schema", *dto.FormSchema).Custom(validJSONDocument("form_schema"))
	}

	return validator.Validate()
}

type UpdateFormDTO struct {
	Name        *string `json:"name,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	FormSchema  *string `json:"form_schema,omitempty"`
	Settings    *string `json:"settings,omitempty"`
	Status      *string `json:"status,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (dto *UpdateFormDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	if dto.Name != nil {
		validator.Field("name", *dto.Name).Required().MaxLength(255)
	}
	if dto.Status != nil {
		validator.Field("status", *dto.Status).OneOf(StatusDraft, StatusPublished, StatusArchived)
	}
	if dto.FormSchema != nil {
		validator.Field("form_schema", *dto.FormSchema).Custom(validJSONDocument("form_schema"))
	}

	return validator.Validate()
}

type SubmitFormDTO struct {
	SubmissionData json.RawMessage `json:"submission_data"`
}

func (dto *SubmitFormDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("submission_data", string(dto.SubmissionData)).Required().Custom(validJSONDocument("submission_data"))

	return validator.Validate()
}

type GrantFormPermissionDTO struct {
	UserID       uuid.UUID `json:"user_id"`
	PermissionID uuid.UUID `json:"permission_id"`
}

type FormsResponse struct {
	Forms []*Form `json:"forms"`
}

type SubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
}

type SchemaVersionsResponse struct {
	Versions []*SchemaVersion `json:"versions"`
}

func validJSONDocument(field string) func(interface{}) *apperrors.AppError {
	return func(value interface{}) *apperrors.AppError {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		if !json.Valid([]byte(s)) {
			return apperrors.NewValidationFieldError(field, field+" must be valid JSON", apperrors.ErrCodeValidationFailed)
		}
		return nil
	}
}
