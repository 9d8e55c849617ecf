package form

import (
	"time"

	"github.com/google/uuid"
	formDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/form"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

type Form struct {
	ID           uuid.UUID  `json:"id"`
	DepartmentID uuid.UUID  `json:"department_id"`
	Name         string     `json:"name"`
	Code         string     `json:"code,omitempty"`
	Title        string     `json:"title,omitempty"`
	Description  string     `json:"description,omitempty"`
	FormSchema   *string    `json:"form_schema,omitempty"`
	Settings     *string    `json:"settings,omitempty"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	Version      int        `json:"version"`
	Status       string     `json:"status"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (f *Form) Touch() {
	now := time.Now().UTC()
	f.UpdatedAt = &now
}

// AcceptsSubmissions reports whether the form can currently take entries.
func (f *Form) AcceptsSubmissions() bool {
	return f.IsActive && f.Status != StatusArchived
}

type Submission struct {
	ID             uuid.UUID  `json:"id"`
	FormID         uuid.UUID  `json:"form_id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	SubmissionData string     `json:"submission_data"`
	IPAddress      string     `json:"ip_address,omitempty"`
	UserAgent      string     `json:"user_agent,omitempty"`
	SubmittedAt    time.Time  `json:"submitted_at"`
}

type SchemaVersion struct {
	ID            uuid.UUID  `json:"id"`
	FormID        uuid.UUID  `json:"form_id"`
	VersionNumber int        `json:"version_number"`
	SchemaData    string     `json:"schema_data"`
	CreatedBy     *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToDataModel(f *Form) *formDatamodel.Form {
	return &formDatamodel.Form{
		ID:           f.ID,
		DepartmentID: f.DepartmentID,
		Name:         f.Name,
		Code:         f.Code,
		Title:        f.Title,
		Description:  f.Description,
		FormSchema:   f.FormSchema,
		Settings:     f.Settings,
		CreatedBy:    f.CreatedBy,
		Version:      f.Version,
		Status:       f.Status,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func FromDataModel(f *formDatamodel.Form) *Form {
	return &Form{
		ID:           f.ID,
		DepartmentID: f.DepartmentID,
		Name:         f.Name,
		Code:         f.Code,
		Title:        f.Title,
		Description:  f.Description,
		FormSchema:   f.FormSchema,
		Settings:     f.Settings,
		CreatedBy:    f.CreatedBy,
		Version:      f.Version,
		Status:       f.Status,
		IsActive:     f.IsActive,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func SubmissionFromDataModel(s *formDatamodel.FormSubmission) *Submission {
	return &Submission{
		ID:             s.ID,
		FormID:         s.FormID,
		UserID:         s.UserID,
		SubmissionData: s.SubmissionData,
		IPAddress:      s.IPAddress,
		UserAgent:      s.UserAgent,
		SubmittedAt:    s.SubmittedAt,
	}
}

func SchemaVersionFromDataModel(v *formDatamodel.FormSchemaVersion) *SchemaVersion {
	return &SchemaVersion{
		ID:            v.ID,
		FormID:        v.FormID,
		VersionNumber: v.VersionNumber,
		SchemaData:    v.SchemaData,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}
