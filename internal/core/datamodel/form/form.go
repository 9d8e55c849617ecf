package form

import (
	"time"

	"github.com/google/uuid"
)

type Form struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DepartmentID uuid.UUID  `gorm:"column:department_id;type:uuid;not null"`
	Name         string     `gorm:"column:name;not null"`
	Code         string     `gorm:"column:code"`
	Title        string     `gorm:"column:title"`
	Description  string     `gorm:"column:description"`
	FormSchema   *string    `gorm:"column:form_schema;type:jsonb"`
	Settings     *string    `gorm:"column:settings;type:jsonb"`
	CreatedBy    *uuid.UUID `gorm:"column:created_by;type:uuid"`
	Version      int        `gorm:"column:version;default:1"`
	Status       string     `gorm:"column:status"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

type FormSubmission struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FormID         uuid.UUID  `gorm:"column:form_id;type:uuid;not null"`
	UserID         *uuid.UUID `gorm:"column:user_id;type:uuid"`
	SubmissionData string     `gorm:"column:submission_data;type:jsonb;not null"`
	IPAddress      string     `gorm:"column:ip_address"`
	UserAgent      string     `gorm:"column:user_agent"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at;autoCreateTime"`
}

func (FormSubmission) TableName() string {
	return "form_submissions"
}

// FormPermission is a direct grant further scoped to one form, unique per
// (form, user, permission) tuple.
type FormPermission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FormID       uuid.UUID `gorm:"column:form_id;type:uuid;not null;uniqueIndex:idx_form_permissions_tuple"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_form_permissions_tuple"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;not null;uniqueIndex:idx_form_permissions_tuple"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FormPermission) TableName() string {
	return "form_permissions"
}

// FormSchemaVersion archives a form's schema each time it is replaced.
type FormSchemaVersion struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	FormID        uuid.UUID  `gorm:"column:form_id;type:uuid;not null"`
	VersionNumber int        `gorm:"column:version_number;not null"`
	SchemaData    string     `gorm:"column:schema_data;type:jsonb;not null"`
	CreatedBy     *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (FormSchemaVersion) TableName() string {
	return "form_schema_versions"
}
