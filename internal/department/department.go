package department

import (
	"time"

	"github.com/google/uuid"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
)

type Department struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Code        *string    `json:"code,omitempty"`
	Settings    *string    `json:"settings,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func NewDepartment(name, description string, code, settings *string) *Department {
	return &Department{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Code:        code,
		Settings:    settings,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

func (d *Department) Touch() {
	now := time.Now().UTC()
	d.UpdatedAt = &now
}

func ToDataModel(d *Department) *departmentDatamodel.Department {
	return &departmentDatamodel.Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Code:        d.Code,
		Settings:    d.Settings,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Code:        d.Code,
		Settings:    d.Settings,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
