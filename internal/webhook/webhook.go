package webhook

import (
	"time"

	"github.com/google/uuid"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
)

type Endpoint struct {
	ID           uuid.UUID  `json:"id"`
	DepartmentID uuid.UUID  `json:"department_id"`
	URL          string     `json:"url"`
	Method       string     `json:"method"`
	Headers      *string    `json:"headers,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

func (e *Endpoint) Touch() {
	now := time.Now().UTC()
	e.UpdatedAt = &now
}

func ToDataModel(e *Endpoint) *webhookDatamodel.Endpoint {
	return &webhookDatamodel.Endpoint{
		ID:           e.ID,
		DepartmentID: e.DepartmentID,
		URL:          e.URL,
		Method:       e.Method,
		Headers:      e.Headers,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e *webhookDatamodel.Endpoint) *Endpoint {
	return &Endpoint{
		ID:           e.ID,
		DepartmentID: e.DepartmentID,
		URL:          e.URL,
		Method:       e.Method,
		Headers:      e.Headers,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
