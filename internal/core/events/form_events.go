package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeFormCreated       = "form.created"
	EventTypeFormUpdated       = "form.updated"
	EventTypeFormDeleted       = "form.deleted"
	EventTypeSubmissionCreated = "form.submission.created"
)

// FormEvent carries a form lifecycle change plus the DTO the webhook
// subscribers forward to external endpoints.
type FormEvent struct {
	BaseEvent
	DepartmentID uuid.UUID   `json:"department_id"`
	FormID       uuid.UUID   `json:"form_id"`
	Detail       interface{} `json:"detail"`
}

func newFormEvent(eventType string, departmentID, formID uuid.UUID, detail interface{}) *FormEvent {
	return &FormEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"department_id": departmentID.String(),
				"form_id":       formID.String(),
			},
		},
		DepartmentID: departmentID,
		FormID:       formID,
		Detail:       detail,
	}
}

func NewFormCreatedEvent(departmentID, formID uuid.UUID, detail interface{}) *FormEvent {
	return newFormEvent(EventTypeFormCreated, departmentID, formID, detail)
}

func NewFormUpdatedEvent(departmentID, formID uuid.UUID, detail interface{}) *FormEvent {
	return newFormEvent(EventTypeFormUpdated, departmentID, formID, detail)
}

func NewFormDeletedEvent(departmentID, formID uuid.UUID, detail interface{}) *FormEvent {
	return newFormEvent(EventTypeFormDeleted, departmentID, formID, detail)
}

type SubmissionCreatedEvent struct {
	BaseEvent
	DepartmentID uuid.UUID   `json:"department_id"`
	FormID       uuid.UUID   `json:"form_id"`
	SubmissionID uuid.UUID   `json:"submission_id"`
	Detail       interface{} `json:"detail"`
}

func NewSubmissionCreatedEvent(departmentID, formID, submissionID uuid.UUID, detail interface{}) *SubmissionCreatedEvent {
	return &SubmissionCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSubmissionCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"department_id": departmentID.String(),
				"form_id":       formID.String(),
				"submission_id": submissionID.String(),
			},
		},
		DepartmentID: departmentID,
		FormID:       formID,
		SubmissionID: submissionID,
		Detail:       detail,
	}
}
