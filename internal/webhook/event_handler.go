package webhook

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/core/events"
)

// DispatcherAPI is implemented by Dispatcher.
type DispatcherAPI interface {
	Dispatch(departmentID uuid.UUID, eventType string, data interface{}) bool
}

// EventHandler bridges the internal event bus to webhook fan-out. Each form
// lifecycle event becomes one dispatch to the owning department's endpoints.
type EventHandler struct {
	dispatcher DispatcherAPI
	logger     *slog.Logger
}

func NewEventHandler(dispatcher DispatcherAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeFormCreated, h.handleFormEvent)
	bus.Subscribe(events.EventTypeFormUpdated, h.handleFormEvent)
	bus.Subscribe(events.EventTypeFormDeleted, h.handleFormEvent)
	bus.Subscribe(events.EventTypeSubmissionCreated, h.handleSubmissionEvent)
}

func (h *EventHandler) handleFormEvent(ctx context.Context, event events.Event) error {
	formEvent, ok := event.(*events.FormEvent)
	if !ok {
		h.logger.Warn("unexpected event payload for form event", "event_type", event.EventType())
		return nil
	}

	if !h.dispatcher.Dispatch(formEvent.DepartmentID, formEvent.EventType(), formEvent.Detail) {
		h.logger.Error("webhook fan-out could not start",
			"event_type", formEvent.EventType(),
			"department_id", formEvent.DepartmentID,
			"form_id", formEvent.FormID)
	}
	return nil
}

func (h *EventHandler) handleSubmissionEvent(ctx context.Context, event events.Event) error {
	submissionEvent, ok := event.(*events.SubmissionCreatedEvent)
	if !ok {
		h.logger.Warn("unexpected event payload for submission event", "event_type", event.EventType())
		return nil
	}

	if !h.dispatcher.Dispatch(submissionEvent.DepartmentID, submissionEvent.EventType(), submissionEvent.Detail) {
		h.logger.Error("webhook fan-out could not start",
			"event_type", submissionEvent.EventType(),
			"department_id", submissionEvent.DepartmentID,
			"form_id", submissionEvent.FormID,
			"submission_id", submissionEvent.SubmissionID)
	}
	return nil
}
