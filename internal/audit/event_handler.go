package audit

import (
	"context"
	"log/slog"

	"github.com/mustafakh994/forms-management/internal/core/events"
)

// EventHandler records form deletions published on the event bus so the
// audit trail survives the form row itself being gone.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeFormDeleted, h.handleFormDeleted)
}

func (h *EventHandler) handleFormDeleted(ctx context.Context, event events.Event) error {
	formEvent, ok := event.(*events.FormEvent)
	if !ok {
		h.logger.Warn("unexpected event payload for form event", "event_type", event.EventType())
		return nil
	}

	formID := formEvent.FormID
	h.service.Record(formEvent.DepartmentID, nil, ActionFormDeleted, "form", &formID, nil)
	return nil
}
