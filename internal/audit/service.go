package audit

import (
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	auditDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/audit"
)

type StoreAPI interface {
	Insert(log *auditDatamodel.Log) error
	ListByDepartment(departmentID uuid.UUID, limit, offset int) ([]*auditDatamodel.Log, error)
}

// Service records who changed what. Recording is best effort; a failed
// audit write is logged and never fails the operation being audited.
type Service struct {
	store  StoreAPI
	logger *slog.Logger
}

func NewService(store StoreAPI, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

func (s *Service) Record(departmentID uuid.UUID, userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details *string) {
	entry := &auditDatamodel.Log{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	if err := s.store.Insert(entry); err != nil {
		s.logger.Error("failed to record audit entry",
			"department_id", departmentID,
			"action", action,
			"resource_type", resourceType,
			"error", err)
	}
}

func (s *Service) List(departmentID uuid.UUID, limit, offset int) ([]*Entry, error) {
	rows, err := s.store.ListByDepartment(departmentID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list audit entries", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list audit entries", err)
	}

	entries := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}
