package webhook

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
)

type RepositoryAPI interface {
	GetDepartment(departmentID uuid.UUID) (*departmentDatamodel.Department, error)
	GetByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error)
	GetActiveByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error)
	GetByID(id uuid.UUID) (*webhookDatamodel.Endpoint, error)
	Create(endpoint *webhookDatamodel.Endpoint) error
	Update(endpoint *webhookDatamodel.Endpoint) error
	Delete(id uuid.UUID) error
}

// Service manages the per-department webhook endpoint registry.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetDepartmentEndpoints(departmentID uuid.UUID) ([]*Endpoint, error) {
	dataEndpoints, err := s.repo.GetByDepartment(departmentID)
	if err != nil {
		s.logger.Error("failed to get webhook endpoints", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list webhook endpoints", err)
	}

	endpoints := make([]*Endpoint, 0, len(dataEndpoints))
	for _, dataEndpoint := range dataEndpoints {
		endpoints = append(endpoints, FromDataModel(dataEndpoint))
	}

	return endpoints, nil
}

func (s *Service) GetEndpoint(id uuid.UUID) (*Endpoint, error) {
	dataEndpoint, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get webhook endpoint", "endpoint_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get webhook endpoint", err)
	}
	if dataEndpoint == nil {
		return nil, apperrors.ErrWebhookNotFound
	}
	return FromDataModel(dataEndpoint), nil
}

// CreateEndpoint registers an endpoint for an existing, active department.
func (s *Service) CreateEndpoint(departmentID uuid.UUID, dto *CreateEndpointDTO) (*Endpoint, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept, err := s.repo.GetDepartment(departmentID)
	if err != nil {
		s.logger.Error("failed to check department for webhook endpoint", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to create webhook endpoint", err)
	}
	if dept == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}
	if !dept.IsActive {
		return nil, apperrors.ErrDepartmentInactive
	}

	method := dto.Method
	if method == "" {
		method = http.MethodPost
	}

	endpoint := &Endpoint{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		URL:          dto.URL,
		Method:       method,
		Headers:      dto.Headers,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ToDataModel(endpoint)); err != nil {
		s.logger.Error("failed to create webhook endpoint", "department_id", departmentID, "url", dto.URL, "error", err)
		return nil, apperrors.NewInternalError("failed to create webhook endpoint", err)
	}

	s.logger.Info("webhook endpoint created", "endpoint_id", endpoint.ID, "department_id", departmentID, "url", endpoint.URL)
	return endpoint, nil
}

func (s *Service) UpdateEndpoint(id uuid.UUID, dto *UpdateEndpointDTO) (*Endpoint, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataEndpoint, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get webhook endpoint for update", "endpoint_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update webhook endpoint", err)
	}
	if dataEndpoint == nil {
		return nil, apperrors.ErrWebhookNotFound
	}

	endpoint := FromDataModel(dataEndpoint)
	if dto.URL != nil {
		endpoint.URL = *dto.URL
	}
	if dto.Method != nil {
		endpoint.Method = *dto.Method
	}
	if dto.Headers != nil {
		endpoint.Headers = dto.Headers
	}
	if dto.IsActive != nil {
		endpoint.IsActive = *dto.IsActive
	}
	endpoint.Touch()

	if err := s.repo.Update(ToDataModel(endpoint)); err != nil {
		s.logger.Error("failed to update webhook endpoint", "endpoint_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update webhook endpoint", err)
	}

	return endpoint, nil
}

func (s *Service) DeleteEndpoint(id uuid.UUID) error {
	dataEndpoint, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get webhook endpoint for delete", "endpoint_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete webhook endpoint", err)
	}
	if dataEndpoint == nil {
		return apperrors.ErrWebhookNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete webhook endpoint", "endpoint_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete webhook endpoint", err)
	}

	s.logger.Info("webhook endpoint deleted", "endpoint_id", id)
	return nil
}
