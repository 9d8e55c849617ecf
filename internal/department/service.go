package department

import (
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll() ([]*departmentDatamodel.Department, error)
	GetByID(id uuid.UUID) (*departmentDatamodel.Department, error)
	GetByCode(code string) (*departmentDatamodel.Department, error)
	Create(dept *departmentDatamodel.Department) error
	Update(dept *departmentDatamodel.Department) error
	Delete(id uuid.UUID) error
}

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

func (s *Service) GetAllDepartments() ([]*Department, error) {
	dataDepts, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, apperrors.NewInternalError("failed to list departments", err)
	}

	departments := make([]*Department, 0, len(dataDepts))
	for _, dataDept := range dataDepts {
		departments = append(departments, FromDataModel(dataDept))
	}

	return departments, nil
}

func (s *Service) GetDepartment(id uuid.UUID) (*Department, error) {
	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get department", "department_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get department", err)
	}
	if dataDept == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return FromDataModel(dataDept), nil
}

func (s *Service) CreateDepartment(dto *CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Code != nil {
		existing, err := s.repo.GetByCode(*dto.Code)
		if err != nil {
			s.logger.Error("failed to check department code", "code", *dto.Code, "error", err)
			return nil, apperrors.NewInternalError("failed to create department", err)
		}
		if existing != nil {
			return nil, apperrors.ErrDuplicateCode
		}
	}

	dept := NewDepartment(dto.Name, dto.Description, dto.Code, dto.Settings)
	if err := s.repo.Create(ToDataModel(dept)); err != nil {
		s.logger.Error("failed to create department", "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return dept, nil
}

func (s *Service) UpdateDepartment(id uuid.UUID, dto *UpdateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get department for update", "department_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update department", err)
	}
	if dataDept == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}

	dept := FromDataModel(dataDept)
	if dto.Name != nil {
		dept.Name = *dto.Name
	}
	if dto.Description != nil {
		dept.Description = *dto.Description
	}
	if dto.Code != nil {
		existing, err := s.repo.GetByCode(*dto.Code)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to update department", err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperrors.ErrDuplicateCode
		}
		dept.Code = dto.Code
	}
	if dto.Settings != nil {
		dept.Settings = dto.Settings
	}
	if dto.IsActive != nil {
		dept.IsActive = *dto.IsActive
	}
	dept.Touch()

	if err := s.repo.Update(ToDataModel(dept)); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update department", err)
	}

	s.logger.Info("department updated", "department_id", dept.ID)
	return dept, nil
}

func (s *Service) DeleteDepartment(id uuid.UUID) error {
	dataDept, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get department for delete", "department_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete department", err)
	}
	if dataDept == nil {
		return apperrors.ErrDepartmentNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}
