package permission

import (
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
)

type RepositoryAPI interface {
	GetByDepartment(departmentID uuid.UUID, limit, offset int) ([]*permissionDatamodel.Permission, error)
	GetByID(id uuid.UUID) (*permissionDatamodel.Permission, error)
	GetByName(departmentID uuid.UUID, name string) (*permissionDatamodel.Permission, error)
	Create(perm *permissionDatamodel.Permission) error
	Update(perm *permissionDatamodel.Permission) error
	Delete(id uuid.UUID) error
	IsReferenced(id uuid.UUID) (bool, error)
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

// GetDepartmentPermissions returns one page of the department's permissions,
// ordered by name.
func (s *Service) GetDepartmentPermissions(departmentID uuid.UUID, limit, offset int) ([]*Permission, error) {
	dataPerms, err := s.repo.GetByDepartment(departmentID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get permissions from repository", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list permissions", err)
	}

	permissions := make([]*Permission, 0, len(dataPerms))
	for _, dataPerm := range dataPerms {
		permissions = append(permissions, FromDataModel(dataPerm))
	}

	return permissions, nil
}

func (s *Service) GetPermission(id uuid.UUID) (*Permission, error) {
	dataPerm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission", "permission_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get permission", err)
	}
	if dataPerm == nil {
		return nil, apperrors.ErrPermissionNotFound
	}
	return FromDataModel(dataPerm), nil
}

func (s *Service) CreatePermission(departmentID uuid.UUID, dto *CreatePermissionDTO) (*Permission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(departmentID, dto.Name)
	if err != nil {
		s.logger.Error("failed to check permission name", "department_id", departmentID, "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create permission", err)
	}
	if existing != nil {
		return nil, apperrors.ErrPermissionNameExists
	}

	perm := NewPermission(departmentID, dto.Name, dto.DisplayName, dto.Description, dto.Resource, dto.Action)
	if err := s.repo.Create(ToDataModel(perm)); err != nil {
		s.logger.Error("failed to create permission", "department_id", departmentID, "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create permission", err)
	}

	s.logger.Info("permission created", "permission_id", perm.ID, "department_id", departmentID, "name", perm.Name)
	return perm, nil
}

func (s *Service) UpdatePermission(id uuid.UUID, dto *UpdatePermissionDTO) (*Permission, error) {
	dataPerm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission for update", "permission_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update permission", err)
	}
	if dataPerm == nil {
		return nil, apperrors.ErrPermissionNotFound
	}

	perm := FromDataModel(dataPerm)
	if dto.DisplayName != nil {
		perm.DisplayName = *dto.DisplayName
	}
	if dto.Description != nil {
		perm.Description = *dto.Description
	}
	if dto.Resource != nil {
		perm.Resource = *dto.Resource
	}
	if dto.Action != nil {
		perm.Action = *dto.Action
	}
	if dto.IsActive != nil {
		perm.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ToDataModel(perm)); err != nil {
		s.logger.Error("failed to update permission", "permission_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update permission", err)
	}

	return perm, nil
}

func (s *Service) DeletePermission(id uuid.UUID) error {
	dataPerm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get permission for delete", "permission_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete permission", err)
	}
	if dataPerm == nil {
		return apperrors.ErrPermissionNotFound
	}

	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		s.logger.Error("failed to check permission references", "permission_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete permission", err)
	}
	if referenced {
		return apperrors.ErrPermissionInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete permission", "permission_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete permission", err)
	}

	s.logger.Info("permission deleted", "permission_id", id)
	return nil
}
