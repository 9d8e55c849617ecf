package role

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/audit"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	"github.com/mustafakh994/forms-management/internal/permission"
)

type RepositoryAPI interface {
	GetByDepartment(departmentID uuid.UUID) ([]*roleDatamodel.Role, error)
	GetByID(id uuid.UUID) (*roleDatamodel.Role, error)
	GetByName(departmentID uuid.UUID, name string) (*roleDatamodel.Role, error)
	Create(role *roleDatamodel.Role) error
	Update(role *roleDatamodel.Role) error
	// DeleteWithUnassign removes the role, its permission assignments and
	// clears role_id on every user holding it, all in one transaction.
	DeleteWithUnassign(id uuid.UUID) error
	GetPermissions(roleID uuid.UUID) ([]*permissionDatamodel.Permission, error)
	CountPermissionsInDepartment(departmentID uuid.UUID, permissionIDs []uuid.UUID) (int64, error)
	// ReplacePermissions swaps the role's permission set atomically. Either
	// the whole new set lands or the previous set survives untouched.
	ReplacePermissions(roleID uuid.UUID, permissionIDs []uuid.UUID) error
}

// AuditRecorder is satisfied by the audit service. A nil recorder disables
// audit recording.
type AuditRecorder interface {
	Record(departmentID uuid.UUID, userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details *string)
}

type Service struct {
	repo   RepositoryAPI
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger,
	}
}

func (s *Service) GetDepartmentRoles(departmentID uuid.UUID) ([]*Role, error) {
	dataRoles, err := s.repo.GetByDepartment(departmentID)
	if err != nil {
		s.logger.Error("failed to get roles from repository", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list roles", err)
	}

	roles := make([]*Role, 0, len(dataRoles))
	for _, dataRole := range dataRoles {
		roles = append(roles, FromDataModel(dataRole))
	}

	return roles, nil
}

func (s *Service) GetRole(id uuid.UUID) (*Role, error) {
	dataRole, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get role", "role_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get role", err)
	}
	if dataRole == nil {
		return nil, apperrors.ErrRoleNotFound
	}

	role := FromDataModel(dataRole)

	dataPerms, err := s.repo.GetPermissions(id)
	if err != nil {
		s.logger.Error("failed to get role permissions", "role_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get role", err)
	}
	role.Permissions = make([]*permission.Permission, 0, len(dataPerms))
	for _, dataPerm := range dataPerms {
		role.Permissions = append(role.Permissions, permission.FromDataModel(dataPerm))
	}

	return role, nil
}

func (s *Service) CreateRole(departmentID uuid.UUID, dto *CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(departmentID, dto.Name)
	if err != nil {
		s.logger.Error("failed to check role name", "department_id", departmentID, "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create role", err)
	}
	if existing != nil {
		return nil, apperrors.ErrRoleNameExists
	}

	role := NewRole(departmentID, dto.Name, dto.DisplayName, dto.Description)
	if err := s.repo.Create(ToDataModel(role)); err != nil {
		s.logger.Error("failed to create role", "department_id", departmentID, "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create role", err)
	}

	s.logger.Info("role created", "role_id", role.ID, "department_id", departmentID, "name", role.Name)
	return role, nil
}

func (s *Service) UpdateRole(id uuid.UUID, dto *UpdateRoleDTO) (*Role, error) {
	dataRole, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get role for update", "role_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update role", err)
	}
	if dataRole == nil {
		return nil, apperrors.ErrRoleNotFound
	}
	if dataRole.IsSystemRole {
		return nil, apperrors.ErrSystemRole
	}

	role := FromDataModel(dataRole)
	if dto.DisplayName != nil {
		role.DisplayName = *dto.DisplayName
	}
	if dto.Description != nil {
		role.Description = *dto.Description
	}
	if dto.IsActive != nil {
		role.IsActive = *dto.IsActive
	}
	role.Touch()

	if err := s.repo.Update(ToDataModel(role)); err != nil {
		s.logger.Error("failed to update role", "role_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update role", err)
	}

	return role, nil
}

func (s *Service) DeleteRole(id uuid.UUID) error {
	dataRole, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get role for delete", "role_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete role", err)
	}
	if dataRole == nil {
		return apperrors.ErrRoleNotFound
	}
	if dataRole.IsSystemRole {
		return apperrors.ErrSystemRole
	}

	if err := s.repo.DeleteWithUnassign(id); err != nil {
		s.logger.Error("failed to delete role", "role_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete role", err)
	}

	s.logger.Info("role deleted", "role_id", id)
	return nil
}

// AssignPermissions replaces the role's permission set with the given IDs.
// Every ID must name a permission in the role's own department; any unknown
// or foreign ID rejects the whole request and leaves the current set intact.
func (s *Service) AssignPermissions(roleID uuid.UUID, dto *AssignPermissionsDTO) (*Role, error) {
	dataRole, err := s.repo.GetByID(roleID)
	if err != nil {
		s.logger.Error("failed to get role for permission assignment", "role_id", roleID, "error", err)
		return nil, apperrors.NewInternalError("failed to assign permissions", err)
	}
	if dataRole == nil {
		return nil, apperrors.ErrRoleNotFound
	}

	ids := dedupeIDs(dto.PermissionIDs)

	if len(ids) > 0 {
		count, err := s.repo.CountPermissionsInDepartment(dataRole.DepartmentID, ids)
		if err != nil {
			s.logger.Error("failed to verify permission IDs", "role_id", roleID, "error", err)
			return nil, apperrors.NewInternalError("failed to assign permissions", err)
		}
		if count != int64(len(ids)) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%d of %d permission IDs do not exist in this department", int64(len(ids))-count, len(ids)),
				apperrors.ErrCodeUnknownPermID)
		}
	}

	if err := s.repo.ReplacePermissions(roleID, ids); err != nil {
		s.logger.Error("failed to replace role permissions", "role_id", roleID, "error", err)
		return nil, apperrors.NewInternalError("failed to assign permissions", err)
	}

	if s.audit != nil {
		details := fmt.Sprintf("permission set replaced with %d permissions", len(ids))
		s.audit.Record(dataRole.DepartmentID, nil, audit.ActionRolePermissionSet, "role", &roleID, &details)
	}

	s.logger.Info("role permissions assigned", "role_id", roleID, "permission_count", len(ids))
	return s.GetRole(roleID)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
