package access

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/audit"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	GetUser(userID uuid.UUID) (*userDatamodel.User, error)
	GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error)
	GetPermission(permissionID uuid.UUID) (*permissionDatamodel.Permission, error)
	GetRolePermissions(roleID uuid.UUID) ([]*permissionDatamodel.Permission, error)
	GetDirectPermissions(userID uuid.UUID) ([]*permissionDatamodel.Permission, error)
	GetDirectGrants(userID uuid.UUID) ([]*userDatamodel.UserPermission, error)
	HasDirectGrant(userID, permissionID uuid.UUID) (bool, error)
	CreateGrant(grant *userDatamodel.UserPermission) error
	// DeleteGrant reports whether a row was actually removed.
	DeleteGrant(userID, permissionID uuid.UUID) (bool, error)
	GetFormPermissions(userID, formID uuid.UUID) ([]*permissionDatamodel.Permission, error)
}

// AuditRecorder is satisfied by the audit service. A nil recorder disables
// audit recording.
type AuditRecorder interface {
	Record(departmentID uuid.UUID, userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details *string)
}

// Service resolves what a user may do. The effective set is the union of
// permissions carried by the user's role and permissions granted directly,
// deduplicated by permission ID with the role source winning.
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

func (s *Service) ListEffectivePermissions(userID uuid.UUID) ([]*EffectivePermission, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		s.logger.Error("failed to get user for permission resolution", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to resolve permissions", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	seen := make(map[uuid.UUID]struct{})
	effective := make([]*EffectivePermission, 0)

	if user.RoleID != nil {
		role, err := s.repo.GetRole(*user.RoleID)
		if err != nil {
			s.logger.Error("failed to get role for permission resolution", "user_id", userID, "role_id", *user.RoleID, "error", err)
			return nil, apperrors.NewInternalError("failed to resolve permissions", err)
		}
		// A missing or deactivated role contributes nothing.
		if role != nil && role.IsActive {
			rolePerms, err := s.repo.GetRolePermissions(*user.RoleID)
			if err != nil {
				s.logger.Error("failed to get role permissions", "user_id", userID, "role_id", *user.RoleID, "error", err)
				return nil, apperrors.NewInternalError("failed to resolve permissions", err)
			}
			for _, perm := range rolePerms {
				if !perm.IsActive {
					continue
				}
				seen[perm.ID] = struct{}{}
				effective = append(effective, toEffective(perm, SourceRole))
			}
		}
	}

	directPerms, err := s.repo.GetDirectPermissions(userID)
	if err != nil {
		s.logger.Error("failed to get direct permissions", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to resolve permissions", err)
	}
	for _, perm := range directPerms {
		if !perm.IsActive {
			continue
		}
		if _, ok := seen[perm.ID]; ok {
			continue
		}
		seen[perm.ID] = struct{}{}
		effective = append(effective, toEffective(perm, SourceDirect))
	}

	return effective, nil
}

// HasPermission reports whether the user holds the named permission through
// any source. Super admins hold every permission.
func (s *Service) HasPermission(userID uuid.UUID, permissionName string) (bool, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		s.logger.Error("failed to get user for permission check", "user_id", userID, "error", err)
		return false, apperrors.NewInternalError("failed to check permission", err)
	}
	if user == nil {
		return false, apperrors.ErrUserNotFound
	}
	if user.IsSuperAdmin {
		return true, nil
	}
	if !user.IsActive {
		return false, nil
	}

	effective, err := s.ListEffectivePermissions(userID)
	if err != nil {
		return false, err
	}
	for _, perm := range effective {
		if perm.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

// HasFormPermission checks the named permission against the user's effective
// set plus any grants scoped to the specific form.
func (s *Service) HasFormPermission(userID, formID uuid.UUID, permissionName string) (bool, error) {
	ok, err := s.HasPermission(userID, permissionName)
	if err != nil || ok {
		return ok, err
	}

	formPerms, err := s.repo.GetFormPermissions(userID, formID)
	if err != nil {
		s.logger.Error("failed to get form permissions", "user_id", userID, "form_id", formID, "error", err)
		return false, apperrors.NewInternalError("failed to check permission", err)
	}
	for _, perm := range formPerms {
		if perm.IsActive && perm.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

// GrantDirect attaches a permission straight to a user. Granting a
// permission the user already holds directly is a conflict; the unique
// index on (user_id, permission_id) backs the pre-check under concurrency.
func (s *Service) GrantDirect(userID, permissionID uuid.UUID, grantedBy *uuid.UUID) error {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		s.logger.Error("failed to get user for grant", "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to grant permission", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	perm, err := s.repo.GetPermission(permissionID)
	if err != nil {
		s.logger.Error("failed to get permission for grant", "permission_id", permissionID, "error", err)
		return apperrors.NewInternalError("failed to grant permission", err)
	}
	if perm == nil {
		return apperrors.ErrPermissionNotFound
	}

	exists, err := s.repo.HasDirectGrant(userID, permissionID)
	if err != nil {
		s.logger.Error("failed to check existing grant", "user_id", userID, "permission_id", permissionID, "error", err)
		return apperrors.NewInternalError("failed to grant permission", err)
	}
	if exists {
		return apperrors.ErrAlreadyGranted
	}

	grant := &userDatamodel.UserPermission{
		ID:           uuid.New(),
		UserID:       userID,
		PermissionID: permissionID,
		GrantedBy:    grantedBy,
	}
	if err := s.repo.CreateGrant(grant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadyGranted
		}
		s.logger.Error("failed to create grant", "user_id", userID, "permission_id", permissionID, "error", err)
		return apperrors.NewInternalError("failed to grant permission", err)
	}

	if s.audit != nil {
		s.audit.Record(perm.DepartmentID, grantedBy, audit.ActionPermissionGranted, "user_permission", &permissionID, nil)
	}

	s.logger.Info("permission granted", "user_id", userID, "permission_id", permissionID)
	return nil
}

// RevokeDirect removes a direct grant. Revoking a grant that does not exist
// is reported as not found rather than silently succeeding.
func (s *Service) RevokeDirect(userID, permissionID uuid.UUID) error {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		s.logger.Error("failed to get user for revoke", "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to revoke permission", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	removed, err := s.repo.DeleteGrant(userID, permissionID)
	if err != nil {
		s.logger.Error("failed to delete grant", "user_id", userID, "permission_id", permissionID, "error", err)
		return apperrors.NewInternalError("failed to revoke permission", err)
	}
	if !removed {
		return apperrors.ErrGrantNotFound
	}

	if s.audit != nil {
		if perm, err := s.repo.GetPermission(permissionID); err == nil && perm != nil {
			s.audit.Record(perm.DepartmentID, nil, audit.ActionPermissionRevoked, "user_permission", &permissionID, nil)
		}
	}

	s.logger.Info("permission revoked", "user_id", userID, "permission_id", permissionID)
	return nil
}

func (s *Service) ListDirectGrants(userID uuid.UUID) ([]*DirectGrant, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		s.logger.Error("failed to get user for grant listing", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to list grants", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	rows, err := s.repo.GetDirectGrants(userID)
	if err != nil {
		s.logger.Error("failed to get direct grants", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to list grants", err)
	}

	grants := make([]*DirectGrant, 0, len(rows))
	for _, row := range rows {
		perm, err := s.repo.GetPermission(row.PermissionID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to list grants", err)
		}
		name := ""
		if perm != nil {
			name = perm.Name
		}
		grants = append(grants, &DirectGrant{
			PermissionID: row.PermissionID,
			Name:         name,
			GrantedBy:    row.GrantedBy,
			GrantedAt:    row.CreatedAt,
		})
	}
	return grants, nil
}

func toEffective(perm *permissionDatamodel.Permission, source string) *EffectivePermission {
	return &EffectivePermission{
		PermissionID: perm.ID,
		Name:         perm.Name,
		DisplayName:  perm.DisplayName,
		Resource:     perm.Resource,
		Action:       perm.Action,
		Source:       source,
	}
}
