package user

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/audit"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByDepartment(departmentID uuid.UUID, search string, limit, offset int) ([]*userDatamodel.User, error)
	GetSuperAdmins() ([]*userDatamodel.User, error)
	CountActiveSuperAdmins() (int64, error)
	GetByID(id uuid.UUID) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
	Update(user *userDatamodel.User) error
	Delete(id uuid.UUID) error
	GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error)
	CountSubmissions(userID uuid.UUID) (int64, error)
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// AuditRecorder is satisfied by the audit service. A nil recorder disables
// audit recording.
type AuditRecorder interface {
	Record(departmentID uuid.UUID, userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details *string)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		audit:  audit,
		logger: logger,
	}
}

// GetDepartmentUsers returns one page of the department's accounts. An empty
// search matches everyone; otherwise the term is matched against name and
// email.
func (s *Service) GetDepartmentUsers(departmentID uuid.UUID, search string, limit, offset int) ([]*User, error) {
	dataUsers, err := s.repo.GetByDepartment(departmentID, search, limit, offset)
	if err != nil {
		s.logger.Error("failed to get users from repository", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(dataUsers))
	for _, dataUser := range dataUsers {
		users = append(users, s.withRoleName(FromDataModel(dataUser)))
	}

	return users, nil
}

func (s *Service) GetSuperAdmins() ([]*User, error) {
	dataUsers, err := s.repo.GetSuperAdmins()
	if err != nil {
		s.logger.Error("failed to get super admins from repository", "error", err)
		return nil, apperrors.NewInternalError("failed to list super admins", err)
	}

	users := make([]*User, 0, len(dataUsers))
	for _, dataUser := range dataUsers {
		users = append(users, FromDataModel(dataUser))
	}

	return users, nil
}

func (s *Service) GetUser(id uuid.UUID) (*User, error) {
	dataUser, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "user_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if dataUser == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return s.withRoleName(FromDataModel(dataUser)), nil
}

// CreateUser creates a department-scoped account. Emails are unique across
// the whole system, not per department.
func (s *Service) CreateUser(departmentID uuid.UUID, dto *CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create user", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailExists
	}

	if dto.RoleID != nil {
		if err := s.checkRoleScope(*dto.RoleID, departmentID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	dataUser := &userDatamodel.User{
		ID:           uuid.New(),
		DepartmentID: &departmentID,
		Email:        dto.Email,
		PasswordHash: hash,
		Name:         dto.Name,
		RoleID:       dto.RoleID,
		Profile:      dto.Profile,
		IsActive:     true,
	}
	if err := s.repo.Create(dataUser); err != nil {
		s.logger.Error("failed to create user", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	if s.audit != nil {
		s.audit.Record(departmentID, nil, audit.ActionUserCreated, "user", &dataUser.ID, nil)
	}

	s.logger.Info("user created", "user_id", dataUser.ID, "department_id", departmentID, "email", dto.Email)
	return s.withRoleName(FromDataModel(dataUser)), nil
}

// CreateSuperAdmin creates a platform-level account with no department and no
// role. Super admins bypass permission checks entirely.
func (s *Service) CreateSuperAdmin(dto *CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.RoleID != nil {
		return nil, apperrors.NewValidationFieldError("role_id", "Super admin accounts cannot hold a department role", apperrors.ErrCodeRoleWrongScope)
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to check email", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create super admin", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailExists
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create super admin", err)
	}

	dataUser := &userDatamodel.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: hash,
		Name:         dto.Name,
		Profile:      dto.Profile,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := s.repo.Create(dataUser); err != nil {
		s.logger.Error("failed to create super admin", "email", dto.Email, "error", err)
		return nil, apperrors.NewInternalError("failed to create super admin", err)
	}

	s.logger.Info("super admin created", "user_id", dataUser.ID, "email", dto.Email)
	return FromDataModel(dataUser), nil
}

func (s *Service) UpdateUser(id uuid.UUID, dto *UpdateUserDTO) (*User, error) {
	dataUser, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user for update", "user_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update user", err)
	}
	if dataUser == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if dto.Name != nil {
		dataUser.Name = *dto.Name
	}
	if dto.Profile != nil {
		dataUser.Profile = dto.Profile
	}
	if dto.IsActive != nil {
		if dataUser.IsSuperAdmin && dataUser.IsActive && !*dto.IsActive {
			if err := s.checkNotLastSuperAdmin(); err != nil {
				return nil, err
			}
		}
		dataUser.IsActive = *dto.IsActive
	}
	now := time.Now().UTC()
	dataUser.UpdatedAt = &now

	if err := s.repo.Update(dataUser); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update user", err)
	}

	return s.withRoleName(FromDataModel(dataUser)), nil
}

// DeleteUser refuses to remove accounts with recorded submissions so that
// submission history keeps a valid author reference.
func (s *Service) DeleteUser(id uuid.UUID) error {
	dataUser, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user for delete", "user_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete user", err)
	}
	if dataUser == nil {
		return apperrors.ErrUserNotFound
	}

	submissions, err := s.repo.CountSubmissions(id)
	if err != nil {
		s.logger.Error("failed to count submissions", "user_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete user", err)
	}
	if submissions > 0 {
		return apperrors.ErrUserHasData
	}

	if dataUser.IsSuperAdmin && dataUser.IsActive {
		if err := s.checkNotLastSuperAdmin(); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete user", err)
	}

	if s.audit != nil && dataUser.DepartmentID != nil {
		s.audit.Record(*dataUser.DepartmentID, nil, audit.ActionUserDeleted, "user", &id, nil)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// AssignRole puts the user into a role from their own department.
func (s *Service) AssignRole(userID uuid.UUID, dto *AssignRoleDTO) (*User, error) {
	dataUser, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user for role assignment", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to assign role", err)
	}
	if dataUser == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if dataUser.DepartmentID == nil {
		return nil, apperrors.ErrRoleWrongScope
	}

	if err := s.checkRoleScope(dto.RoleID, *dataUser.DepartmentID); err != nil {
		return nil, err
	}

	dataUser.RoleID = &dto.RoleID
	now := time.Now().UTC()
	dataUser.UpdatedAt = &now

	if err := s.repo.Update(dataUser); err != nil {
		s.logger.Error("failed to assign role", "user_id", userID, "role_id", dto.RoleID, "error", err)
		return nil, apperrors.NewInternalError("failed to assign role", err)
	}

	if s.audit != nil {
		s.audit.Record(*dataUser.DepartmentID, nil, audit.ActionRoleAssigned, "user", &userID, nil)
	}

	s.logger.Info("role assigned", "user_id", userID, "role_id", dto.RoleID)
	return s.withRoleName(FromDataModel(dataUser)), nil
}

func (s *Service) UnassignRole(userID uuid.UUID) (*User, error) {
	dataUser, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user for role removal", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to unassign role", err)
	}
	if dataUser == nil {
		return nil, apperrors.ErrUserNotFound
	}

	dataUser.RoleID = nil
	now := time.Now().UTC()
	dataUser.UpdatedAt = &now

	if err := s.repo.Update(dataUser); err != nil {
		s.logger.Error("failed to unassign role", "user_id", userID, "error", err)
		return nil, apperrors.NewInternalError("failed to unassign role", err)
	}

	s.logger.Info("role unassigned", "user_id", userID)
	return FromDataModel(dataUser), nil
}

// checkNotLastSuperAdmin blocks removing or deactivating the only active
// super admin, which would lock platform management out entirely.
func (s *Service) checkNotLastSuperAdmin() error {
	count, err := s.repo.CountActiveSuperAdmins()
	if err != nil {
		s.logger.Error("failed to count super admins", "error", err)
		return apperrors.NewInternalError("failed to check super admin accounts", err)
	}
	if count <= 1 {
		return apperrors.ErrLastSuperAdmin
	}
	return nil
}

func (s *Service) checkRoleScope(roleID, departmentID uuid.UUID) error {
	role, err := s.repo.GetRole(roleID)
	if err != nil {
		s.logger.Error("failed to get role", "role_id", roleID, "error", err)
		return apperrors.NewInternalError("failed to resolve role", err)
	}
	if role == nil {
		return apperrors.ErrRoleNotFound
	}
	if role.DepartmentID != departmentID {
		return apperrors.ErrRoleWrongScope
	}
	return nil
}

func (s *Service) withRoleName(u *User) *User {
	if u.RoleID == nil {
		return u
	}
	role, err := s.repo.GetRole(*u.RoleID)
	if err != nil || role == nil {
		return u
	}
	u.RoleName = role.Name
	return u
}
