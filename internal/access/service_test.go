package access_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/access"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAccessService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Access Service Suite")
}

// MockRepository implements access.RepositoryAPI for testing
type MockRepository struct {
	users       map[uuid.UUID]*userDatamodel.User
	roles       map[uuid.UUID]*roleDatamodel.Role
	permissions map[uuid.UUID]*permissionDatamodel.Permission
	rolePerms   map[uuid.UUID][]uuid.UUID
	grants      map[uuid.UUID][]*userDatamodel.UserPermission
	formPerms   map[uuid.UUID]map[uuid.UUID][]uuid.UUID
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:       make(map[uuid.UUID]*userDatamodel.User),
		roles:       make(map[uuid.UUID]*roleDatamodel.Role),
		permissions: make(map[uuid.UUID]*permissionDatamodel.Permission),
		rolePerms:   make(map[uuid.UUID][]uuid.UUID),
		grants:      make(map[uuid.UUID][]*userDatamodel.UserPermission),
		formPerms:   make(map[uuid.UUID]map[uuid.UUID][]uuid.UUID),
	}
}

func (m *MockRepository) GetUser(userID uuid.UUID) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[userID], nil
}

func (m *MockRepository) GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.roles[roleID], nil
}

func (m *MockRepository) GetPermission(permissionID uuid.UUID) (*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.permissions[permissionID], nil
}

func (m *MockRepository) GetRolePermissions(roleID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*permissionDatamodel.Permission
	for _, permID := range m.rolePerms[roleID] {
		if perm, ok := m.permissions[permID]; ok {
			result = append(result, perm)
		}
	}
	return result, nil
}

func (m *MockRepository) GetDirectPermissions(userID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*permissionDatamodel.Permission
	for _, grant := range m.grants[userID] {
		if perm, ok := m.permissions[grant.PermissionID]; ok {
			result = append(result, perm)
		}
	}
	return result, nil
}

func (m *MockRepository) GetDirectGrants(userID uuid.UUID) ([]*userDatamodel.UserPermission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.grants[userID], nil
}

func (m *MockRepository) HasDirectGrant(userID, permissionID uuid.UUID) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	for _, grant := range m.grants[userID] {
		if grant.PermissionID == permissionID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) CreateGrant(grant *userDatamodel.UserPermission) error {
	if m.shouldFail {
		return m.failError
	}
	m.grants[grant.UserID] = append(m.grants[grant.UserID], grant)
	return nil
}

func (m *MockRepository) DeleteGrant(userID, permissionID uuid.UUID) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	grants := m.grants[userID]
	for i, grant := range grants {
		if grant.PermissionID == permissionID {
			m.grants[userID] = append(grants[:i], grants[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) GetFormPermissions(userID, formID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*permissionDatamodel.Permission
	for _, permID := range m.formPerms[userID][formID] {
		if perm, ok := m.permissions[permID]; ok {
			result = append(result, perm)
		}
	}
	return result, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddUser(user *userDatamodel.User) {
	m.users[user.ID] = user
}

func (m *MockRepository) AddRole(role *roleDatamodel.Role) {
	m.roles[role.ID] = role
}

func (m *MockRepository) AddPermission(perm *permissionDatamodel.Permission) {
	m.permissions[perm.ID] = perm
}

func (m *MockRepository) BindRolePermission(roleID, permID uuid.UUID) {
	m.rolePerms[roleID] = append(m.rolePerms[roleID], permID)
}

func (m *MockRepository) AddFormPermission(userID, formID, permID uuid.UUID) {
	if m.formPerms[userID] == nil {
		m.formPerms[userID] = make(map[uuid.UUID][]uuid.UUID)
	}
	m.formPerms[userID][formID] = append(m.formPerms[userID][formID], permID)
}

var _ = Describe("Access Service", func() {
	var (
		mockRepo     *MockRepository
		service      *access.Service
		logger       *slog.Logger
		departmentID uuid.UUID
		roleID       uuid.UUID
		userID       uuid.UUID
	)

	newPermission := func(name string, active bool) *permissionDatamodel.Permission {
		perm := &permissionDatamodel.Permission{
			ID:           uuid.New(),
			DepartmentID: departmentID,
			Name:         name,
			DisplayName:  name,
			IsActive:     active,
		}
		mockRepo.AddPermission(perm)
		return perm
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = access.NewService(mockRepo, nil, logger)

		departmentID = uuid.New()
		roleID = uuid.New()
		userID = uuid.New()

		mockRepo.AddRole(&roleDatamodel.Role{
			ID:           roleID,
			DepartmentID: departmentID,
			Name:         "form_editor",
			IsActive:     true,
		})
		mockRepo.AddUser(&userDatamodel.User{
			ID:           userID,
			DepartmentID: &departmentID,
			Email:        "member@example.com",
			RoleID:       &roleID,
			IsActive:     true,
		})
	})

	Describe("ListEffectivePermissions", func() {
		It("should union role permissions and direct grants", func() {
			rolePerm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, rolePerm.ID)

			directPerm := newPermission("submit_forms", true)
			Expect(service.GrantDirect(userID, directPerm.ID, nil)).To(Succeed())

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(2))

			bySource := make(map[string]string)
			for _, perm := range effective {
				bySource[perm.Name] = perm.Source
			}
			Expect(bySource).To(HaveKeyWithValue("view_forms", access.SourceRole))
			Expect(bySource).To(HaveKeyWithValue("submit_forms", access.SourceDirect))
		})

		It("should deduplicate a permission held through both sources, role winning", func() {
			perm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)
			Expect(service.GrantDirect(userID, perm.ID, nil)).To(Succeed())

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))
			Expect(effective[0].Source).To(Equal(access.SourceRole))
		})

		It("should skip inactive permissions", func() {
			active := newPermission("view_forms", true)
			inactive := newPermission("retired_permission", false)
			mockRepo.BindRolePermission(roleID, active.ID)
			mockRepo.BindRolePermission(roleID, inactive.ID)

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))
			Expect(effective[0].Name).To(Equal("view_forms"))
		})

		It("should contribute nothing from a deactivated role", func() {
			perm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)
			mockRepo.AddRole(&roleDatamodel.Role{
				ID:           roleID,
				DepartmentID: departmentID,
				Name:         "form_editor",
				IsActive:     false,
			})

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(BeEmpty())
		})

		It("should keep direct grants when the role is deactivated", func() {
			rolePerm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, rolePerm.ID)

			directPerm := newPermission("submit_forms", true)
			Expect(service.GrantDirect(userID, directPerm.ID, nil)).To(Succeed())

			mockRepo.AddRole(&roleDatamodel.Role{
				ID:           roleID,
				DepartmentID: departmentID,
				Name:         "form_editor",
				IsActive:     false,
			})

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))
			Expect(effective[0].Name).To(Equal("submit_forms"))
			Expect(effective[0].Source).To(Equal(access.SourceDirect))
		})

		It("should contribute nothing from a role that no longer exists", func() {
			perm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)
			delete(mockRepo.roles, roleID)

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(BeEmpty())
		})

		It("should return only direct grants for a user without a role", func() {
			mockRepo.AddUser(&userDatamodel.User{
				ID:           userID,
				DepartmentID: &departmentID,
				IsActive:     true,
			})
			perm := newPermission("submit_forms", true)
			Expect(service.GrantDirect(userID, perm.ID, nil)).To(Succeed())

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))
			Expect(effective[0].Source).To(Equal(access.SourceDirect))
		})

		It("should drop role-derived permissions once the role is removed", func() {
			perm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))

			mockRepo.AddUser(&userDatamodel.User{
				ID:           userID,
				DepartmentID: &departmentID,
				RoleID:       nil,
				IsActive:     true,
			})

			effective, err = service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(BeEmpty())
		})

		It("should report not found for an unknown user", func() {
			_, err := service.ListEffectivePermissions(uuid.New())
			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})
	})

	Describe("HasPermission", func() {
		It("should allow a permission held through the role", func() {
			perm := newPermission("manage_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)

			allowed, err := service.HasPermission(userID, "manage_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should deny a permission the user does not hold", func() {
			allowed, err := service.HasPermission(userID, "manage_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("should deny a permission held only through a deactivated role", func() {
			perm := newPermission("manage_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)
			mockRepo.AddRole(&roleDatamodel.Role{
				ID:           roleID,
				DepartmentID: departmentID,
				Name:         "form_editor",
				IsActive:     false,
			})

			allowed, err := service.HasPermission(userID, "manage_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("should allow everything for a super admin", func() {
			superID := uuid.New()
			mockRepo.AddUser(&userDatamodel.User{
				ID:           superID,
				IsSuperAdmin: true,
				IsActive:     true,
			})

			allowed, err := service.HasPermission(superID, "anything_at_all")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should deny everything for a deactivated user", func() {
			perm := newPermission("manage_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)
			mockRepo.AddUser(&userDatamodel.User{
				ID:           userID,
				DepartmentID: &departmentID,
				RoleID:       &roleID,
				IsActive:     false,
			})

			allowed, err := service.HasPermission(userID, "manage_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})

	Describe("HasFormPermission", func() {
		It("should allow through a form-scoped grant when the effective set denies", func() {
			formID := uuid.New()
			perm := newPermission("view_forms", true)
			mockRepo.AddFormPermission(userID, formID, perm.ID)

			allowed, err := service.HasFormPermission(userID, formID, "view_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("should not leak a form-scoped grant to other forms", func() {
			formID := uuid.New()
			perm := newPermission("view_forms", true)
			mockRepo.AddFormPermission(userID, formID, perm.ID)

			allowed, err := service.HasFormPermission(userID, uuid.New(), "view_forms")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})

	Describe("GrantDirect", func() {
		It("should reject granting the same permission twice", func() {
			perm := newPermission("submit_forms", true)
			Expect(service.GrantDirect(userID, perm.ID, nil)).To(Succeed())

			err := service.GrantDirect(userID, perm.ID, nil)
			Expect(err).To(MatchError(apperrors.ErrAlreadyGranted))
		})

		It("should reject an unknown user", func() {
			perm := newPermission("submit_forms", true)
			err := service.GrantDirect(uuid.New(), perm.ID, nil)
			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})

		It("should reject an unknown permission", func() {
			err := service.GrantDirect(userID, uuid.New(), nil)
			Expect(err).To(MatchError(apperrors.ErrPermissionNotFound))
		})

		It("should record who granted", func() {
			perm := newPermission("submit_forms", true)
			adminID := uuid.New()
			Expect(service.GrantDirect(userID, perm.ID, &adminID)).To(Succeed())

			grants, err := service.ListDirectGrants(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(1))
			Expect(grants[0].GrantedBy).To(Equal(&adminID))
		})
	})

	Describe("RevokeDirect", func() {
		It("should remove an existing grant", func() {
			perm := newPermission("submit_forms", true)
			Expect(service.GrantDirect(userID, perm.ID, nil)).To(Succeed())
			Expect(service.RevokeDirect(userID, perm.ID)).To(Succeed())

			effective, err := service.ListEffectivePermissions(userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(effective).To(BeEmpty())
		})

		It("should report not found when revoking an absent grant", func() {
			perm := newPermission("submit_forms", true)
			err := service.RevokeDirect(userID, perm.ID)
			Expect(err).To(MatchError(apperrors.ErrGrantNotFound))
		})

		It("should not touch role-derived permissions", func() {
			perm := newPermission("view_forms", true)
			mockRepo.BindRolePermission(roleID, perm.ID)

			err := service.RevokeDirect(userID, perm.ID)
			Expect(err).To(MatchError(apperrors.ErrGrantNotFound))

			effective, listErr := service.ListEffectivePermissions(userID)
			Expect(listErr).NotTo(HaveOccurred())
			Expect(effective).To(HaveLen(1))
		})
	})

	Context("when the repository fails", func() {
		BeforeEach(func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
		})

		It("should surface an internal error from resolution", func() {
			_, err := service.ListEffectivePermissions(userID)
			Expect(err).To(HaveOccurred())
		})

		It("should surface an internal error from permission checks", func() {
			_, err := service.HasPermission(userID, "view_forms")
			Expect(err).To(HaveOccurred())
		})
	})
})
