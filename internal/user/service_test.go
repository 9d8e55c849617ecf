package user_test

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"github.com/mustafakh994/forms-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	users       map[uuid.UUID]*userDatamodel.User
	roles       map[uuid.UUID]*roleDatamodel.Role
	submissions map[uuid.UUID]int64
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:       make(map[uuid.UUID]*userDatamodel.User),
		roles:       make(map[uuid.UUID]*roleDatamodel.Role),
		submissions: make(map[uuid.UUID]int64),
	}
}

func (m *MockRepository) GetByDepartment(departmentID uuid.UUID, search string, limit, offset int) ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	term := strings.ToLower(search)
	var matched []*userDatamodel.User
	for _, u := range m.users {
		if u.DepartmentID == nil || *u.DepartmentID != departmentID {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(u.Name), term) && !strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockRepository) GetSuperAdmins() ([]*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*userDatamodel.User
	for _, u := range m.users {
		if u.IsSuperAdmin {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (m *MockRepository) CountActiveSuperAdmins() (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var count int64
	for _, u := range m.users {
		if u.IsSuperAdmin && u.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *MockRepository) GetByID(id uuid.UUID) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[id], nil
}

func (m *MockRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Update(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Delete(id uuid.UUID) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.users, id)
	return nil
}

func (m *MockRepository) GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.roles[roleID], nil
}

func (m *MockRepository) CountSubmissions(userID uuid.UUID) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return m.submissions[userID], nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// StubHasher implements user.PasswordHasher for testing
type StubHasher struct {
	shouldFail bool
}

func (h *StubHasher) HashPassword(password string) (string, error) {
	if h.shouldFail {
		return "", errors.New("hashing failed")
	}
	return "hashed:" + password, nil
}

var _ = Describe("User Service", func() {
	var (
		mockRepo     *MockRepository
		hasher       *StubHasher
		service      *user.Service
		logger       *slog.Logger
		departmentID uuid.UUID
	)

	addRole := func(deptID uuid.UUID, name string) *roleDatamodel.Role {
		r := &roleDatamodel.Role{
			ID:           uuid.New(),
			DepartmentID: deptID,
			Name:         name,
			IsActive:     true,
		}
		mockRepo.roles[r.ID] = r
		return r
	}

	addUser := func(email string) *userDatamodel.User {
		u := &userDatamodel.User{
			ID:           uuid.New(),
			DepartmentID: &departmentID,
			Email:        email,
			PasswordHash: "hashed:password",
			IsActive:     true,
		}
		mockRepo.users[u.ID] = u
		return u
	}

	addSuperAdmin := func(email string) *userDatamodel.User {
		u := &userDatamodel.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: "hashed:password",
			IsSuperAdmin: true,
			IsActive:     true,
		}
		mockRepo.users[u.ID] = u
		return u
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		hasher = &StubHasher{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, hasher, nil, logger)
		departmentID = uuid.New()
	})

	Describe("CreateUser", func() {
		It("should create a user with a hashed password", func() {
			created, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
				Name:     "Alice",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Email).To(Equal("alice@example.com"))
			Expect(*created.DepartmentID).To(Equal(departmentID))

			stored := mockRepo.users[created.ID]
			Expect(stored.PasswordHash).To(Equal("hashed:correct-horse"))
		})

		It("should reject a duplicate email", func() {
			addUser("alice@example.com")

			_, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).To(MatchError(apperrors.ErrEmailExists))
		})

		It("should reject a short password", func() {
			_, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "short",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should accept an initial role from the same department", func() {
			editorRole := addRole(departmentID, "form_editor")

			created, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
				RoleID:   &editorRole.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.RoleID).To(Equal(&editorRole.ID))
			Expect(created.RoleName).To(Equal("form_editor"))
		})

		It("should reject an initial role from another department", func() {
			foreignRole := addRole(uuid.New(), "form_editor")

			_, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
				RoleID:   &foreignRole.ID,
			})
			Expect(err).To(MatchError(apperrors.ErrRoleWrongScope))
		})

		It("should reject an unknown initial role", func() {
			unknown := uuid.New()
			_, err := service.CreateUser(departmentID, &user.CreateUserDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
				RoleID:   &unknown,
			})
			Expect(err).To(MatchError(apperrors.ErrRoleNotFound))
		})
	})

	Describe("DeleteUser", func() {
		It("should delete a user without submissions", func() {
			existing := addUser("alice@example.com")
			Expect(service.DeleteUser(existing.ID)).To(Succeed())

			_, err := service.GetUser(existing.ID)
			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})

		It("should refuse to delete a user with submissions", func() {
			existing := addUser("alice@example.com")
			mockRepo.submissions[existing.ID] = 3

			Expect(service.DeleteUser(existing.ID)).To(MatchError(apperrors.ErrUserHasData))
			Expect(mockRepo.users).To(HaveKey(existing.ID))
		})

		It("should report not found for an unknown user", func() {
			Expect(service.DeleteUser(uuid.New())).To(MatchError(apperrors.ErrUserNotFound))
		})
	})

	Describe("AssignRole", func() {
		var existing *userDatamodel.User

		BeforeEach(func() {
			existing = addUser("alice@example.com")
		})

		It("should assign a role from the user's department", func() {
			editorRole := addRole(departmentID, "form_editor")

			updated, err := service.AssignRole(existing.ID, &user.AssignRoleDTO{RoleID: editorRole.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.RoleID).To(Equal(&editorRole.ID))
			Expect(updated.RoleName).To(Equal("form_editor"))
		})

		It("should reject a role from another department", func() {
			foreignRole := addRole(uuid.New(), "form_editor")

			_, err := service.AssignRole(existing.ID, &user.AssignRoleDTO{RoleID: foreignRole.ID})
			Expect(err).To(MatchError(apperrors.ErrRoleWrongScope))
			Expect(mockRepo.users[existing.ID].RoleID).To(BeNil())
		})

		It("should reject an unknown role", func() {
			_, err := service.AssignRole(existing.ID, &user.AssignRoleDTO{RoleID: uuid.New()})
			Expect(err).To(MatchError(apperrors.ErrRoleNotFound))
		})

		It("should report not found for an unknown user", func() {
			editorRole := addRole(departmentID, "form_editor")

			_, err := service.AssignRole(uuid.New(), &user.AssignRoleDTO{RoleID: editorRole.ID})
			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})
	})

	Describe("UnassignRole", func() {
		It("should clear the user's role", func() {
			editorRole := addRole(departmentID, "form_editor")
			existing := addUser("alice@example.com")
			existing.RoleID = &editorRole.ID

			updated, err := service.UnassignRole(existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.RoleID).To(BeNil())
		})
	})

	Describe("UpdateUser", func() {
		It("should deactivate a user", func() {
			existing := addUser("alice@example.com")

			inactive := false
			updated, err := service.UpdateUser(existing.ID, &user.UpdateUserDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
			Expect(updated.UpdatedAt).NotTo(BeNil())
		})

		It("should refuse to deactivate the only super admin", func() {
			admin := addSuperAdmin("root@example.com")

			inactive := false
			_, err := service.UpdateUser(admin.ID, &user.UpdateUserDTO{IsActive: &inactive})
			Expect(err).To(MatchError(apperrors.ErrLastSuperAdmin))
			Expect(mockRepo.users[admin.ID].IsActive).To(BeTrue())
		})

		It("should deactivate a super admin when another remains active", func() {
			admin := addSuperAdmin("root@example.com")
			addSuperAdmin("backup@example.com")

			inactive := false
			updated, err := service.UpdateUser(admin.ID, &user.UpdateUserDTO{IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
		})
	})

	Describe("GetDepartmentUsers", func() {
		BeforeEach(func() {
			addUser("alice@example.com").Name = "Alice"
			addUser("bob@example.com").Name = "Bob"
			addUser("carol@example.com").Name = "Carol"
		})

		It("should page through the department's users by email", func() {
			firstPage, err := service.GetDepartmentUsers(departmentID, "", 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(firstPage).To(HaveLen(2))
			Expect(firstPage[0].Email).To(Equal("alice@example.com"))
			Expect(firstPage[1].Email).To(Equal("bob@example.com"))

			secondPage, err := service.GetDepartmentUsers(departmentID, "", 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(secondPage).To(HaveLen(1))
			Expect(secondPage[0].Email).To(Equal("carol@example.com"))
		})

		It("should filter by a search term on name or email", func() {
			matches, err := service.GetDepartmentUsers(departmentID, "bob", 50, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(HaveLen(1))
			Expect(matches[0].Email).To(Equal("bob@example.com"))
		})

		It("should return an empty page past the end", func() {
			page, err := service.GetDepartmentUsers(departmentID, "", 50, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(BeEmpty())
		})
	})

	Describe("CreateSuperAdmin", func() {
		It("should create a platform account with no department", func() {
			created, err := service.CreateSuperAdmin(&user.CreateUserDTO{
				Email:    "root@example.com",
				Password: "correct-horse",
				Name:     "Root",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsSuperAdmin).To(BeTrue())
			Expect(created.DepartmentID).To(BeNil())
			Expect(created.RoleID).To(BeNil())

			stored := mockRepo.users[created.ID]
			Expect(stored.PasswordHash).To(Equal("hashed:correct-horse"))
		})

		It("should reject a role assignment", func() {
			editorRole := addRole(departmentID, "form_editor")

			_, err := service.CreateSuperAdmin(&user.CreateUserDTO{
				Email:    "root@example.com",
				Password: "correct-horse",
				RoleID:   &editorRole.ID,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a duplicate email", func() {
			addUser("root@example.com")

			_, err := service.CreateSuperAdmin(&user.CreateUserDTO{
				Email:    "root@example.com",
				Password: "correct-horse",
			})
			Expect(err).To(MatchError(apperrors.ErrEmailExists))
		})
	})

	Describe("GetSuperAdmins", func() {
		It("should list only super admin accounts", func() {
			addUser("alice@example.com")
			addSuperAdmin("root@example.com")

			admins, err := service.GetSuperAdmins()
			Expect(err).NotTo(HaveOccurred())
			Expect(admins).To(HaveLen(1))
			Expect(admins[0].Email).To(Equal("root@example.com"))
		})
	})

	Describe("DeleteUser with super admins", func() {
		It("should refuse to delete the only super admin", func() {
			admin := addSuperAdmin("root@example.com")

			Expect(service.DeleteUser(admin.ID)).To(MatchError(apperrors.ErrLastSuperAdmin))
			Expect(mockRepo.users).To(HaveKey(admin.ID))
		})

		It("should delete a super admin when another remains active", func() {
			admin := addSuperAdmin("root@example.com")
			addSuperAdmin("backup@example.com")

			Expect(service.DeleteUser(admin.ID)).To(Succeed())
			Expect(mockRepo.users).NotTo(HaveKey(admin.ID))
		})
	})

	Context("when the repository fails", func() {
		It("should surface an internal error", func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
			_, err := service.GetDepartmentUsers(departmentID, "", 50, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
