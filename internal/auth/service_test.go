package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/auth"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockUserRepository implements auth.UserRepository for testing
type MockUserRepository struct {
	users      map[uuid.UUID]*userDatamodel.User
	roleNames  map[uuid.UUID]string
	lastLogins map[uuid.UUID]time.Time
	shouldFail bool
	failError  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:      make(map[uuid.UUID]*userDatamodel.User),
		roleNames:  make(map[uuid.UUID]string),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (m *MockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
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

func (m *MockUserRepository) GetByID(id uuid.UUID) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.users[id], nil
}

func (m *MockUserRepository) GetRoleName(roleID uuid.UUID) (string, error) {
	if m.shouldFail {
		return "", m.failError
	}
	return m.roleNames[roleID], nil
}

func (m *MockUserRepository) UpdatePassword(userID uuid.UUID, passwordHash string) error {
	if m.shouldFail {
		return m.failError
	}
	if u, ok := m.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	if m.shouldFail {
		return m.failError
	}
	m.lastLogins[userID] = at
	return nil
}

func (m *MockUserRepository) Create(u *userDatamodel.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

var _ = Describe("Auth Service", func() {
	var (
		mockRepo *MockUserRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
		logger   *slog.Logger
	)

	addUser := func(email, password string, active bool) *userDatamodel.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		u := &userDatamodel.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         "Test User",
			IsActive:     active,
		}
		mockRepo.users[u.ID] = u
		return u
	}

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 7*24*time.Hour)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost, logger)
	})

	Describe("Authenticate", func() {
		It("should return a token pair for valid credentials", func() {
			existing := addUser("alice@example.com", "correct-horse", true)

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
			Expect(mockRepo.lastLogins).To(HaveKey(existing.ID))
		})

		It("should reject a wrong password", func() {
			addUser("alice@example.com", "correct-horse", true)

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "wrong",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "nobody@example.com",
				Password: "whatever",
			})
			Expect(err).To(MatchError(auth.ErrInvalidCredentials))
		})

		It("should reject a deactivated user", func() {
			addUser("alice@example.com", "correct-horse", false)

			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should round trip the identity through a token", func() {
			existing := addUser("alice@example.com", "correct-horse", true)
			roleID := uuid.New()
			existing.RoleID = &roleID
			mockRepo.roleNames[roleID] = "form_editor"

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(existing.ID.String()))
			Expect(claims.Email).To(Equal("alice@example.com"))
			Expect(claims.Role).To(Equal("form_editor"))
			Expect(claims.IsSuperAdmin).To(BeFalse())
		})

		It("should reject a malformed token", func() {
			_, err := service.ValidateAccessToken("not-a-token")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a fresh pair from a refresh token", func() {
			addUser("alice@example.com", "correct-horse", true)

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())
			Expect(refreshed.RefreshToken).NotTo(BeEmpty())
		})

		It("should reject a refresh for a user deactivated since login", func() {
			existing := addUser("alice@example.com", "correct-horse", true)

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "alice@example.com",
				Password: "correct-horse",
			})
			Expect(err).NotTo(HaveOccurred())

			existing.IsActive = false
			_, err = service.RefreshTokens(tokens.RefreshToken)
			Expect(err).To(MatchError(auth.ErrUserInactive))
		})

		It("should reject garbage", func() {
			_, err := service.RefreshTokens("garbage")
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("ResolveIdentity", func() {
		It("should build the caller identity from claims", func() {
			departmentID := uuid.New()
			existing := addUser("alice@example.com", "correct-horse", true)
			existing.DepartmentID = &departmentID
			roleID := uuid.New()
			existing.RoleID = &roleID
			mockRepo.roleNames[roleID] = "form_editor"

			identity, err := service.ResolveIdentity(&auth.Claims{UserID: existing.ID.String()})
			Expect(err).NotTo(HaveOccurred())
			Expect(identity.UserID).To(Equal(existing.ID))
			Expect(*identity.DepartmentID).To(Equal(departmentID))
			Expect(identity.RoleName).To(Equal("form_editor"))
			Expect(identity.IsSuperAdmin).To(BeFalse())
		})

		It("should reject claims for a deleted user", func() {
			_, err := service.ResolveIdentity(&auth.Claims{UserID: uuid.New().String()})
			Expect(err).To(MatchError(auth.ErrInvalidToken))
		})
	})

	Describe("ChangePassword", func() {
		It("should replace the hash when the current password matches", func() {
			existing := addUser("alice@example.com", "correct-horse", true)
			oldHash := existing.PasswordHash

			err := service.ChangePassword(existing.ID, auth.ChangePasswordDTO{
				CurrentPassword: "correct-horse",
				NewPassword:     "battery-staple",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(existing.PasswordHash).NotTo(Equal(oldHash))

			compareErr := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte("battery-staple"))
			Expect(compareErr).NotTo(HaveOccurred())
		})

		It("should reject a wrong current password", func() {
			existing := addUser("alice@example.com", "correct-horse", true)

			err := service.ChangePassword(existing.ID, auth.ChangePasswordDTO{
				CurrentPassword: "wrong",
				NewPassword:     "battery-staple",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeWrongPassword))
		})

		It("should report not found for an unknown user", func() {
			err := service.ChangePassword(uuid.New(), auth.ChangePasswordDTO{
				CurrentPassword: "correct-horse",
				NewPassword:     "battery-staple",
			})
			Expect(err).To(MatchError(apperrors.ErrUserNotFound))
		})
	})

	Describe("EnsureSuperAdmin", func() {
		It("should create the bootstrap account once", func() {
			Expect(service.EnsureSuperAdmin("root@example.com", "battery-staple", "Root")).To(Succeed())

			created, err := mockRepo.GetByEmail("root@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).NotTo(BeNil())
			Expect(created.IsSuperAdmin).To(BeTrue())

			Expect(service.EnsureSuperAdmin("root@example.com", "battery-staple", "Root")).To(Succeed())
			Expect(mockRepo.users).To(HaveLen(1))
		})

		It("should do nothing without bootstrap credentials", func() {
			Expect(service.EnsureSuperAdmin("", "", "")).To(Succeed())
			Expect(mockRepo.users).To(BeEmpty())
		})
	})
})
