package auth

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id uuid.UUID) (*userDatamodel.User, error)
	GetRoleName(roleID uuid.UUID) (string, error)
	UpdatePassword(userID uuid.UUID, passwordHash string) error
	UpdateLastLogin(userID uuid.UUID, at time.Time) error
	Create(user *userDatamodel.User) error
}

type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns a token pair.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to look up user for login", "email", dto.Email, "error", err)
		return AuthTokens{}, ErrInvalidCredentials
	}
	if user == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return AuthTokens{}, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "email", user.Email)
	return tokens, nil
}

// RefreshTokens validates a refresh token and issues a fresh pair based on
// the user's current role and department, not the snapshot in the old token.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to look up user for token refresh", "user_id", userID, "error", err)
		return AuthTokens{}, ErrInvalidToken
	}
	if user == nil {
		return AuthTokens{}, ErrInvalidToken
	}
	if !user.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	return s.issueTokens(user)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolveIdentity loads the current user behind validated claims and builds
// the caller identity attached to request contexts.
func (s *Service) ResolveIdentity(claims *Claims) (*apperrors.Identity, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to load user for identity", "user_id", userID, "error", err)
		return nil, ErrInvalidToken
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	roleName := ""
	if user.RoleID != nil {
		roleName, err = s.userRepo.GetRoleName(*user.RoleID)
		if err != nil {
			s.logger.Warn("failed to resolve role name", "user_id", userID, "role_id", *user.RoleID, "error", err)
		}
	}

	return &apperrors.Identity{
		UserID:       user.ID,
		DepartmentID: user.DepartmentID,
		RoleName:     roleName,
		IsSuperAdmin: user.IsSuperAdmin,
	}, nil
}

func (s *Service) ChangePassword(userID uuid.UUID, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to load user for password change", "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to change password", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return apperrors.NewValidationError("Current password is incorrect", apperrors.ErrCodeWrongPassword)
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to change password", err)
	}

	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// EnsureSuperAdmin creates the bootstrap super admin account on first start
// when no user with the configured email exists.
func (s *Service) EnsureSuperAdmin(email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &userDatamodel.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return err
	}

	s.logger.Info("bootstrap super admin created", "email", email)
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(user *userDatamodel.User) (AuthTokens, error) {
	roleName := ""
	if user.RoleID != nil {
		if name, err := s.userRepo.GetRoleName(*user.RoleID); err == nil {
			roleName = name
		}
	}

	subject := TokenSubject{
		UserID:       user.ID,
		Email:        user.Email,
		DepartmentID: user.DepartmentID,
		Role:         roleName,
		IsSuperAdmin: user.IsSuperAdmin,
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(subject)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(subject)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
