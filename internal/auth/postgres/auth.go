package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/auth"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) auth.UserRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetByID(id uuid.UUID) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetRoleName(roleID uuid.UUID) (string, error) {
	var role roleDatamodel.Role
	err := r.db.Select("name").Where("id = ?", roleID).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return role.Name, nil
}

func (r *AuthRepository) UpdatePassword(userID uuid.UUID, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *AuthRepository) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", userID).
		Update("last_login_at", at).Error
}

func (r *AuthRepository) Create(user *userDatamodel.User) error {
	return r.db.Create(user).Error
}
