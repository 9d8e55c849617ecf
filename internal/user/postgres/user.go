package postgres

import (
	"github.com/google/uuid"
	formDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/form"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"github.com/mustafakh994/forms-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByDepartment(departmentID uuid.UUID, search string, limit, offset int) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	query := r.db.Where("department_id = ?", departmentID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	err := query.Order("email ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepository) GetSuperAdmins() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("is_super_admin = ?", true).Order("email ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountActiveSuperAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("is_super_admin = ? AND is_active = ?", true, true).Count(&count).Error
	return count, err
}

func (r *UserRepository) GetByID(id uuid.UUID) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.UserPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&formDatamodel.FormPermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
}

func (r *UserRepository) GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error) {
	var role roleDatamodel.Role
	err := r.db.Where("id = ?", roleID).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepository) CountSubmissions(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&formDatamodel.FormSubmission{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
