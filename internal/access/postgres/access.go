package postgres

import (
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/access"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type AccessRepository struct {
	db *gorm.DB
}

func NewAccessRepository(db *gorm.DB) access.RepositoryAPI {
	return &AccessRepository{db: db}
}

func (r *AccessRepository) GetUser(userID uuid.UUID) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AccessRepository) GetRole(roleID uuid.UUID) (*roleDatamodel.Role, error) {
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

func (r *AccessRepository) GetPermission(permissionID uuid.UUID) (*permissionDatamodel.Permission, error) {
	var perm permissionDatamodel.Permission
	err := r.db.Where("id = ?", permissionID).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *AccessRepository) GetRolePermissions(roleID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Find(&permissions).Error
	return permissions, err
}

func (r *AccessRepository) GetDirectPermissions(userID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", userID).
		Find(&permissions).Error
	return permissions, err
}

func (r *AccessRepository) GetDirectGrants(userID uuid.UUID) ([]*userDatamodel.UserPermission, error) {
	var grants []*userDatamodel.UserPermission
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&grants).Error
	return grants, err
}

func (r *AccessRepository) HasDirectGrant(userID, permissionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.UserPermission{}).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *AccessRepository) CreateGrant(grant *userDatamodel.UserPermission) error {
	return r.db.Create(grant).Error
}

func (r *AccessRepository) DeleteGrant(userID, permissionID uuid.UUID) (bool, error) {
	result := r.db.Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&userDatamodel.UserPermission{})
	return result.RowsAffected > 0, result.Error
}

func (r *AccessRepository) GetFormPermissions(userID, formID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.
		Joins("JOIN form_permissions ON form_permissions.permission_id = permissions.id").
		Where("form_permissions.user_id = ? AND form_permissions.form_id = ?", userID, formID).
		Find(&permissions).Error
	return permissions, err
}
