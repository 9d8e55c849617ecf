package postgres

import (
	"github.com/google/uuid"
	formDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/form"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"github.com/mustafakh994/forms-management/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetByDepartment(departmentID uuid.UUID, limit, offset int) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.Where("department_id = ?", departmentID).Order("name ASC").Limit(limit).Offset(offset).Find(&permissions).Error
	return permissions, err
}

func (r *PermissionRepository) GetByID(id uuid.UUID) (*permissionDatamodel.Permission, error) {
	var perm permissionDatamodel.Permission
	err := r.db.Where("id = ?", id).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepository) GetByName(departmentID uuid.UUID, name string) (*permissionDatamodel.Permission, error) {
	var perm permissionDatamodel.Permission
	err := r.db.Where("department_id = ? AND name = ?", departmentID, name).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepository) Create(perm *permissionDatamodel.Permission) error {
	return r.db.Create(perm).Error
}

func (r *PermissionRepository) Update(perm *permissionDatamodel.Permission) error {
	return r.db.Save(perm).Error
}

func (r *PermissionRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&permissionDatamodel.Permission{}).Error
}

// IsReferenced reports whether any role assignment or direct grant still
// points at the permission.
func (r *PermissionRepository) IsReferenced(id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.Model(&roleDatamodel.RolePermission{}).Where("permission_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&userDatamodel.UserPermission{}).Where("permission_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&formDatamodel.FormPermission{}).Where("permission_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
