package postgres

import (
	"github.com/google/uuid"
	permissionDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/role"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
	"github.com/mustafakh994/forms-management/internal/role"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByDepartment(departmentID uuid.UUID) ([]*roleDatamodel.Role, error) {
	var roles []*roleDatamodel.Role
	err := r.db.Where("department_id = ?", departmentID).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(id uuid.UUID) (*roleDatamodel.Role, error) {
	var rl roleDatamodel.Role
	err := r.db.Where("id = ?", id).First(&rl).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) GetByName(departmentID uuid.UUID, name string) (*roleDatamodel.Role, error) {
	var rl roleDatamodel.Role
	err := r.db.Where("department_id = ? AND name = ?", departmentID, name).First(&rl).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) Create(rl *roleDatamodel.Role) error {
	return r.db.Create(rl).Error
}

func (r *RoleRepository) Update(rl *roleDatamodel.Role) error {
	return r.db.Save(rl).Error
}

func (r *RoleRepository) DeleteWithUnassign(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.User{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&roleDatamodel.Role{}).Error
	})
}

func (r *RoleRepository) GetPermissions(roleID uuid.UUID) ([]*permissionDatamodel.Permission, error) {
	var permissions []*permissionDatamodel.Permission
	err := r.db.
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Find(&permissions).Error
	return permissions, err
}

func (r *RoleRepository) CountPermissionsInDepartment(departmentID uuid.UUID, permissionIDs []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&permissionDatamodel.Permission{}).
		Where("department_id = ? AND id IN ?", departmentID, permissionIDs).
		Count(&count).Error
	return count, err
}

func (r *RoleRepository) ReplacePermissions(roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		for _, permID := range permissionIDs {
			assignment := &roleDatamodel.RolePermission{
				ID:           uuid.New(),
				RoleID:       roleID,
				PermissionID: permID,
			}
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
