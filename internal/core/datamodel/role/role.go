package role

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DepartmentID uuid.UUID  `gorm:"column:department_id;type:uuid;not null;uniqueIndex:idx_roles_dept_name"`
	Name         string     `gorm:"column:name;not null;uniqueIndex:idx_roles_dept_name"`
	DisplayName  string     `gorm:"column:display_name"`
	Description  string     `gorm:"column:description"`
	IsSystemRole bool       `gorm:"column:is_system_role;default:false"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// RolePermission is the assignment row binding one permission to one role,
// unique per (role, permission) pair.
type RolePermission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RoleID       uuid.UUID `gorm:"column:role_id;type:uuid;not null;uniqueIndex:idx_role_permissions_pair"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;not null;uniqueIndex:idx_role_permissions_pair"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
