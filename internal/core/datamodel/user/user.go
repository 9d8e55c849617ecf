package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DepartmentID *uuid.UUID `gorm:"column:department_id;type:uuid"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"column:name"`
	RoleID       *uuid.UUID `gorm:"column:role_id;type:uuid"`
	Profile      *string    `gorm:"column:profile;type:jsonb"`
	IsSuperAdmin bool       `gorm:"column:is_super_admin;default:false"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserPermission is a direct grant binding a permission straight to a user,
// bypassing role membership. Unique per (user, permission) pair.
type UserPermission struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_permissions_pair"`
	PermissionID uuid.UUID  `gorm:"column:permission_id;type:uuid;not null;uniqueIndex:idx_user_permissions_pair"`
	GrantedBy    *uuid.UUID `gorm:"column:granted_by;type:uuid"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}
