package permission

import (
	"time"

	"github.com/google/uuid"
)

type Permission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;uniqueIndex:idx_permissions_dept_name"`
	Name         string    `gorm:"column:name;not null;uniqueIndex:idx_permissions_dept_name"`
	DisplayName  string    `gorm:"column:display_name"`
	Description  string    `gorm:"column:description"`
	Resource     string    `gorm:"column:resource"`
	Action       string    `gorm:"column:action"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}
