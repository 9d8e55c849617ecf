package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Description string     `gorm:"column:description"`
	Code        *string    `gorm:"column:code;uniqueIndex"`
	Settings    *string    `gorm:"column:settings;type:jsonb"`
	IsActive    bool       `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   *time.Time `gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}
