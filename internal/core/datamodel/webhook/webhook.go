package webhook

import (
	"time"

	"github.com/google/uuid"
)

type Endpoint struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	DepartmentID uuid.UUID  `gorm:"column:department_id;type:uuid;not null"`
	URL          string     `gorm:"column:url;not null"`
	Method       string     `gorm:"column:method;default:POST"`
	Headers      *string    `gorm:"column:headers"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    *time.Time `gorm:"column:updated_at"`
}

func (Endpoint) TableName() string {
	return "webhook_endpoints"
}
