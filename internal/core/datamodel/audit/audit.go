package audit

import (
	"time"

	"github.com/google/uuid"
)

type Log struct {
	ID           uuid.UUID  `db:"id"`
	DepartmentID uuid.UUID  `db:"department_id"`
	UserID       *uuid.UUID `db:"user_id"`
	Action       string     `db:"action"`
	ResourceType string     `db:"resource_type"`
	ResourceID   *uuid.UUID `db:"resource_id"`
	Details      *string    `db:"details"`
	CreatedAt    time.Time  `db:"created_at"`
}
