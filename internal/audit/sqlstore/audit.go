package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mustafakh994/forms-management/internal/audit"
	auditDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/audit"
)

type AuditStore struct {
	db *sqlx.DB
}

func NewAuditStore(db *sqlx.DB) audit.StoreAPI {
	return &AuditStore{db: db}
}

func (s *AuditStore) Insert(log *auditDatamodel.Log) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExec(`
		INSERT INTO audit_logs (id, department_id, user_id, action, resource_type, resource_id, details, created_at)
		VALUES (:id, :department_id, :user_id, :action, :resource_type, :resource_id, :details, :created_at)`,
		log)
	return err
}

func (s *AuditStore) ListByDepartment(departmentID uuid.UUID, limit, offset int) ([]*auditDatamodel.Log, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var logs []*auditDatamodel.Log
	err := s.db.Select(&logs, `
		SELECT id, department_id, user_id, action, resource_type, resource_id, details, created_at
		FROM audit_logs
		WHERE department_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		departmentID, limit, offset)
	return logs, err
}
