package postgres

import (
	"github.com/google/uuid"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
	"github.com/mustafakh994/forms-management/internal/webhook"
	"gorm.io/gorm"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) webhook.RepositoryAPI {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) GetDepartment(departmentID uuid.UUID) (*departmentDatamodel.Department, error) {
	var dept departmentDatamodel.Department
	err := r.db.Where("id = ?", departmentID).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *WebhookRepository) GetByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error) {
	var endpoints []*webhookDatamodel.Endpoint
	err := r.db.Where("department_id = ?", departmentID).Order("created_at ASC").Find(&endpoints).Error
	return endpoints, err
}

func (r *WebhookRepository) GetActiveByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error) {
	var endpoints []*webhookDatamodel.Endpoint
	err := r.db.Where("department_id = ? AND is_active = ?", departmentID, true).Find(&endpoints).Error
	return endpoints, err
}

func (r *WebhookRepository) GetByID(id uuid.UUID) (*webhookDatamodel.Endpoint, error) {
	var endpoint webhookDatamodel.Endpoint
	err := r.db.Where("id = ?", id).First(&endpoint).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &endpoint, nil
}

func (r *WebhookRepository) Create(endpoint *webhookDatamodel.Endpoint) error {
	return r.db.Create(endpoint).Error
}

func (r *WebhookRepository) Update(endpoint *webhookDatamodel.Endpoint) error {
	return r.db.Save(endpoint).Error
}

func (r *WebhookRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&webhookDatamodel.Endpoint{}).Error
}
