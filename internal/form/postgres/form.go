package postgres

import (
	"github.com/google/uuid"
	formDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/form"
	"github.com/mustafakh994/forms-management/internal/form"
	"gorm.io/gorm"
)

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) form.RepositoryAPI {
	return &FormRepository{db: db}
}

func (r *FormRepository) GetByDepartment(departmentID uuid.UUID) ([]*formDatamodel.Form, error) {
	var forms []*formDatamodel.Form
	err := r.db.Where("department_id = ?", departmentID).Order("created_at DESC").Find(&forms).Error
	return forms, err
}

func (r *FormRepository) GetByID(id uuid.UUID) (*formDatamodel.Form, error) {
	var f formDatamodel.Form
	err := r.db.Where("id = ?", id).First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FormRepository) Create(f *formDatamodel.Form) error {
	return r.db.Create(f).Error
}

func (r *FormRepository) UpdateWithVersion(f *formDatamodel.Form, archived *formDatamodel.FormSchemaVersion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if archived != nil {
			if err := tx.Create(archived).Error; err != nil {
				return err
			}
		}
		return tx.Save(f).Error
	})
}

func (r *FormRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&formDatamodel.FormPermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&formDatamodel.FormSchemaVersion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&formDatamodel.Form{}).Error
	})
}

func (r *FormRepository) CountSubmissions(formID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&formDatamodel.FormSubmission{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

func (r *FormRepository) CreateSubmission(s *formDatamodel.FormSubmission) error {
	return r.db.Create(s).Error
}

func (r *FormRepository) GetSubmissions(formID uuid.UUID, limit, offset int) ([]*formDatamodel.FormSubmission, error) {
	var submissions []*formDatamodel.FormSubmission
	query := r.db.Where("form_id = ?", formID).Order("submitted_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&submissions).Error
	return submissions, err
}

func (r *FormRepository) GetSubmission(id uuid.UUID) (*formDatamodel.FormSubmission, error) {
	var s formDatamodel.FormSubmission
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *FormRepository) GetSchemaVersions(formID uuid.UUID) ([]*formDatamodel.FormSchemaVersion, error) {
	var versions []*formDatamodel.FormSchemaVersion
	err := r.db.Where("form_id = ?", formID).Order("version_number DESC").Find(&versions).Error
	return versions, err
}

func (r *FormRepository) HasFormGrant(formID, userID, permissionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&formDatamodel.FormPermission{}).
		Where("form_id = ? AND user_id = ? AND permission_id = ?", formID, userID, permissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *FormRepository) CreateFormGrant(grant *formDatamodel.FormPermission) error {
	return r.db.Create(grant).Error
}

func (r *FormRepository) DeleteFormGrant(formID, userID, permissionID uuid.UUID) (bool, error) {
	result := r.db.Where("form_id = ? AND user_id = ? AND permission_id = ?", formID, userID, permissionID).
		Delete(&formDatamodel.FormPermission{})
	return result.RowsAffected > 0, result.Error
}

func (r *FormRepository) GetFormGrants(formID uuid.UUID) ([]*formDatamodel.FormPermission, error) {
	var grants []*formDatamodel.FormPermission
	err := r.db.Where("form_id = ?", formID).Order("created_at ASC").Find(&grants).Error
	return grants, err
}
