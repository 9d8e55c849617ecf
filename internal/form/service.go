package form

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	formDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/form"
	"github.com/mustafakh994/forms-management/internal/core/events"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	GetByDepartment(departmentID uuid.UUID) ([]*formDatamodel.Form, error)
	GetByID(id uuid.UUID) (*formDatamodel.Form, error)
	Create(form *formDatamodel.Form) error
	// UpdateWithVersion saves the form and, when a prior schema is passed,
	// archives it as a schema version row in the same transaction.
	UpdateWithVersion(form *formDatamodel.Form, archived *formDatamodel.FormSchemaVersion) error
	Delete(id uuid.UUID) error
	CountSubmissions(formID uuid.UUID) (int64, error)
	CreateSubmission(submission *formDatamodel.FormSubmission) error
	GetSubmissions(formID uuid.UUID, limit, offset int) ([]*formDatamodel.FormSubmission, error)
	GetSubmission(id uuid.UUID) (*formDatamodel.FormSubmission, error)
	GetSchemaVersions(formID uuid.UUID) ([]*formDatamodel.FormSchemaVersion, error)
	HasFormGrant(formID, userID, permissionID uuid.UUID) (bool, error)
	CreateFormGrant(grant *formDatamodel.FormPermission) error
	DeleteFormGrant(formID, userID, permissionID uuid.UUID) (bool, error)
	GetFormGrants(formID uuid.UUID) ([]*formDatamodel.FormPermission, error)
}

// EventPublisher is satisfied by the events bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) GetDepartmentForms(departmentID uuid.UUID) ([]*Form, error) {
	dataForms, err := s.repo.GetByDepartment(departmentID)
	if err != nil {
		s.logger.Error("failed to get forms from repository", "department_id", departmentID, "error", err)
		return nil, apperrors.NewInternalError("failed to list forms", err)
	}

	forms := make([]*Form, 0, len(dataForms))
	for _, dataForm := range dataForms {
		forms = append(forms, FromDataModel(dataForm))
	}

	return forms, nil
}

func (s *Service) GetForm(id uuid.UUID) (*Form, error) {
	dataForm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get form", "form_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get form", err)
	}
	if dataForm == nil {
		return nil, apperrors.ErrFormNotFound
	}
	return FromDataModel(dataForm), nil
}

func (s *Service) CreateForm(ctx context.Context, departmentID uuid.UUID, dto *CreateFormDTO, createdBy *uuid.UUID) (*Form, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := dto.Status
	if status == "" {
		status = StatusDraft
	}

	dataForm := &formDatamodel.Form{
		ID:           uuid.New(),
		DepartmentID: departmentID,
		Name:         dto.Name,
		Code:         dto.Code,
		Title:        dto.Title,
		Description:  dto.Description,
		FormSchema:   dto.FormSchema,
		Settings:     dto.Settings,
		CreatedBy:    createdBy,
		Version:      1,
		Status:       status,
		IsActive:     true,
	}
	if err := s.repo.Create(dataForm); err != nil {
		s.logger.Error("failed to create form", "department_id", departmentID, "name", dto.Name, "error", err)
		return nil, apperrors.NewInternalError("failed to create form", err)
	}

	form := FromDataModel(dataForm)
	s.publish(ctx, events.NewFormCreatedEvent(departmentID, form.ID, form))

	s.logger.Info("form created", "form_id", form.ID, "department_id", departmentID, "name", form.Name)
	return form, nil
}

// UpdateForm applies changes and, when the schema is replaced, archives the
// previous schema and bumps the version counter.
func (s *Service) UpdateForm(ctx context.Context, id uuid.UUID, dto *UpdateFormDTO, updatedBy *uuid.UUID) (*Form, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataForm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get form for update", "form_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update form", err)
	}
	if dataForm == nil {
		return nil, apperrors.ErrFormNotFound
	}

	form := FromDataModel(dataForm)

	var archived *formDatamodel.FormSchemaVersion
	if dto.FormSchema != nil && (form.FormSchema == nil || *form.FormSchema != *dto.FormSchema) {
		if form.FormSchema != nil {
			archived = &formDatamodel.FormSchemaVersion{
				ID:            uuid.New(),
				FormID:        form.ID,
				VersionNumber: form.Version,
				SchemaData:    *form.FormSchema,
				CreatedBy:     updatedBy,
			}
		}
		form.FormSchema = dto.FormSchema
		form.Version++
	}

	if dto.Name != nil {
		form.Name = *dto.Name
	}
	if dto.Title != nil {
		form.Title = *dto.Title
	}
	if dto.Description != nil {
		form.Description = *dto.Description
	}
	if dto.Settings != nil {
		form.Settings = dto.Settings
	}
	if dto.Status != nil {
		form.Status = *dto.Status
	}
	if dto.IsActive != nil {
		form.IsActive = *dto.IsActive
	}
	form.Touch()

	if err := s.repo.UpdateWithVersion(ToDataModel(form), archived); err != nil {
		s.logger.Error("failed to update form", "form_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update form", err)
	}

	s.publish(ctx, events.NewFormUpdatedEvent(form.DepartmentID, form.ID, form))

	s.logger.Info("form updated", "form_id", form.ID, "version", form.Version)
	return form, nil
}

// DeleteForm refuses to remove forms that already collected submissions.
func (s *Service) DeleteForm(ctx context.Context, id uuid.UUID) error {
	dataForm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get form for delete", "form_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete form", err)
	}
	if dataForm == nil {
		return apperrors.ErrFormNotFound
	}

	submissions, err := s.repo.CountSubmissions(id)
	if err != nil {
		s.logger.Error("failed to count submissions", "form_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete form", err)
	}
	if submissions > 0 {
		return apperrors.ErrFormHasSubmissions
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete form", "form_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete form", err)
	}

	s.publish(ctx, events.NewFormDeletedEvent(dataForm.DepartmentID, id, FromDataModel(dataForm)))

	s.logger.Info("form deleted", "form_id", id)
	return nil
}

func (s *Service) SubmitForm(ctx context.Context, formID uuid.UUID, dto *SubmitFormDTO, userID *uuid.UUID, ipAddress, userAgent string) (*Submission, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataForm, err := s.repo.GetByID(formID)
	if err != nil {
		s.logger.Error("failed to get form for submission", "form_id", formID, "error", err)
		return nil, apperrors.NewInternalError("failed to submit form", err)
	}
	if dataForm == nil {
		return nil, apperrors.ErrFormNotFound
	}

	form := FromDataModel(dataForm)
	if !form.AcceptsSubmissions() {
		return nil, apperrors.ErrFormInactive
	}

	dataSubmission := &formDatamodel.FormSubmission{
		ID:             uuid.New(),
		FormID:         formID,
		UserID:         userID,
		SubmissionData: string(dto.SubmissionData),
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
	}
	if err := s.repo.CreateSubmission(dataSubmission); err != nil {
		s.logger.Error("failed to create submission", "form_id", formID, "error", err)
		return nil, apperrors.NewInternalError("failed to submit form", err)
	}

	submission := SubmissionFromDataModel(dataSubmission)
	s.publish(ctx, events.NewSubmissionCreatedEvent(form.DepartmentID, formID, submission.ID, submission))

	s.logger.Info("form submission recorded", "form_id", formID, "submission_id", submission.ID)
	return submission, nil
}

func (s *Service) GetSubmissions(formID uuid.UUID, limit, offset int) ([]*Submission, error) {
	dataForm, err := s.repo.GetByID(formID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list submissions", err)
	}
	if dataForm == nil {
		return nil, apperrors.ErrFormNotFound
	}

	rows, err := s.repo.GetSubmissions(formID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get submissions", "form_id", formID, "error", err)
		return nil, apperrors.NewInternalError("failed to list submissions", err)
	}

	submissions := make([]*Submission, 0, len(rows))
	for _, row := range rows {
		submissions = append(submissions, SubmissionFromDataModel(row))
	}
	return submissions, nil
}

func (s *Service) GetSubmission(id uuid.UUID) (*Submission, error) {
	row, err := s.repo.GetSubmission(id)
	if err != nil {
		s.logger.Error("failed to get submission", "submission_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get submission", err)
	}
	if row == nil {
		return nil, apperrors.ErrSubmissionNotFound
	}
	return SubmissionFromDataModel(row), nil
}

func (s *Service) GetSchemaVersions(formID uuid.UUID) ([]*SchemaVersion, error) {
	dataForm, err := s.repo.GetByID(formID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list schema versions", err)
	}
	if dataForm == nil {
		return nil, apperrors.ErrFormNotFound
	}

	rows, err := s.repo.GetSchemaVersions(formID)
	if err != nil {
		s.logger.Error("failed to get schema versions", "form_id", formID, "error", err)
		return nil, apperrors.NewInternalError("failed to list schema versions", err)
	}

	versions := make([]*SchemaVersion, 0, len(rows))
	for _, row := range rows {
		versions = append(versions, SchemaVersionFromDataModel(row))
	}
	return versions, nil
}

// GrantFormPermission attaches a permission to one user for one form only.
// Duplicate grants conflict, matching user-level grant behavior.
func (s *Service) GrantFormPermission(formID uuid.UUID, dto *GrantFormPermissionDTO) error {
	dataForm, err := s.repo.GetByID(formID)
	if err != nil {
		return apperrors.NewInternalError("failed to grant form permission", err)
	}
	if dataForm == nil {
		return apperrors.ErrFormNotFound
	}

	exists, err := s.repo.HasFormGrant(formID, dto.UserID, dto.PermissionID)
	if err != nil {
		s.logger.Error("failed to check form grant", "form_id", formID, "user_id", dto.UserID, "error", err)
		return apperrors.NewInternalError("failed to grant form permission", err)
	}
	if exists {
		return apperrors.ErrAlreadyGranted
	}

	grant := &formDatamodel.FormPermission{
		ID:           uuid.New(),
		FormID:       formID,
		UserID:       dto.UserID,
		PermissionID: dto.PermissionID,
	}
	if err := s.repo.CreateFormGrant(grant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrAlreadyGranted
		}
		s.logger.Error("failed to create form grant", "form_id", formID, "user_id", dto.UserID, "error", err)
		return apperrors.NewInternalError("failed to grant form permission", err)
	}

	s.logger.Info("form permission granted", "form_id", formID, "user_id", dto.UserID, "permission_id", dto.PermissionID)
	return nil
}

func (s *Service) RevokeFormPermission(formID, userID, permissionID uuid.UUID) error {
	removed, err := s.repo.DeleteFormGrant(formID, userID, permissionID)
	if err != nil {
		s.logger.Error("failed to delete form grant", "form_id", formID, "user_id", userID, "error", err)
		return apperrors.NewInternalError("failed to revoke form permission", err)
	}
	if !removed {
		return apperrors.ErrGrantNotFound
	}

	s.logger.Info("form permission revoked", "form_id", formID, "user_id", userID, "permission_id", permissionID)
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
