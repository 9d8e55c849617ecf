package audit_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/audit"
	auditDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/audit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Audit Service Suite")
}

// MockStore implements audit.StoreAPI for testing
type MockStore struct {
	entries    []*auditDatamodel.Log
	shouldFail bool
	failError  error
}

func (m *MockStore) Insert(entry *auditDatamodel.Log) error {
	if m.shouldFail {
		return m.failError
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockStore) ListByDepartment(departmentID uuid.UUID, limit, offset int) ([]*auditDatamodel.Log, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*auditDatamodel.Log
	for _, entry := range m.entries {
		if entry.DepartmentID == departmentID {
			result = append(result, entry)
		}
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockStore) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("Audit Service", func() {
	var (
		mockStore    *MockStore
		service      *audit.Service
		logger       *slog.Logger
		departmentID uuid.UUID
	)

	BeforeEach(func() {
		mockStore = &MockStore{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(mockStore, logger)
		departmentID = uuid.New()
	})

	Describe("Record", func() {
		It("should store an entry with the acting user and resource", func() {
			actorID := uuid.New()
			resourceID := uuid.New()
			service.Record(departmentID, &actorID, audit.ActionPermissionGranted, "user_permission", &resourceID, nil)

			Expect(mockStore.entries).To(HaveLen(1))
			entry := mockStore.entries[0]
			Expect(entry.DepartmentID).To(Equal(departmentID))
			Expect(entry.UserID).To(Equal(&actorID))
			Expect(entry.Action).To(Equal(audit.ActionPermissionGranted))
			Expect(entry.ResourceID).To(Equal(&resourceID))
		})

		It("should swallow store failures", func() {
			mockStore.SetShouldFail(true, errors.New("database error"))

			Expect(func() {
				service.Record(departmentID, nil, audit.ActionUserCreated, "user", nil, nil)
			}).NotTo(Panic())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for range [3]struct{}{} {
				service.Record(departmentID, nil, audit.ActionFormDeleted, "form", nil, nil)
			}
			service.Record(uuid.New(), nil, audit.ActionFormDeleted, "form", nil, nil)
		})

		It("should return only the department's entries", func() {
			entries, err := service.List(departmentID, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(3))
		})

		It("should honor limit and offset", func() {
			entries, err := service.List(departmentID, 2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("should surface store failures", func() {
			mockStore.SetShouldFail(true, errors.New("database error"))
			_, err := service.List(departmentID, 10, 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
