package webhook_test

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	apperrors "github.com/mustafakh994/forms-management/internal"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
	"github.com/mustafakh994/forms-management/internal/webhook"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Webhook Service", func() {
	var (
		mockRepo     *MockRepository
		service      *webhook.Service
		logger       *slog.Logger
		departmentID uuid.UUID
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = webhook.NewService(mockRepo, logger)
		departmentID = uuid.New()
	})

	Describe("CreateEndpoint", func() {
		BeforeEach(func() {
			mockRepo.AddDepartment(&departmentDatamodel.Department{
				ID:       departmentID,
				Name:     "Engineering",
				IsActive: true,
			})
		})

		It("should register an endpoint with defaults", func() {
			endpoint, err := service.CreateEndpoint(departmentID, &webhook.CreateEndpointDTO{
				URL: "https://hooks.example.com/forms",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(endpoint.Method).To(Equal(http.MethodPost))
			Expect(endpoint.IsActive).To(BeTrue())
			Expect(endpoint.DepartmentID).To(Equal(departmentID))
		})

		It("should reject an invalid URL", func() {
			_, err := service.CreateEndpoint(departmentID, &webhook.CreateEndpointDTO{
				URL: "not a url",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unsupported method", func() {
			_, err := service.CreateEndpoint(departmentID, &webhook.CreateEndpointDTO{
				URL:    "https://hooks.example.com/forms",
				Method: http.MethodDelete,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject headers that are not a JSON object", func() {
			headers := `["not","a","map"]`
			_, err := service.CreateEndpoint(departmentID, &webhook.CreateEndpointDTO{
				URL:     "https://hooks.example.com/forms",
				Headers: &headers,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should accept a JSON header map", func() {
			headers := `{"X-Api-Key":"secret"}`
			endpoint, err := service.CreateEndpoint(departmentID, &webhook.CreateEndpointDTO{
				URL:     "https://hooks.example.com/forms",
				Headers: &headers,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(endpoint.Headers).To(Equal(&headers))
		})

		It("should reject an unknown department", func() {
			_, err := service.CreateEndpoint(uuid.New(), &webhook.CreateEndpointDTO{
				URL: "https://hooks.example.com/forms",
			})
			Expect(err).To(MatchError(apperrors.ErrDepartmentNotFound))
		})

		It("should reject a deactivated department", func() {
			inactiveID := uuid.New()
			mockRepo.AddDepartment(&departmentDatamodel.Department{
				ID:       inactiveID,
				Name:     "Archived",
				IsActive: false,
			})

			_, err := service.CreateEndpoint(inactiveID, &webhook.CreateEndpointDTO{
				URL: "https://hooks.example.com/forms",
			})
			Expect(err).To(MatchError(apperrors.ErrDepartmentInactive))
		})
	})

	Describe("GetEndpoint", func() {
		It("should report not found for an unknown endpoint", func() {
			_, err := service.GetEndpoint(uuid.New())
			Expect(err).To(MatchError(apperrors.ErrWebhookNotFound))
		})
	})

	Describe("UpdateEndpoint", func() {
		var endpointID uuid.UUID

		BeforeEach(func() {
			endpointID = uuid.New()
			mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
				ID:           endpointID,
				DepartmentID: departmentID,
				URL:          "https://hooks.example.com/forms",
				Method:       http.MethodPost,
				IsActive:     true,
			})
		})

		It("should deactivate an endpoint", func() {
			inactive := false
			endpoint, err := service.UpdateEndpoint(endpointID, &webhook.UpdateEndpointDTO{
				IsActive: &inactive,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(endpoint.IsActive).To(BeFalse())
			Expect(endpoint.UpdatedAt).NotTo(BeNil())
		})

		It("should report not found for an unknown endpoint", func() {
			_, err := service.UpdateEndpoint(uuid.New(), &webhook.UpdateEndpointDTO{})
			Expect(err).To(MatchError(apperrors.ErrWebhookNotFound))
		})
	})

	Describe("DeleteEndpoint", func() {
		It("should remove an existing endpoint", func() {
			endpointID := uuid.New()
			mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
				ID:           endpointID,
				DepartmentID: departmentID,
				URL:          "https://hooks.example.com/forms",
				IsActive:     true,
			})

			Expect(service.DeleteEndpoint(endpointID)).To(Succeed())
			_, err := service.GetEndpoint(endpointID)
			Expect(err).To(MatchError(apperrors.ErrWebhookNotFound))
		})

		It("should report not found for an unknown endpoint", func() {
			err := service.DeleteEndpoint(uuid.New())
			Expect(err).To(MatchError(apperrors.ErrWebhookNotFound))
		})
	})
})
