package webhook_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	departmentDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/department"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
	"github.com/mustafakh994/forms-management/internal/webhook"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestWebhook(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Webhook Suite")
}

// MockRepository implements webhook.RepositoryAPI for testing
type MockRepository struct {
	endpoints   map[uuid.UUID]*webhookDatamodel.Endpoint
	departments map[uuid.UUID]*departmentDatamodel.Department
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		endpoints:   make(map[uuid.UUID]*webhookDatamodel.Endpoint),
		departments: make(map[uuid.UUID]*departmentDatamodel.Department),
	}
}

func (m *MockRepository) GetDepartment(departmentID uuid.UUID) (*departmentDatamodel.Department, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	dept, ok := m.departments[departmentID]
	if !ok {
		return nil, nil
	}
	return dept, nil
}

func (m *MockRepository) GetByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*webhookDatamodel.Endpoint
	for _, ep := range m.endpoints {
		if ep.DepartmentID == departmentID {
			result = append(result, ep)
		}
	}
	return result, nil
}

func (m *MockRepository) GetActiveByDepartment(departmentID uuid.UUID) ([]*webhookDatamodel.Endpoint, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*webhookDatamodel.Endpoint
	for _, ep := range m.endpoints {
		if ep.DepartmentID == departmentID && ep.IsActive {
			result = append(result, ep)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByID(id uuid.UUID) (*webhookDatamodel.Endpoint, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	ep, ok := m.endpoints[id]
	if !ok {
		return nil, nil
	}
	return ep, nil
}

func (m *MockRepository) Create(ep *webhookDatamodel.Endpoint) error {
	if m.shouldFail {
		return m.failError
	}
	m.endpoints[ep.ID] = ep
	return nil
}

func (m *MockRepository) Update(ep *webhookDatamodel.Endpoint) error {
	if m.shouldFail {
		return m.failError
	}
	m.endpoints[ep.ID] = ep
	return nil
}

func (m *MockRepository) Delete(id uuid.UUID) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.endpoints, id)
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddEndpoint(ep *webhookDatamodel.Endpoint) {
	if ep.ID == uuid.Nil {
		ep.ID = uuid.New()
	}
	m.endpoints[ep.ID] = ep
}

func (m *MockRepository) AddDepartment(dept *departmentDatamodel.Department) {
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	m.departments[dept.ID] = dept
}

// capturedRequest records what one endpoint received
type capturedRequest struct {
	Method      string
	ContentType string
	Header      http.Header
	Body        []byte
}

// captureServer collects every request delivered to it
type captureServer struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
}

func newCaptureServer(status int) (*captureServer, *httptest.Server) {
	cs := &captureServer{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		cs.mu.Lock()
		cs.requests = append(cs.requests, capturedRequest{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Header:      r.Header.Clone(),
			Body:        body,
		})
		cs.mu.Unlock()
		w.WriteHeader(cs.status)
	}))
	return cs, srv
}

func (cs *captureServer) Requests() []capturedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]capturedRequest, len(cs.requests))
	copy(out, cs.requests)
	return out
}

var _ = Describe("Dispatcher", func() {
	var (
		mockRepo     *MockRepository
		dispatcher   *webhook.Dispatcher
		logger       *slog.Logger
		departmentID uuid.UUID
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		dispatcher = webhook.NewDispatcher(mockRepo, 5*time.Second, logger)
		departmentID = uuid.New()
	})

	Describe("Dispatch", func() {
		Context("when loading endpoints fails", func() {
			BeforeEach(func() {
				mockRepo.SetShouldFail(true, errors.New("database error"))
			})

			It("should return false", func() {
				ok := dispatcher.Dispatch(departmentID, "form.created", map[string]string{"id": "1"})
				Expect(ok).To(BeFalse())
			})
		})

		Context("when the department has no endpoints", func() {
			It("should return true without delivering anything", func() {
				ok := dispatcher.Dispatch(departmentID, "form.created", nil)
				Expect(ok).To(BeTrue())
			})
		})

		Context("when multiple endpoints are registered", func() {
			var (
				first, second           *captureServer
				firstSrv, secondSrv     *httptest.Server
				inactiveServer          *captureServer
				inactiveSrv             *httptest.Server
			)

			BeforeEach(func() {
				first, firstSrv = newCaptureServer(http.StatusOK)
				second, secondSrv = newCaptureServer(http.StatusNoContent)
				inactiveServer, inactiveSrv = newCaptureServer(http.StatusOK)

				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          firstSrv.URL,
					Method:       http.MethodPost,
					IsActive:     true,
				})
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          secondSrv.URL,
					Method:       http.MethodPost,
					IsActive:     true,
				})
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          inactiveSrv.URL,
					Method:       http.MethodPost,
					IsActive:     false,
				})
			})

			AfterEach(func() {
				firstSrv.Close()
				secondSrv.Close()
				inactiveSrv.Close()
			})

			It("should deliver the same envelope to every active endpoint", func() {
				ok := dispatcher.Dispatch(departmentID, "form.created", map[string]string{"form_id": "abc"})
				Expect(ok).To(BeTrue())

				Expect(first.Requests()).To(HaveLen(1))
				Expect(second.Requests()).To(HaveLen(1))
				Expect(first.Requests()[0].Body).To(Equal(second.Requests()[0].Body))

				var envelope map[string]interface{}
				Expect(json.Unmarshal(first.Requests()[0].Body, &envelope)).To(Succeed())
				Expect(envelope["event_type"]).To(Equal("form.created"))
				Expect(envelope["department_id"]).To(Equal(departmentID.String()))
				Expect(envelope["timestamp"]).NotTo(BeEmpty())
				Expect(envelope["data"]).To(HaveKeyWithValue("form_id", "abc"))
			})

			It("should skip inactive endpoints", func() {
				dispatcher.Dispatch(departmentID, "form.created", nil)
				Expect(inactiveServer.Requests()).To(BeEmpty())
			})

			It("should send JSON content type", func() {
				dispatcher.Dispatch(departmentID, "form.created", nil)
				Expect(first.Requests()[0].ContentType).To(Equal("application/json"))
			})
		})

		Context("when one endpoint fails", func() {
			var (
				healthy    *captureServer
				healthySrv *httptest.Server
				failingSrv *httptest.Server
				failingID  uuid.UUID
				logOutput  *bytes.Buffer
			)

			BeforeEach(func() {
				healthy, healthySrv = newCaptureServer(http.StatusOK)
				_, failingSrv = newCaptureServer(http.StatusInternalServerError)

				logOutput = &bytes.Buffer{}
				logger = slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelWarn}))
				dispatcher = webhook.NewDispatcher(mockRepo, 5*time.Second, logger)

				failingID = uuid.New()
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          healthySrv.URL,
					IsActive:     true,
				})
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					ID:           failingID,
					DepartmentID: departmentID,
					URL:          failingSrv.URL,
					IsActive:     true,
				})
			})

			AfterEach(func() {
				healthySrv.Close()
				failingSrv.Close()
			})

			It("should still return true and deliver to the healthy endpoint", func() {
				ok := dispatcher.Dispatch(departmentID, "form.updated", nil)
				Expect(ok).To(BeTrue())
				Expect(healthy.Requests()).To(HaveLen(1))
			})

			It("should log the failing endpoint with its status", func() {
				dispatcher.Dispatch(departmentID, "form.updated", nil)

				Expect(logOutput.String()).To(ContainSubstring("non-success status"))
				Expect(logOutput.String()).To(ContainSubstring(failingID.String()))
				Expect(logOutput.String()).To(ContainSubstring("status_code=500"))
			})
		})

		Context("when an endpoint is unreachable", func() {
			It("should still return true", func() {
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          "http://127.0.0.1:1/unreachable",
					IsActive:     true,
				})
				ok := dispatcher.Dispatch(departmentID, "form.deleted", nil)
				Expect(ok).To(BeTrue())
			})
		})

		Context("with custom headers", func() {
			var (
				capture *captureServer
				srv     *httptest.Server
			)

			BeforeEach(func() {
				capture, srv = newCaptureServer(http.StatusOK)
			})

			AfterEach(func() {
				srv.Close()
			})

			It("should apply the stored headers to the delivery", func() {
				headers := `{"X-Api-Key":"secret","X-Source":"forms"}`
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					Headers:      &headers,
					IsActive:     true,
				})

				dispatcher.Dispatch(departmentID, "form.created", nil)

				Expect(capture.Requests()).To(HaveLen(1))
				Expect(capture.Requests()[0].Header.Get("X-Api-Key")).To(Equal("secret"))
				Expect(capture.Requests()[0].Header.Get("X-Source")).To(Equal("forms"))
			})

			It("should never let a custom header override the content type", func() {
				headers := `{"content-type":"text/plain","X-Api-Key":"secret"}`
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					Headers:      &headers,
					IsActive:     true,
				})

				dispatcher.Dispatch(departmentID, "form.created", nil)

				Expect(capture.Requests()[0].ContentType).To(Equal("application/json"))
				Expect(capture.Requests()[0].Header.Get("X-Api-Key")).To(Equal("secret"))
			})

			It("should deliver with default headers when the stored headers are malformed", func() {
				headers := `{"X-Api-Key": broken`
				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					Headers:      &headers,
					IsActive:     true,
				})

				ok := dispatcher.Dispatch(departmentID, "form.created", nil)

				Expect(ok).To(BeTrue())
				Expect(capture.Requests()).To(HaveLen(1))
				Expect(capture.Requests()[0].ContentType).To(Equal("application/json"))
				Expect(capture.Requests()[0].Header.Get("X-Api-Key")).To(BeEmpty())
			})
		})

		Context("with a custom method", func() {
			It("should use the endpoint's configured method", func() {
				capture, srv := newCaptureServer(http.StatusOK)
				defer srv.Close()

				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					Method:       http.MethodPut,
					IsActive:     true,
				})

				dispatcher.Dispatch(departmentID, "form.updated", nil)

				Expect(capture.Requests()).To(HaveLen(1))
				Expect(capture.Requests()[0].Method).To(Equal(http.MethodPut))
			})

			It("should default to POST when no method is stored", func() {
				capture, srv := newCaptureServer(http.StatusOK)
				defer srv.Close()

				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					IsActive:     true,
				})

				dispatcher.Dispatch(departmentID, "form.updated", nil)

				Expect(capture.Requests()[0].Method).To(Equal(http.MethodPost))
			})
		})

		Context("when the payload cannot be serialized", func() {
			It("should return false before delivering", func() {
				capture, srv := newCaptureServer(http.StatusOK)
				defer srv.Close()

				mockRepo.AddEndpoint(&webhookDatamodel.Endpoint{
					DepartmentID: departmentID,
					URL:          srv.URL,
					IsActive:     true,
				})

				ok := dispatcher.Dispatch(departmentID, "form.created", func() {})
				Expect(ok).To(BeFalse())
				Expect(capture.Requests()).To(BeEmpty())
			})
		})
	})
})
