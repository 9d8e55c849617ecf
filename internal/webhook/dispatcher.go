package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	webhookDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/webhook"
)

const defaultDeliveryTimeout = 30 * time.Second

// Envelope is the payload delivered to every registered endpoint.
type Envelope struct {
	EventType    string      `json:"event_type"`
	DepartmentID uuid.UUID   `json:"department_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Data         interface{} `json:"data"`
}

// Dispatcher fans an event out to every active endpoint of a department.
// Deliveries are best effort: individual failures are logged and never
// surfaced to the caller.
type Dispatcher struct {
	repo            RepositoryAPI
	client          *http.Client
	deliveryTimeout time.Duration
	logger          *slog.Logger
}

func NewDispatcher(repo RepositoryAPI, deliveryTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	if deliveryTimeout <= 0 {
		deliveryTimeout = defaultDeliveryTimeout
	}
	return &Dispatcher{
		repo:            repo,
		client:          &http.Client{},
		deliveryTimeout: deliveryTimeout,
		logger:          logger,
	}
}

// Dispatch serializes the event envelope once and posts it concurrently to
// every active endpoint registered for the department, waiting for all
// deliveries to finish. It reports false only when the fan-out itself could
// not be set up; delivery failures still return true.
func (d *Dispatcher) Dispatch(departmentID uuid.UUID, eventType string, data interface{}) bool {
	endpoints, err := d.repo.GetActiveByDepartment(departmentID)
	if err != nil {
		d.logger.Error("webhook dispatch failed to load endpoints",
			"department_id", departmentID,
			"event_type", eventType,
			"error", err)
		return false
	}

	if len(endpoints) == 0 {
		return true
	}

	envelope := Envelope{
		EventType:    eventType,
		DepartmentID: departmentID,
		Timestamp:    time.Now().UTC(),
		Data:         data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		d.logger.Error("webhook dispatch failed to serialize payload",
			"department_id", departmentID,
			"event_type", eventType,
			"error", err)
		return false
	}

	d.logger.Info("dispatching webhook event",
		"department_id", departmentID,
		"event_type", eventType,
		"endpoint_count", len(endpoints))

	var wg sync.WaitGroup
	for _, endpoint := range endpoints {
		wg.Add(1)
		go func(ep *webhookDatamodel.Endpoint) {
			defer wg.Done()
			d.deliver(ep, eventType, payload)
		}(endpoint)
	}
	wg.Wait()

	return true
}

// deliver posts the payload to one endpoint. The timeout covers the whole
// delivery and starts when the delivery starts, independent of the
// triggering request's lifetime.
func (d *Dispatcher) deliver(endpoint *webhookDatamodel.Endpoint, eventType string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), d.deliveryTimeout)
	defer cancel()

	method := endpoint.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		d.logger.Error("webhook delivery failed to build request",
			"endpoint_id", endpoint.ID,
			"url", endpoint.URL,
			"event_type", eventType,
			"error", err)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	d.applyCustomHeaders(req, endpoint)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("webhook delivery failed",
			"endpoint_id", endpoint.ID,
			"url", endpoint.URL,
			"event_type", eventType,
			"error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.logger.Warn("webhook delivery returned non-success status",
			"endpoint_id", endpoint.ID,
			"url", endpoint.URL,
			"event_type", eventType,
			"status_code", resp.StatusCode)
		return
	}

	d.logger.Info("webhook delivered",
		"endpoint_id", endpoint.ID,
		"url", endpoint.URL,
		"event_type", eventType,
		"status_code", resp.StatusCode)
}

// applyCustomHeaders decodes the endpoint's stored header map and adds each
// entry to the request. A malformed header document downgrades the delivery
// to default headers only. Content-Type stays application/json either way.
func (d *Dispatcher) applyCustomHeaders(req *http.Request, endpoint *webhookDatamodel.Endpoint) {
	if endpoint.Headers == nil || *endpoint.Headers == "" {
		return
	}

	var headers map[string]string
	if err := json.Unmarshal([]byte(*endpoint.Headers), &headers); err != nil {
		d.logger.Warn("webhook endpoint has malformed headers, sending without custom headers",
			"endpoint_id", endpoint.ID,
			"url", endpoint.URL,
			"error", err)
		return
	}

	for key, value := range headers {
		if http.CanonicalHeaderKey(key) == "Content-Type" {
			continue
		}
		req.Header.Set(key, value)
	}
}
