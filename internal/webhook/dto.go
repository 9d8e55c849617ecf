package webhook

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/core/common/validation"
)

type CreateEndpointDTO struct {
	URL     string  `json:"url"`
	Method  string  `json:"method,omitempty"`
	Headers *string `json:"headers,omitempty"`
}

func (dto *CreateEndpointDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	validator.Field("url", dto.URL).Required().URL()
	if dto.Method != "" {
		validator.Field("method", dto.Method).OneOf(http.MethodPost, http.MethodPut, http.MethodPatch)
	}
	if dto.Headers != nil {
		validator.Field("headers", *dto.Headers).Custom(validHeaderMap)
	}

	return validator.Validate()
}

type UpdateEndpointDTO struct {
	URL      *string `json:"url,omitempty"`
	Method   *string `json:"method,omitempty"`
	Headers  *string `json:"headers,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (dto *UpdateEndpointDTO) Validate() *apperrors.AppError {
	validator := validation.NewValidator()

	if dto.URL != nil {
		validator.Field("url", *dto.URL).Required().URL()
	}
	if dto.Method != nil {
		validator.Field("method", *dto.Method).OneOf(http.MethodPost, http.MethodPut, http.MethodPatch)
	}
	if dto.Headers != nil {
		validator.Field("headers", *dto.Headers).Custom(validHeaderMap)
	}

	return validator.Validate()
}

type EndpointsResponse struct {
	Endpoints []*Endpoint `json:"endpoints"`
}

// validHeaderMap accepts an empty value or a JSON object of string values.
// Stored rows with unparseable headers are still delivered without custom
// headers, but new writes are checked up front.
func validHeaderMap(value interface{}) *apperrors.AppError {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	var headers map[string]string
	if err := json.Unmarshal([]byte(s), &headers); err != nil {
		return apperrors.NewValidationFieldError("headers", "headers must be a JSON object of string values", apperrors.ErrCodeValidationFailed)
	}
	return nil
}
