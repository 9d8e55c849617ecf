package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidName      ErrorCode = "INVALID_NAME"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidURL       ErrorCode = "INVALID_URL"
	ErrCodeInvalidMethod    ErrorCode = "INVALID_METHOD"
	ErrCodeUnknownPermID    ErrorCode = "UNKNOWN_PERMISSION_ID"

	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentInactive ErrorCode = "DEPARTMENT_INACTIVE"
	ErrCodeDuplicateCode      ErrorCode = "DEPARTMENT_CODE_EXISTS"

	ErrCodePermissionNotFound   ErrorCode = "PERMISSION_NOT_FOUND"
	ErrCodePermissionNameExists ErrorCode = "PERMISSION_NAME_EXISTS"
	ErrCodePermissionInUse      ErrorCode = "PERMISSION_IN_USE"

	ErrCodeRoleNotFound    ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeRoleNameExists  ErrorCode = "ROLE_NAME_EXISTS"
	ErrCodeSystemRole      ErrorCode = "SYSTEM_ROLE_PROTECTED"
	ErrCodeRoleWrongScope  ErrorCode = "ROLE_WRONG_DEPARTMENT"
	ErrCodeAlreadyGranted  ErrorCode = "PERMISSION_ALREADY_GRANTED"
	ErrCodeGrantNotFound   ErrorCode = "PERMISSION_GRANT_NOT_FOUND"
	ErrCodeCrossDepartment ErrorCode = "CROSS_DEPARTMENT_ACCESS"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailExists    ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrCodeUserHasData    ErrorCode = "USER_HAS_SUBMISSIONS"
	ErrCodeLastSuperAdmin ErrorCode = "LAST_SUPER_ADMIN"
	ErrCodeUserInactive   ErrorCode = "USER_INACTIVE"
	ErrCodeWrongPassword  ErrorCode = "CURRENT_PASSWORD_INCORRECT"
	ErrCodeInvalidCreds   ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken   ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired   ErrorCode = "TOKEN_EXPIRED"
	ErrCodeNotPermitted   ErrorCode = "NOT_PERMITTED"

	ErrCodeFormNotFound       ErrorCode = "FORM_NOT_FOUND"
	ErrCodeFormInactive       ErrorCode = "FORM_INACTIVE"
	ErrCodeFormHasSubmissions ErrorCode = "FORM_HAS_SUBMISSIONS"
	ErrCodeSubmissionNotFound ErrorCode = "SUBMISSION_NOT_FOUND"

	ErrCodeWebhookNotFound ErrorCode = "WEBHOOK_NOT_FOUND"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrDepartmentNotFound = NewNotFoundError("Department not found", ErrCodeDepartmentNotFound)
	ErrDepartmentInactive = NewValidationError("Invalid or inactive department", ErrCodeDepartmentInactive)
	ErrDuplicateCode      = NewConflictError("Department with this code already exists", ErrCodeDuplicateCode)

	ErrPermissionNotFound   = NewNotFoundError("Permission not found", ErrCodePermissionNotFound)
	ErrPermissionNameExists = NewConflictError("Permission with this name already exists in the department", ErrCodePermissionNameExists)
	ErrPermissionInUse      = NewConflictError("Permission is referenced by roles or grants; deactivate it instead", ErrCodePermissionInUse)

	ErrRoleNotFound   = NewNotFoundError("Role not found", ErrCodeRoleNotFound)
	ErrRoleNameExists = NewConflictError("Role with this name already exists in the department", ErrCodeRoleNameExists)
	ErrSystemRole     = NewValidationError("System roles cannot be modified or deleted", ErrCodeSystemRole)
	ErrRoleWrongScope = NewValidationError("Role does not belong to the user's department", ErrCodeRoleWrongScope)

	ErrAlreadyGranted = NewConflictError("User already has this permission", ErrCodeAlreadyGranted)
	ErrGrantNotFound  = NewNotFoundError("Permission grant not found", ErrCodeGrantNotFound)

	ErrUserNotFound   = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmailExists    = NewConflictError("User with this email already exists", ErrCodeEmailExists)
	ErrUserHasData    = NewConflictError("Cannot delete user with existing form submissions; deactivate the user instead", ErrCodeUserHasData)
	ErrLastSuperAdmin = NewConflictError("Cannot remove or deactivate the last super admin account", ErrCodeLastSuperAdmin)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCreds)
	ErrUserInactive       = NewForbiddenError("User account is deactivated", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrNotPermitted       = NewForbiddenError("Insufficient permissions", ErrCodeNotPermitted)

	ErrFormNotFound       = NewNotFoundError("Form not found", ErrCodeFormNotFound)
	ErrFormInactive       = NewValidationError("Form is not active and cannot accept submissions", ErrCodeFormInactive)
	ErrFormHasSubmissions = NewConflictError("Cannot delete form with existing submissions; deactivate the form instead", ErrCodeFormHasSubmissions)
	ErrSubmissionNotFound = NewNotFoundError("Form submission not found", ErrCodeSubmissionNotFound)

	ErrWebhookNotFound = NewNotFoundError("Webhook endpoint not found", ErrCodeWebhookNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
