package apperrors

import "net/http"

// Code is the closed set of caller-facing error codes. The set and its HTTP
// mapping are part of the API contract; adding a code is a compatibility event.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeContentSafety      Code = "CONTENT_SAFETY_ERROR"
	CodeAuth               Code = "AUTH_ERROR"
	CodeCredentials        Code = "CREDENTIALS_ERROR"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeBillingDisabled    Code = "BILLING_DISABLED"
	CodeModelNotFound      Code = "MODEL_NOT_FOUND"
	CodeQuota              Code = "QUOTA_ERROR"
	CodeRateLimit          Code = "RATE_LIMIT_ERROR"
	CodeTimeout            Code = "TIMEOUT_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeConfig             Code = "CONFIG_ERROR"
	CodeAPI                Code = "API_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// httpStatusByCode is fixed process-wide and never mutated at runtime.
var httpStatusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeContentSafety:      http.StatusBadRequest,
	CodeAuth:               http.StatusUnauthorized,
	CodeCredentials:        http.StatusUnauthorized,
	CodePermissionDenied:   http.StatusForbidden,
	CodeBillingDisabled:    http.StatusForbidden,
	CodeModelNotFound:      http.StatusNotFound,
	CodeQuota:              http.StatusTooManyRequests,
	CodeRateLimit:          http.StatusTooManyRequests,
	CodeTimeout:            http.StatusGatewayTimeout,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeConfig:             http.StatusInternalServerError,
	CodeAPI:                http.StatusInternalServerError,
	CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status implied by the code.
func (c Code) HTTPStatus() int {
	if status, ok := httpStatusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether callers may retry later without changing the request.
func (c Code) IsRetryable() bool {
	switch c {
	case CodeQuota, CodeRateLimit, CodeTimeout, CodeServiceUnavailable:
		return true
	}
	return false
}
