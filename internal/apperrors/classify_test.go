package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"gemini-proxy-go/internal/upstream"
	"github.com/stretchr/testify/require"
)

// The splitting of ambiguous categories (safety vs validation, billing vs
// permission, rate-limit vs quota) relies on substring inspection of provider
// text. These cases pin the heuristic, not a guarantee from the provider.
func TestClassifyFailureTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		failure         *upstream.Failure
		serviceIdentity bool
		wantCode        Code
		wantStatus      int
	}{
		{
			name:       "quota exhausted",
			failure:    upstream.NewHTTPFailure(429, "RESOURCE_EXHAUSTED", "Quota exceeded for quota metric"),
			wantCode:   CodeQuota,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "rate limit distinct from quota",
			failure:    upstream.NewHTTPFailure(429, "RESOURCE_EXHAUSTED", "Rate limit exceeded, slow down"),
			wantCode:   CodeRateLimit,
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "caller key invalid",
			failure:    upstream.NewHTTPFailure(401, "UNAUTHENTICATED", "API key not valid"),
			wantCode:   CodeAuth,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:            "service identity invalid",
			failure:         upstream.NewHTTPFailure(401, "UNAUTHENTICATED", "Request had invalid authentication credentials"),
			serviceIdentity: true,
			wantCode:        CodeCredentials,
			wantStatus:      http.StatusUnauthorized,
		},
		{
			name:       "malformed request",
			failure:    upstream.NewHTTPFailure(400, "INVALID_ARGUMENT", "Invalid JSON payload received"),
			wantCode:   CodeValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "safety flagged, not validation",
			failure:    upstream.NewHTTPFailure(400, "INVALID_ARGUMENT", "The response was blocked due to SAFETY"),
			wantCode:   CodeContentSafety,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "safety marker case-insensitive",
			failure:    upstream.NewHTTPFailure(400, "INVALID_ARGUMENT", "Content violates Safety guidelines"),
			wantCode:   CodeContentSafety,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "model not found by message",
			failure:    upstream.NewHTTPFailure(400, "INVALID_ARGUMENT", "models/gemini-9000 is not found for API version v1beta"),
			wantCode:   CodeModelNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "model does not exist",
			failure:    upstream.NewHTTPFailure(404, "NOT_FOUND", "Publisher Model does not exist"),
			wantCode:   CodeModelNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:            "billing disabled, not generic permission",
			failure:         upstream.NewHTTPFailure(403, "PERMISSION_DENIED", "Billing is disabled for this project"),
			serviceIdentity: true,
			wantCode:        CodeBillingDisabled,
			wantStatus:      http.StatusForbidden,
		},
		{
			name:       "permission denied other",
			failure:    upstream.NewHTTPFailure(403, "PERMISSION_DENIED", "Caller does not have permission"),
			wantCode:   CodePermissionDenied,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "deadline exceeded",
			failure:    upstream.NewHTTPFailure(504, "DEADLINE_EXCEEDED", "Deadline expired before operation could complete"),
			wantCode:   CodeTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "service unavailable",
			failure:    upstream.NewHTTPFailure(503, "UNAVAILABLE", "The model is overloaded"),
			wantCode:   CodeServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "empty response is an API error",
			failure:    upstream.NewHTTPFailure(200, "EMPTY_RESPONSE", "model returned no text"),
			wantCode:   CodeAPI,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "other provider error",
			failure:    upstream.NewHTTPFailure(500, "INTERNAL", "An internal error has occurred"),
			wantCode:   CodeAPI,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "transport timeout",
			failure:    upstream.NewTransportFailure(errors.New("context deadline exceeded")),
			wantCode:   CodeTimeout,
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "transport connection refused",
			failure:    upstream.NewTransportFailure(errors.New("dial tcp 127.0.0.1:443: connect: connection refused")),
			wantCode:   CodeServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "transport unknown",
			failure:    upstream.NewTransportFailure(errors.New("tls: handshake failure")),
			wantCode:   CodeAPI,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "nil failure is internal",
			failure:    nil,
			wantCode:   CodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			perr := ClassifyFailure(tt.failure, tt.serviceIdentity)
			require.NotNil(t, perr)
			require.Equal(t, tt.wantCode, perr.Code)
			require.Equal(t, tt.wantStatus, perr.HTTPStatus())
		})
	}
}

func TestValidationMessageSurfacedVerbatim(t *testing.T) {
	t.Parallel()

	perr := ClassifyFailure(upstream.NewHTTPFailure(400, "INVALID_ARGUMENT", "Invalid JSON payload received"), false)
	require.Equal(t, "Invalid JSON payload received", perr.Message)
}

func TestCredentialErrorsCarryRemediation(t *testing.T) {
	t.Parallel()

	perr := ClassifyFailure(upstream.NewHTTPFailure(401, "UNAUTHENTICATED", "API key not valid"), false)
	require.NotEmpty(t, perr.Remediation)

	perr = ClassifyFailure(upstream.NewHTTPFailure(403, "PERMISSION_DENIED", "Billing disabled"), true)
	require.Equal(t, CodeBillingDisabled, perr.Code)
	require.NotEmpty(t, perr.Remediation)
}

func TestHTTPStatusMappingIsClosed(t *testing.T) {
	t.Parallel()

	codes := []Code{
		CodeValidation, CodeContentSafety, CodeAuth, CodeCredentials,
		CodePermissionDenied, CodeBillingDisabled, CodeModelNotFound,
		CodeQuota, CodeRateLimit, CodeTimeout, CodeServiceUnavailable,
		CodeConfig, CodeAPI, CodeInternal,
	}
	for _, c := range codes {
		require.Contains(t, httpStatusByCode, c)
	}
	require.Len(t, httpStatusByCode, len(codes))

	require.Equal(t, http.StatusInternalServerError, Code("UNKNOWN_CODE").HTTPStatus())
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	require.True(t, CodeQuota.IsRetryable())
	require.True(t, CodeRateLimit.IsRetryable())
	require.True(t, CodeTimeout.IsRetryable())
	require.True(t, CodeServiceUnavailable.IsRetryable())
	require.False(t, CodeValidation.IsRetryable())
	require.False(t, CodeAuth.IsRetryable())
	require.False(t, CodeInternal.IsRetryable())
}
