package apperrors

import (
	"net/http"
	"strings"

	"gemini-proxy-go/internal/upstream"
)

// Substring keys used to split ambiguous provider categories. These are
// best-effort heuristics on free-form provider text, kept stable for
// compatibility; do not tighten them.
const (
	keySafety       = "safety"
	keyBlock        = "block"
	keyNotFound     = "not found"
	keyDoesNotExist = "does not exist"
	keyBilling      = "billing"
	keyDisabled     = "disabled"
	keyRate         = "rate"
	keyLimit        = "limit"
)

// statusEmptyResponse marks a transport-level success whose candidate text was
// empty after trimming. The model declining to answer is a failure for callers.
const statusEmptyResponse = "EMPTY_RESPONSE"

// ClassifyFailure collapses a raw upstream failure onto the closed error code
// set. serviceIdentity selects how authentication failures are reported:
// AUTH_ERROR points at the caller-supplied key, CREDENTIALS_ERROR at the
// process identity.
func ClassifyFailure(f *upstream.Failure, serviceIdentity bool) *ProxyError {
	if f == nil {
		return New(CodeInternal, "Internal error")
	}
	if f.Err != nil {
		return classifyTransport(f.Err)
	}

	lower := strings.ToLower(f.Message + " " + f.Status)

	if f.Status == statusEmptyResponse {
		return New(CodeAPI, "Gemini API returned an empty response.").
			WithDetail(f.Message)
	}

	// Model lookup failures can surface on several statuses; the message is
	// the reliable signal.
	if strings.Contains(lower, keyNotFound) || strings.Contains(lower, keyDoesNotExist) {
		return New(CodeModelNotFound, "Requested model not found or not accessible.").
			WithDetail(f.Message).
			WithRemediation("Check the model name or omit it to use the default model.")
	}

	switch {
	case f.StatusCode == http.StatusTooManyRequests || f.Status == "RESOURCE_EXHAUSTED":
		if strings.Contains(lower, keyRate) && strings.Contains(lower, keyLimit) {
			return New(CodeRateLimit, "Gemini API rate limit exceeded.").
				WithDetail(f.Message).
				WithRemediation("Reduce request rate and retry.")
		}
		return New(CodeQuota, "Gemini API quota exceeded. Please try again later.").
			WithDetail(f.Message).
			WithRemediation("Retry after the quota window resets.")

	case f.StatusCode == http.StatusUnauthorized || f.Status == "UNAUTHENTICATED":
		if serviceIdentity {
			return New(CodeCredentials, "Service identity credentials are invalid or expired.").
				WithDetail(f.Message).
				WithRemediation("Check the service account configuration and restart the service.")
		}
		return New(CodeAuth, "Invalid Gemini API key. Please check your credentials.").
			WithDetail(f.Message).
			WithRemediation("Verify the api_key supplied with the request.")

	case f.StatusCode == http.StatusForbidden || f.Status == "PERMISSION_DENIED":
		if strings.Contains(lower, keyBilling) && strings.Contains(lower, keyDisabled) {
			return New(CodeBillingDisabled, "Billing is disabled for the configured Google Cloud project.").
				WithDetail(f.Message).
				WithRemediation("Enable billing for the project and retry.")
		}
		return New(CodePermissionDenied, "Permission denied by the Gemini API.").
			WithDetail(f.Message).
			WithRemediation("Grant the calling identity access to the Gemini API.")

	case f.StatusCode == http.StatusBadRequest || f.Status == "INVALID_ARGUMENT" || f.Status == "FAILED_PRECONDITION":
		if strings.Contains(lower, keySafety) || strings.Contains(lower, keyBlock) {
			return New(CodeContentSafety, "Request was blocked by content safety filters.").
				WithDetail(f.Message)
		}
		// Caller input errors are surfaced verbatim.
		return New(CodeValidation, firstNonEmpty(f.Message, "Invalid request")).
			WithDetail(f.Status)

	case f.StatusCode == http.StatusNotFound || f.Status == "NOT_FOUND":
		return New(CodeModelNotFound, "Requested model not found or not accessible.").
			WithDetail(f.Message).
			WithRemediation("Check the model name or omit it to use the default model.")

	case f.StatusCode == http.StatusGatewayTimeout || f.Status == "DEADLINE_EXCEEDED":
		return New(CodeTimeout, "Gemini API request timed out.").
			WithDetail(f.Message).
			WithRemediation("Retry the request.")

	case f.StatusCode == http.StatusServiceUnavailable || f.Status == "UNAVAILABLE":
		return New(CodeServiceUnavailable, "Gemini API is temporarily unavailable.").
			WithDetail(f.Message).
			WithRemediation("Retry the request later.")
	}

	return New(CodeAPI, "Gemini API error.").WithDetail(f.Message)
}

// classifyTransport maps network-level errors by substring inspection of the
// error text, mirroring how provider categories are split above.
func classifyTransport(err error) *ProxyError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return New(CodeTimeout, "Gemini API request timed out.").
			WithDetail(msg).
			WithRemediation("Retry the request.")
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection reset"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "eof"):
		return New(CodeServiceUnavailable, "Gemini API is temporarily unavailable.").
			WithDetail(msg).
			WithRemediation("Retry the request later.")
	default:
		return New(CodeAPI, "Gemini API error.").WithDetail(msg)
	}
}

func firstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}
