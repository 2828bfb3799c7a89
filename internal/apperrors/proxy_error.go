package apperrors

// ProxyError is the normalized failure surfaced to callers. Message is safe to
// return verbatim; Detail carries upstream/internal context and is only logged
// server-side for 5xx codes.
type ProxyError struct {
	Code        Code
	Message     string
	Detail      string
	Remediation string
}

func (e *ProxyError) Error() string {
	if e == nil {
		return ""
	}
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus returns the HTTP status implied by the error's code.
func (e *ProxyError) HTTPStatus() int { return e.Code.HTTPStatus() }

// New constructs a ProxyError with the given code and caller-facing message.
func New(code Code, message string) *ProxyError {
	return &ProxyError{Code: code, Message: message}
}

// WithDetail attaches server-side detail.
func (e *ProxyError) WithDetail(detail string) *ProxyError {
	e.Detail = detail
	return e
}

// WithRemediation attaches a remediation hint for the caller.
func (e *ProxyError) WithRemediation(hint string) *ProxyError {
	e.Remediation = hint
	return e
}

// Validation is a shorthand for caller input errors; the message is surfaced verbatim.
func Validation(message string) *ProxyError {
	return New(CodeValidation, message)
}

// Config is a shorthand for missing or broken deployment configuration.
func Config(message string) *ProxyError {
	return New(CodeConfig, message)
}
