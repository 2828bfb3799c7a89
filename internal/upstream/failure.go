package upstream

import "fmt"

// Failure captures a raw upstream failure before classification.
// Exactly one of two shapes occurs: an HTTP-level provider error
// (StatusCode > 0, Status carries the google.rpc status string when the
// provider returned one) or a transport-level error (Err != nil, StatusCode 0).
type Failure struct {
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.Err != nil {
		return fmt.Sprintf("upstream transport error: %v", f.Err)
	}
	return fmt.Sprintf("upstream error %d %s: %s", f.StatusCode, f.Status, f.Message)
}

// NewHTTPFailure wraps a provider error response.
func NewHTTPFailure(statusCode int, status, message string) *Failure {
	return &Failure{StatusCode: statusCode, Status: status, Message: message}
}

// NewTransportFailure wraps a network-level error.
func NewTransportFailure(err error) *Failure {
	return &Failure{Err: err}
}
