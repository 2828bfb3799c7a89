package constants

const (
	// ServiceName identifies this service in health responses and traces.
	ServiceName = "gemini-proxy"
	// ServiceVersion is reported by the health endpoint.
	ServiceVersion = "2.0.0"
)
