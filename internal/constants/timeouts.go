package constants

import "time"

const (
	// UpstreamGenerateTimeout bounds a single upstream generation call.
	UpstreamGenerateTimeout = 30 * time.Second
	// IdentityBootstrapTimeout bounds the one-time service identity resolution at startup.
	IdentityBootstrapTimeout = 15 * time.Second
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 30 * time.Second
	// ServerGracefulWait defines post-shutdown wait window for cleanup.
	ServerGracefulWait = 2 * time.Second
)
