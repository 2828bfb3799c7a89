package constants

import "time"

// Outbound HTTP connection pool settings, shared across concurrent requests.
const (
	MaxIdleConns        = 64
	MaxIdleConnsPerHost = 20
	IdleConnTimeout     = 90 * time.Second

	DefaultKeepAlive = 30 * time.Second
)

const (
	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultExpectContinueTimeout = 2 * time.Second
)
