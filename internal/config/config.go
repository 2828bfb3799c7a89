package config

import (
	"fmt"
	"strings"

	"gemini-proxy-go/internal/constants"
)

// CredentialMode selects how upstream credentials are resolved.
// The mode is fixed at process start; callers cannot switch it per request.
type CredentialMode string

const (
	// ModeAPIKey lets callers optionally supply their own model+key pair,
	// falling back to the server's Gemini API key.
	ModeAPIKey CredentialMode = "api_key"
	// ModeServiceIdentity authenticates once at startup with the ambient
	// Google service identity; no credential flows through the request path.
	ModeServiceIdentity CredentialMode = "service_identity"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	// Server settings
	Port    int    `yaml:"port" json:"port"`
	Debug   bool   `yaml:"debug" json:"debug"`
	LogFile string `yaml:"log_file" json:"log_file"`

	// Caller auth settings
	APIKeys []string `yaml:"api_keys" json:"api_keys"`

	// Upstream settings
	CredentialMode   CredentialMode `yaml:"credential_mode" json:"credential_mode"`
	DefaultModel     string         `yaml:"default_model" json:"default_model"`
	GeminiAPIKey     string         `yaml:"gemini_api_key" json:"gemini_api_key"`
	GoogleProjectID  string         `yaml:"google_project_id" json:"google_project_id"`
	GoogleRegion     string         `yaml:"google_region" json:"google_region"`
	UpstreamEndpoint string         `yaml:"upstream_endpoint" json:"upstream_endpoint"`
	ProxyURL         string         `yaml:"proxy_url" json:"proxy_url"`

	// Usage stats storage
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"redis_password"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix" json:"redis_prefix"`
}

// Default returns the baseline configuration before file/env merging.
func Default() *Config {
	return &Config{
		Port:           5001,
		CredentialMode: ModeAPIKey,
		DefaultModel:   constants.DefaultModel,
		GoogleRegion:   "us-central1",
		RedisPrefix:    "gemini_proxy:",
	}
}

// IsServiceIdentity reports whether the process runs in service identity mode.
func (c *Config) IsServiceIdentity() bool {
	return c.CredentialMode == ModeServiceIdentity
}

// Validate rejects configurations the process cannot run with. Missing
// credentials are deliberately not checked here: they degrade individual
// requests to CONFIG_ERROR instead of preventing startup.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.CredentialMode {
	case ModeAPIKey, ModeServiceIdentity:
	default:
		return fmt.Errorf("unknown credential_mode %q", c.CredentialMode)
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return fmt.Errorf("default_model must not be empty")
	}
	if c.IsServiceIdentity() && strings.TrimSpace(c.GoogleRegion) == "" {
		return fmt.Errorf("google_region is required in service_identity mode")
	}
	return nil
}
