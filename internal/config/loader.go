package config

import (
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadWithFile loads configuration from an optional YAML file, then merges
// environment variables on top. Environment variables win on conflict.
func LoadWithFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			log.WithField("path", path).Debug("config file not found, using defaults")
		default:
			return nil, err
		}
	}

	mergeEnv(cfg)
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = !(v == "false" || v == "0")
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		cfg.APIKeys = splitList(v)
	}
	if v := os.Getenv("CREDENTIAL_MODE"); v != "" {
		cfg.CredentialMode = CredentialMode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("GOOGLE_PROJECT_ID"); v != "" {
		cfg.GoogleProjectID = v
	}
	if v := os.Getenv("GOOGLE_REGION"); v != "" {
		cfg.GoogleRegion = v
	}
	if v := os.Getenv("UPSTREAM_ENDPOINT"); v != "" {
		cfg.UpstreamEndpoint = v
	}
	if v := os.Getenv("PROXY_URL"); v != "" {
		cfg.ProxyURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("REDIS_PREFIX"); v != "" {
		cfg.RedisPrefix = v
	}
}

func normalize(cfg *Config) {
	cfg.DefaultModel = strings.TrimSpace(cfg.DefaultModel)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.GoogleProjectID = strings.TrimSpace(cfg.GoogleProjectID)
	cfg.GoogleRegion = strings.TrimSpace(cfg.GoogleRegion)
	cfg.UpstreamEndpoint = strings.TrimRight(strings.TrimSpace(cfg.UpstreamEndpoint), "/")

	keys := make([]string, 0, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	cfg.APIKeys = keys
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
