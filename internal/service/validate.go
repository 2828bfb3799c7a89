package service

import (
	"fmt"
	"strings"

	"gemini-proxy-go/internal/apperrors"
	"gemini-proxy-go/internal/constants"
)

// ValidatePrompt checks prompt presence and length. The returned message is
// surfaced to the caller verbatim.
func ValidatePrompt(prompt string) *apperrors.ProxyError {
	if strings.TrimSpace(prompt) == "" {
		return apperrors.Validation("Prompt is required")
	}
	if len(prompt) > constants.MaxPromptLength {
		return apperrors.Validation(fmt.Sprintf("Prompt too long. Maximum %d characters allowed", constants.MaxPromptLength))
	}
	return nil
}

// ValidateModel checks model name format.
func ValidateModel(name string) *apperrors.ProxyError {
	if name == "" {
		return apperrors.Validation("Model name is required")
	}
	if len(strings.TrimSpace(name)) < constants.MinModelNameLength {
		return apperrors.Validation("Invalid model name format")
	}
	return nil
}

// ValidateAPIKey checks Gemini API key format. Key problems are configuration
// errors: by the time the final key is checked it may be the server's fallback.
func ValidateAPIKey(key string) *apperrors.ProxyError {
	if key == "" {
		return apperrors.Config("Gemini API key is required")
	}
	if len(key) < constants.MinAPIKeyLength {
		return apperrors.Config("Invalid API key format")
	}
	return nil
}
