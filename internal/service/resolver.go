package service

import (
	"context"
	"strings"

	"gemini-proxy-go/internal/apperrors"
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/identity"
)

// Resolver decides which (model, credential) pair a request actually uses.
// The implementation is selected once at process start by configuration.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (Invocation, *apperrors.ProxyError)
	// ServiceIdentity reports which credential mode is active; it selects how
	// upstream authentication failures are classified.
	ServiceIdentity() bool
}

// CallerKeyResolver implements the caller-supplied credential strategy:
// callers may supply a custom model+key pair (both or neither), otherwise the
// default model and the server's fallback key are used.
type CallerKeyResolver struct {
	defaultModel string
	fallbackKey  string
}

func NewCallerKeyResolver(cfg *config.Config) *CallerKeyResolver {
	return &CallerKeyResolver{
		defaultModel: cfg.DefaultModel,
		fallbackKey:  cfg.GeminiAPIKey,
	}
}

func (r *CallerKeyResolver) ServiceIdentity() bool { return false }

func (r *CallerKeyResolver) Resolve(_ context.Context, req Request) (Invocation, *apperrors.ProxyError) {
	hasModel := strings.TrimSpace(req.Model) != ""
	hasKey := strings.TrimSpace(req.APIKey) != ""

	if hasModel && !hasKey {
		return Invocation{}, apperrors.Validation(
			"Custom model requires custom api_key. Please provide both 'model' and 'api_key' together, or omit both to use defaults.")
	}
	if hasKey && !hasModel {
		return Invocation{}, apperrors.Validation(
			"Custom api_key requires custom model. Please provide both 'model' and 'api_key' together, or omit both to use defaults.")
	}

	model := r.defaultModel
	if hasModel {
		model = strings.TrimSpace(req.Model)
	}
	if perr := ValidateModel(model); perr != nil {
		return Invocation{}, perr
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		key = strings.TrimSpace(r.fallbackKey)
	}
	if perr := ValidateAPIKey(key); perr != nil {
		return Invocation{}, perr
	}

	return Invocation{Model: model, Credential: key}, nil
}

// ServiceIdentityResolver implements the service-identity strategy: the
// process authenticates once at startup; callers may only override the model.
type ServiceIdentityResolver struct {
	defaultModel string
	state        *identity.State
}

func NewServiceIdentityResolver(cfg *config.Config, state *identity.State) *ServiceIdentityResolver {
	return &ServiceIdentityResolver{
		defaultModel: cfg.DefaultModel,
		state:        state,
	}
}

func (r *ServiceIdentityResolver) ServiceIdentity() bool { return true }

func (r *ServiceIdentityResolver) Resolve(ctx context.Context, req Request) (Invocation, *apperrors.ProxyError) {
	// No credential ever flows through the request path in this mode.
	if strings.TrimSpace(req.APIKey) != "" {
		return Invocation{}, apperrors.Validation(
			"api_key is not accepted in service identity mode. Omit 'api_key' and let the service authenticate.")
	}

	if err := r.state.Err(); err != nil {
		return Invocation{}, apperrors.Config("Service identity is not configured").
			WithDetail(err.Error()).
			WithRemediation("Fix the service account configuration and restart the service.")
	}

	model := r.defaultModel
	if strings.TrimSpace(req.Model) != "" {
		model = strings.TrimSpace(req.Model)
	}
	if perr := ValidateModel(model); perr != nil {
		return Invocation{}, perr
	}

	token, err := r.state.AccessToken(ctx)
	if err != nil {
		return Invocation{}, apperrors.Config("Failed to obtain service identity token").
			WithDetail(err.Error())
	}

	return Invocation{Model: model, Credential: token}, nil
}
