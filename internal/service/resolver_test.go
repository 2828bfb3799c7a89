package service

import (
	"context"
	"errors"
	"testing"

	"gemini-proxy-go/internal/apperrors"
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/identity"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testKey = "caller-key-0123456789abcdef"

func newCallerKeyResolver(fallback string) *CallerKeyResolver {
	cfg := config.Default()
	cfg.GeminiAPIKey = fallback
	return NewCallerKeyResolver(cfg)
}

func TestCallerKeyResolverDefaults(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("fallback-key-0123456789")
	inv, perr := r.Resolve(context.Background(), Request{Prompt: "hi"})
	require.Nil(t, perr)
	require.Equal(t, "gemini-2.5-flash", inv.Model)
	require.Equal(t, "fallback-key-0123456789", inv.Credential)
}

func TestCallerKeyResolverPairingRule(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("fallback-key-0123456789")

	inv, perr := r.Resolve(context.Background(), Request{Model: "gemini-2.5-pro"})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeValidation, perr.Code)
	require.Contains(t, perr.Message, "model")
	require.Contains(t, perr.Message, "api_key")
	require.Empty(t, inv.Model)

	_, perr = r.Resolve(context.Background(), Request{APIKey: testKey})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeValidation, perr.Code)
	require.Contains(t, perr.Message, "model")
	require.Contains(t, perr.Message, "api_key")
}

func TestCallerKeyResolverCustomPair(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("fallback-key-0123456789")
	inv, perr := r.Resolve(context.Background(), Request{Model: " gemini-2.5-pro ", APIKey: testKey})
	require.Nil(t, perr)
	require.Equal(t, "gemini-2.5-pro", inv.Model)
	require.Equal(t, testKey, inv.Credential)
}

func TestCallerKeyResolverShortKey(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("fallback-key-0123456789")
	_, perr := r.Resolve(context.Background(), Request{Model: "gemini-2.5-pro", APIKey: "too-short"})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeConfig, perr.Code)
	require.Equal(t, "Invalid API key format", perr.Message)
}

func TestCallerKeyResolverMissingFallback(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("")
	_, perr := r.Resolve(context.Background(), Request{})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeConfig, perr.Code)
	require.Equal(t, "Gemini API key is required", perr.Message)
}

func TestCallerKeyResolverShortCustomModel(t *testing.T) {
	t.Parallel()

	r := newCallerKeyResolver("fallback-key-0123456789")
	_, perr := r.Resolve(context.Background(), Request{Model: "ab", APIKey: testKey})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeValidation, perr.Code)
	require.Equal(t, "Invalid model name format", perr.Message)
}

func newIdentityResolver(state *identity.State) *ServiceIdentityResolver {
	cfg := config.Default()
	cfg.CredentialMode = config.ModeServiceIdentity
	return NewServiceIdentityResolver(cfg, state)
}

func TestServiceIdentityResolverUsesToken(t *testing.T) {
	t.Parallel()

	state := identity.NewStaticState("proj-1", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"}))
	r := newIdentityResolver(state)

	inv, perr := r.Resolve(context.Background(), Request{Prompt: "hi"})
	require.Nil(t, perr)
	require.Equal(t, "gemini-2.5-flash", inv.Model)
	require.Equal(t, "tok-1", inv.Credential)
	require.True(t, r.ServiceIdentity())
}

func TestServiceIdentityResolverModelOverride(t *testing.T) {
	t.Parallel()

	state := identity.NewStaticState("proj-1", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"}))
	r := newIdentityResolver(state)

	inv, perr := r.Resolve(context.Background(), Request{Model: "gemini-2.5-pro"})
	require.Nil(t, perr)
	require.Equal(t, "gemini-2.5-pro", inv.Model)
}

func TestServiceIdentityResolverRejectsCallerKey(t *testing.T) {
	t.Parallel()

	state := identity.NewStaticState("proj-1", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"}))
	r := newIdentityResolver(state)

	_, perr := r.Resolve(context.Background(), Request{APIKey: testKey})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeValidation, perr.Code)
}

func TestServiceIdentityResolverBootstrapFailure(t *testing.T) {
	t.Parallel()

	state := identity.NewFailedState(errors.New("could not find default credentials"))
	r := newIdentityResolver(state)

	_, perr := r.Resolve(context.Background(), Request{Prompt: "hi"})
	require.NotNil(t, perr)
	require.Equal(t, apperrors.CodeConfig, perr.Code)
	require.Contains(t, perr.Detail, "could not find default credentials")
}
