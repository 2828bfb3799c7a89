package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gemini-proxy-go/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, mode config.CredentialMode, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.CredentialMode = mode
	cfg.UpstreamEndpoint = srv.URL
	cfg.GoogleProjectID = "proj-1"
	cfg.GoogleRegion = "us-central1"
	return New(cfg)
}

func TestGenerateTextSuccess(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	var gotPayload []byte
	cl := newTestClient(t, config.ModeAPIKey, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotPayload, _ = io.ReadAll(r.Body)
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": "  Hi there  "}},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "test-key-0123456789abcdef", "Hello")
	require.Nil(t, failure)
	require.Equal(t, "Hi there", text)
	require.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	require.Equal(t, "test-key-0123456789abcdef", gotKey)

	require.Equal(t, "Hello", gjson.GetBytes(gotPayload, "contents.0.parts.0.text").String())
	require.InDelta(t, 0.7, gjson.GetBytes(gotPayload, "generationConfig.temperature").Float(), 1e-9)
	require.InDelta(t, 0.95, gjson.GetBytes(gotPayload, "generationConfig.topP").Float(), 1e-9)
	require.EqualValues(t, 40, gjson.GetBytes(gotPayload, "generationConfig.topK").Int())
	require.EqualValues(t, 8192, gjson.GetBytes(gotPayload, "generationConfig.maxOutputTokens").Int())
}

func TestGenerateTextServiceIdentityAuth(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	cl := newTestClient(t, config.ModeServiceIdentity, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "access-token", "Hello")
	require.Nil(t, failure)
	require.Equal(t, "ok", text)
	require.Equal(t, "/v1/projects/proj-1/locations/us-central1/publishers/google/models/gemini-2.5-flash:generateContent", gotPath)
	require.Equal(t, "Bearer access-token", gotAuth)
}

func TestGenerateTextUpstreamError(t *testing.T) {
	t.Parallel()

	cl := newTestClient(t, config.ModeAPIKey, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","message":"Quota exceeded for quota metric"}}`))
	})

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "test-key-0123456789abcdef", "Hello")
	require.Empty(t, text)
	require.NotNil(t, failure)
	require.Equal(t, http.StatusTooManyRequests, failure.StatusCode)
	require.Equal(t, "RESOURCE_EXHAUSTED", failure.Status)
	require.Contains(t, failure.Message, "Quota exceeded")
}

func TestGenerateTextEmptyResponseIsFailure(t *testing.T) {
	t.Parallel()

	cl := newTestClient(t, config.ModeAPIKey, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"   "}]},"finishReason":"STOP"}]}`))
	})

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "test-key-0123456789abcdef", "Hello")
	require.Empty(t, text)
	require.NotNil(t, failure)
	require.Equal(t, "EMPTY_RESPONSE", failure.Status)
}

func TestGenerateTextPromptBlocked(t *testing.T) {
	t.Parallel()

	cl := newTestClient(t, config.ModeAPIKey, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "test-key-0123456789abcdef", "Hello")
	require.Empty(t, text)
	require.NotNil(t, failure)
	require.Equal(t, http.StatusBadRequest, failure.StatusCode)
	require.Contains(t, failure.Message, "safety")
}

func TestGenerateTextNetworkError(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.UpstreamEndpoint = "http://127.0.0.1:1"
	cl := New(cfg)

	text, failure := cl.GenerateText(context.Background(), "gemini-2.5-flash", "test-key-0123456789abcdef", "Hello")
	require.Empty(t, text)
	require.NotNil(t, failure)
	require.Error(t, failure.Err)
	require.Zero(t, failure.StatusCode)
}
