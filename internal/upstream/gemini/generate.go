package gemini

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/monitoring"
	"gemini-proxy-go/internal/monitoring/tracing"
	"gemini-proxy-go/internal/upstream"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// GenerateText issues exactly one generation call with the fixed generation
// profile and a bounded wait. It returns the trimmed candidate text or a raw
// failure carrying the provider's native category and message. No retries.
func (c *Client) GenerateText(ctx context.Context, model, credential, prompt string) (string, *upstream.Failure) {
	ctx, cancel := context.WithTimeout(ctx, constants.UpstreamGenerateTimeout)
	defer cancel()

	spanCtx, span := tracing.StartSpan(ctx, "upstream/gemini", "Gemini.GenerateContent",
		trace.WithAttributes(
			attribute.String("gemini.model", model),
			attribute.Int("gemini.prompt_length", len(prompt)),
		))
	defer span.End()

	payload := buildGeneratePayload(prompt)
	req, err := http.NewRequestWithContext(spanCtx, http.MethodPost, c.generateURL(model), bytes.NewReader(payload))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", upstream.NewTransportFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, credential)

	start := time.Now()
	resp, err := c.cli.Do(req)
	monitoring.UpstreamRequestDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.UpstreamRequestsTotal.WithLabelValues(model, "error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return "", upstream.NewTransportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	monitoring.UpstreamRequestsTotal.WithLabelValues(model, monitoring.StatusClass(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", upstream.NewTransportFailure(err)
	}

	if resp.StatusCode >= 400 {
		status := gjson.GetBytes(body, "error.status").String()
		message := gjson.GetBytes(body, "error.message").String()
		if message == "" {
			message = truncate(string(body), 200)
		}
		span.SetStatus(codes.Error, message)
		return "", upstream.NewHTTPFailure(resp.StatusCode, status, message)
	}
	return extractText(body)
}

// buildGeneratePayload assembles the generateContent body with the fixed,
// non-configurable generation profile.
func buildGeneratePayload(prompt string) []byte {
	body := []byte(`{}`)
	body, _ = sjson.SetBytes(body, "contents.0.role", "user")
	body, _ = sjson.SetBytes(body, "contents.0.parts.0.text", prompt)
	body, _ = sjson.SetBytes(body, "generationConfig.temperature", constants.GenerationTemperature)
	body, _ = sjson.SetBytes(body, "generationConfig.topP", constants.GenerationTopP)
	body, _ = sjson.SetBytes(body, "generationConfig.topK", constants.GenerationTopK)
	body, _ = sjson.SetBytes(body, "generationConfig.maxOutputTokens", constants.MaxOutputTokens)
	return body
}

// extractText pulls the first candidate's text parts out of a 2xx response.
// Safety blocks surface as provider-style INVALID_ARGUMENT failures so that
// classification sees the same category the API uses for blocked input.
func extractText(body []byte) (string, *upstream.Failure) {
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", upstream.NewHTTPFailure(http.StatusBadRequest, "INVALID_ARGUMENT",
			"Prompt blocked by safety filters: "+reason)
	}

	var b strings.Builder
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		b.WriteString(part.Get("text").String())
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		finish := gjson.GetBytes(body, "candidates.0.finishReason").String()
		if finish == "SAFETY" {
			return "", upstream.NewHTTPFailure(http.StatusBadRequest, "INVALID_ARGUMENT",
				"Response blocked by safety filters")
		}
		message := "model returned no text"
		if finish != "" {
			message += " (finishReason=" + finish + ")"
		}
		return "", upstream.NewHTTPFailure(http.StatusOK, "EMPTY_RESPONSE", message)
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
