package proxy

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"gemini-proxy-go/internal/apperrors"
	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/handlers/common"
	"gemini-proxy-go/internal/monitoring"
	"gemini-proxy-go/internal/service"
	"gemini-proxy-go/internal/stats"
)

// Handler serves the single proxy endpoint.
type Handler struct {
	svc   *service.Service
	usage *stats.UsageStats
}

func NewHandler(svc *service.Service, usage *stats.UsageStats) *Handler {
	return &Handler{svc: svc, usage: usage}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	APIKey string `json:"api_key"`
}

// Generate handles POST /gemini-proxy. The request body is a JSON object
// with a required prompt and optional model and api_key fields; the response
// is the uniform envelope either way.
func (h *Handler) Generate(c *gin.Context) {
	start := time.Now()

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		perr := apperrors.Validation("Invalid JSON body")
		h.finish(c, "", perr)
		common.AbortWithProxyError(c, perr)
		return
	}

	result := h.svc.Process(c.Request.Context(), service.Request{
		Prompt: req.Prompt,
		Model:  req.Model,
		APIKey: req.APIKey,
	})

	model := result.Model
	if model == "" {
		model = req.Model
	}
	if model == "" {
		model = constants.DefaultModel
	}
	c.Set("model", model)

	if !result.OK() {
		h.finish(c, model, result.Err)
		common.AbortWithProxyError(c, result.Err)
		return
	}

	elapsed := time.Since(start)
	h.finish(c, model, nil)
	log.WithFields(log.Fields{
		"model":       model,
		"duration_ms": elapsed.Milliseconds(),
	}).Info("request completed successfully")

	common.RespondOK(c, 200, map[string]any{
		"response": result.Text,
		"model":    model,
		"time":     elapsed.Milliseconds(),
	})
}

// finish records the outcome metric and usage counters. Stats failures never
// affect the response.
func (h *Handler) finish(c *gin.Context, model string, perr *apperrors.ProxyError) {
	outcome := "success"
	if perr != nil {
		outcome = string(perr.Code)
	}
	monitoring.ProxyResultsTotal.WithLabelValues(outcome).Inc()

	h.usage.Record(c.Request.Context(), c.GetString("api_key"), model, perr == nil)
}
