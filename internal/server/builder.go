package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/constants"
	"gemini-proxy-go/internal/handlers/proxy"
	"gemini-proxy-go/internal/middleware"
	"gemini-proxy-go/internal/service"
	"gemini-proxy-go/internal/stats"
	"gemini-proxy-go/internal/storage"
)

// Dependencies carries the runtime services the engine routes to.
type Dependencies struct {
	Service *service.Service
	Usage   *stats.UsageStats
	Storage storage.Backend
}

// BuildEngine constructs the Gin engine with the full middleware chain and
// all routes. Caller auth applies only to the proxy endpoint; health and
// metrics stay open.
func BuildEngine(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.Metrics(),
	)

	handler := proxy.NewHandler(deps.Service, deps.Usage)
	engine.POST("/gemini-proxy", middleware.APIKeyAuth(cfg.APIKeys), handler.Generate)

	engine.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if deps.Storage != nil {
			if err := deps.Storage.Health(c.Request.Context()); err != nil {
				status = "degraded"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"service": constants.ServiceName,
			"version": constants.ServiceVersion,
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}
