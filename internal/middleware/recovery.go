package middleware

import (
	"runtime/debug"
	"time"

	"gemini-proxy-go/internal/apperrors"
	common "gemini-proxy-go/internal/handlers/common"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Recovery converts panics into a normalized INTERNAL_ERROR response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				log.WithFields(log.Fields{
					"error":      err,
					"stack":      string(stack),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"user_agent": c.Request.UserAgent(),
					"timestamp":  time.Now().Format(time.RFC3339),
				}).Error("Panic recovered")

				common.AbortWithCode(c, apperrors.CodeInternal, "Internal server error")
			}
		}()

		c.Next()
	}
}
