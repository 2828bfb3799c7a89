package middleware

import (
	"strings"

	"gemini-proxy-go/internal/apperrors"
	common "gemini-proxy-go/internal/handlers/common"
	"gemini-proxy-go/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// APIKeyAuth authenticates callers against the configured key set. When no
// keys are configured, authentication is disabled. Accepted locations:
//   - X-API-KEY: <key>
//   - Authorization: Bearer <key>
func APIKeyAuth(keys []string) gin.HandlerFunc {
	valid := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			valid[k] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if len(valid) == 0 {
			c.Next()
			return
		}

		providedKey := c.GetHeader("X-API-KEY")
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				providedKey = strings.TrimSpace(authHeader[7:])
			}
		}

		if _, ok := valid[providedKey]; !ok {
			logging.WithReq(c, log.Fields{"reason": "invalid_api_key"}).Warn("auth failed")
			common.AbortWithCode(c, apperrors.CodeAuth, "Invalid API Key")
			return
		}

		c.Set("api_key", providedKey)
		c.Next()
	}
}
