package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ratehub/store-rating-api/internal/policy"
)

// LoggerMiddleware records one structured line per request. Bodies and
// credentials are never logged.
func LoggerMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := logger.Info()
		if c.Writer.Status() >= 500 {
			ev = logger.Error()
		}

		if id, ok := c.Get(ContextRequestID); ok {
			ev = ev.Str("request_id", id.(string))
		}
		if v, ok := c.Get(ContextPrincipal); ok {
			if p, ok := v.(policy.Principal); ok {
				ev = ev.Uint("user_id", p.UserID).Str("role", p.Role.String())
			}
		}

		ev.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}
}
