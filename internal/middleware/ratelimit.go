package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/ratehub/store-rating-api/internal/httperr"
)

// LoginRateLimiter is a fixed-window per-IP limiter for the credential
// endpoints, backed by redis INCR+EXPIRE. A nil client disables it.
type LoginRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewLoginRateLimiter(client *redis.Client, limit int, window time.Duration) *LoginRateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginRateLimiter{client: client, limit: limit, window: window}
}

func (l *LoginRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:auth:%s:%d", c.ClientIP(), time.Now().Unix()/int64(l.window.Seconds()))

		ctx := c.Request.Context()
		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down must not lock everyone out.
			log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.window)
		}

		if count > int64(l.limit) {
			httperr.Abort(c, http.StatusTooManyRequests, "rate_limited", "Too many attempts. Try again shortly.")
			return
		}

		c.Next()
	}
}
