package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"auction-lifecycle/internal/lifecycleerrors"
	"auction-lifecycle/internal/ratelimit"
	"auction-lifecycle/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":    c.Request.Method,
		"path":      c.Request.URL.Path,
		"status":    c.Writer.Status(),
		"latency":   time.Since(start).String(),
		"client_ip": c.ClientIP(),
	})
}

// BearerAuth rejects requests whose Authorization header does not carry secret as a bearer
// token. An empty secret rejects everything.
func BearerAuth(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || len(expected) == 0 || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
			utils.JSONAbort(c, http.StatusUnauthorized, lifecycleerrors.ErrUnauthorized, "unauthorized")
			utils.Warn("BearerAuth: rejected request", map[string]any{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// RateLimitMiddleware throttles requests per client IP. Limiter errors let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			utils.Warn("RateLimitMiddleware: limiter error, allowing request", map[string]any{
				"client_ip": key,
				"error":     err.Error(),
			})
			c.Next()
			return
		}
		if !allowed {
			utils.JSONAbort(c, http.StatusTooManyRequests,
				fmt.Errorf("client %s: %w", key, lifecycleerrors.ErrRateLimited), "too many requests")
			utils.Warn("RateLimitMiddleware: rate limit exceeded", map[string]any{"client_ip": key})
			return
		}
		c.Next()
	}
}
