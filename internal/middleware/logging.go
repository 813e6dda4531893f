package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"eosoracle/internal/logger"
	"eosoracle/internal/uuid"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// UserKey is the context key holding the authenticated user name.
const UserKey = "user"

// RequestLogging returns a Gin middleware that logs each request with a request
// ID, method, path, status code, latency, and client IP using Zap. A valid
// X-Request-ID sent by the client is kept, otherwise a UUIDv7 is generated.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if user := c.GetString(UserKey); user != "" {
			fields = append(fields, "user", user)
		}
		logger.Get().Infow("request", fields...)
	}
}
