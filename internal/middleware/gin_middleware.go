package middleware

import (
	"time"

	"github.com/dalfonso89/fx-rates-service/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key holding the request ID
	RequestIDKey = "request_id"
)

// RequestLogger logs every request as a structured entry after it completes
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := logger.Fields{
			"status":     c.Writer.Status(),
			"latency":    time.Since(started).String(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
		}
		if requestID, ok := c.Get(RequestIDKey); ok {
			fields[RequestIDKey] = requestID
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		log.WithFields(fields).Info("HTTP Request")
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or assigns a UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(RequestIDKey, requestID)
		c.Next()
	}
}
