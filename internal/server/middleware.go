package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
	unmatchedRoute  = "unmatched"
)

// LoggerMiddleware logs one line per request and records its metrics.
func LoggerMiddleware(log logger.Interface, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.HTTPRequest(c.Request.Method, route, status, duration)

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", duration,
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			fields = append(fields, "query", query)
		}
		if !strings.HasPrefix(path, "/health") {
			fields = append(fields, "user_agent", c.Request.UserAgent())
		}

		reqLog := log
		if id := c.GetString(requestIDKey); id != "" {
			reqLog = log.WithRequestID(id)
		}
		if len(c.Errors) > 0 {
			reqLog.Error("HTTP request with errors", append(fields, "errors", c.Errors.Errors())...)
			return
		}
		reqLog.Info("HTTP request", fields...)
	}
}

// RecoveryMiddleware turns a handler panic into a 500 response.
func RecoveryMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// RequestIDMiddleware propagates X-Request-ID, generating one when absent
// or oversized.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
