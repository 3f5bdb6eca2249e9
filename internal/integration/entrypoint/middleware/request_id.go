package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for the request id.
	RequestIDKey ContextKey = "request_id"
	// LoggerKey is the context key for the request-scoped logger.
	LoggerKey ContextKey = "logger"
)

// RequestID stamps every request with an id and a request-scoped logger.
// A valid incoming X-Request-ID is reused.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Set(string(LoggerKey), slog.Default().With("request_id", requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// LoggerFromContext returns the request-scoped logger, or the default logger.
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(string(LoggerKey)); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
