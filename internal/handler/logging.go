package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID  = "X-Request-ID"
	contextRequestID = "request_id"
)

// RequestIDMiddleware propagates X-Request-ID or generates a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(contextRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// RequestID returns the request id set by RequestIDMiddleware
func RequestID(c *gin.Context) string {
	return c.GetString(contextRequestID)
}

// LoggerMiddleware creates a structured logging middleware
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", RequestID(c)),
			zap.Duration("latency", time.Since(start)),
			zap.Int("size", c.Writer.Size()),
		}
		if userID := UserID(c); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		// query strings are not logged, refresh tokens must never reach logs
		logger.Info("HTTP request", fields...)
	}
}
