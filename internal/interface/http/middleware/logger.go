package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/tracing"
)

const (
	// RequestIDHeader is echoed back, or generated when the client sent none.
	RequestIDHeader = "X-Request-ID"

	slowRequest = 3 * time.Second
)

// RequestLogger tags every request with a request id, puts a request scoped
// zap logger in the request context and logs the outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := c.Request.Context()
		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLogger := logger.L().With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// Logged from the final request context, which may carry the user id.
		log := logger.FromContext(c.Request.Context())
		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			entry = append(entry, zap.String("errors", c.Errors.String()))
		}

		switch {
		case latency > slowRequest:
			log.Warn("slow request", entry...)
		case c.Writer.Status() >= 500:
			log.Error("request", entry...)
		default:
			log.Info("request", entry...)
		}
	}
}
