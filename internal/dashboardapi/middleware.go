package dashboardapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contextKeyRequestID  = "request_id"
	contextKeyLogger     = "logger"
	contextKeyAuthClaims = "auth_claims"
	headerRequestID      = "X-Request-ID"
)

// requestIDMiddleware propagates an inbound X-Request-ID or mints one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(contextKeyRequestID, requestID)
		ctx.Header(headerRequestID, requestID)
		ctx.Next()
	}
}

// requestLoggerMiddleware logs one line per request and stores a request-scoped logger.
func requestLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		requestLogger := logger.With(
			zap.String("request_id", ctx.GetString(contextKeyRequestID)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
		)
		ctx.Set(contextKeyLogger, requestLogger)

		ctx.Next()

		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", ctx.ClientIP()),
			zap.Int("body_size", ctx.Writer.Size()),
		}
		if query := ctx.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(ctx.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", ctx.Errors.Errors()))
		}
		switch status := ctx.Writer.Status(); {
		case status >= 500:
			requestLogger.Error("http request", fields...)
		case status >= 400:
			requestLogger.Warn("http request", fields...)
		default:
			requestLogger.Info("http request", fields...)
		}
	}
}

func requestLogger(ctx *gin.Context) *zap.Logger {
	if value, ok := ctx.Get(contextKeyLogger); ok {
		if logger, ok := value.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}
