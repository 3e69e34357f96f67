package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/sigchart/internal/id"
)

// requestIDMiddleware reuses the caller's X-Request-ID or mints a ULID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeaderKey)
		if rid == "" {
			rid = id.New()
		}
		c.Set(RequestIDContextKey, rid)
		c.Header(RequestIDHeaderKey, rid)
		c.Next()
	}
}

func loggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			slog.String("request_id", c.GetString(RequestIDContextKey)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
