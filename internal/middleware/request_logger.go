package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// unmatchedRoute labels requests that hit no registered route
const unmatchedRoute = "unmatched"

// RequestLogger logs one line per request, labelled with the matched route
// template so generation and health traffic can be told apart
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		fields := []zap.Field{
			zap.String("route", route),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
			zap.String("client_ip", c.ClientIP()),
		}
		if route == unmatchedRoute {
			fields = append(fields, zap.String("path", c.Request.URL.Path))
		}
		if id := GetRequestID(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		level, msg := logLevel(status)
		if ce := logger.Check(level, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}

func logLevel(status int) (zapcore.Level, string) {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel, "request failed"
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel, "client error"
	default:
		return zapcore.InfoLevel, "request"
	}
}
