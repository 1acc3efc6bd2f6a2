package logger

import (
	"net/http"
	"strings"
	"time"

	obscontext "github.com/czttgd/breakinfo/internal/observability/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const HeaderRequestID = "X-Request-Id"

// maxRequestIDLen bounds ids accepted from clients.
const maxRequestIDLen = 64

// quietRoutes are logged at debug so probes do not flood the log.
var quietRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
	"/ping":    true,
}

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) string
}

// GinMiddleware assigns a request id and writes one access log entry per
// request after the handler chain has run.
func GinMiddleware(base *zap.Logger, cfg MiddlewareConfig) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	base = base.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		id := requestID(c.GetHeader(HeaderRequestID))
		c.Header(HeaderRequestID, id)
		c.Set("request_id", id)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), id))

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		case quietRoutes[route]:
			level = zapcore.DebugLevel
		}

		ce := WithContext(c.Request.Context(), base).Check(level, "http_request")
		if ce == nil {
			return
		}

		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if c.Request.URL.RawQuery != "" {
			fields = append(fields, zap.String("query", c.Request.URL.RawQuery))
		}
		if last := c.Errors.Last(); last != nil {
			kind := "error"
			if cfg.ErrorClassifier != nil {
				kind = cfg.ErrorClassifier(last.Err)
			}
			fields = append(fields, zap.String("error_type", kind), zap.Error(last.Err))
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}
		ce.Write(fields...)
	}
}

// requestID keeps a well-formed client supplied id or mints a new one.
func requestID(header string) string {
	id := strings.TrimSpace(header)
	if id == "" || len(id) > maxRequestIDLen || strings.ContainsAny(id, "\r\n") {
		return uuid.NewString()
	}
	return id
}
