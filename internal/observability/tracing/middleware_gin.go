package tracing

import (
	"net/http"

	obscontext "github.com/czttgd/breakinfo/internal/observability/context"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/czttgd/breakinfo/http"

// untraced routes are polled by infrastructure and never get spans.
var untraced = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// routeParams are copied onto the span as breakinfo.<name>.
var routeParams = []string{"id", "stage"}

// GinMiddleware opens a server span per request, continuing any trace
// carried in the incoming headers.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(instrumentationName)
	return func(c *gin.Context) {
		if _, skip := untraced[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		parent := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(parent, c.Request.Method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		route := c.FullPath()
		if route != "" {
			span.SetName(c.Request.Method + " " + route)
		}

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", c.Writer.Status()),
		}
		if id := obscontext.RequestIDFromContext(ctx); id != "" {
			attrs = append(attrs, attribute.String("request_id", id))
		}
		for _, name := range routeParams {
			if v := c.Param(name); v != "" {
				attrs = append(attrs, attribute.String("breakinfo."+name, v))
			}
		}
		span.SetAttributes(attrs...)

		if c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		for _, ginErr := range c.Errors {
			span.RecordError(ginErr.Err)
		}
		span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
	}
}
