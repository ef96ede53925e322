package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/logging"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceParentHeader = "traceparent"
)

// traceID picks the request's trace id: the active span first, then the
// W3C traceparent header, then X-Trace-ID, and finally a fresh random id.
// Client-supplied ids are used only when they are 32 lowercase hex digits
// and not all zeros.
func traceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	// version-traceid-parentid-flags
	if parts := strings.Split(c.GetHeader(TraceParentHeader), "-"); len(parts) == 4 && validTraceID(parts[1]) {
		return parts[1]
	}

	if id := c.GetHeader(TraceIDHeader); validTraceID(id) {
		return id
	}

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return "unknown"
	}
	return id
}

func validTraceID(id string) bool {
	_, err := trace.TraceIDFromHex(id)
	return err == nil
}

type loggerKey struct{}

// withLogger stores a request scoped logger in ctx.
func withLogger(ctx context.Context, l logging.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the request logger, or fallback when there is none.
func loggerFrom(ctx context.Context, fallback logging.Logger) logging.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logging.Logger); ok {
		return l
	}
	return fallback
}

// accessLog tags every request with a trace id and writes one line per
// request once the handler chain has finished.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := traceID(c)

		l := s.logger.With("trace_id", id)
		c.Request = c.Request.WithContext(withLogger(c.Request.Context(), l))
		c.Header(TraceIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}

		if status >= 500 {
			l.Error(c.Request.Context(), "HTTP request", args...)
		} else {
			l.Info(c.Request.Context(), "HTTP request", args...)
		}
	}
}
