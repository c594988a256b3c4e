package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request and recovers from panics.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequest(c, log, start).
					Str("type", "panic").
					Err(err).
					Bytes("stack", debug.Stack()).
					Msg("request panicked")
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}
		}()

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = logRequest(c, log, start).Str("type", "server_error")
		case len(c.Errors) > 0:
			ev = logRequest(c, log, start).Str("type", "client_error")
		default:
			ev = log.Debug().
				Int("status", status).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Dur("latency", time.Since(start))
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("request")
	}
}

func logRequest(c *gin.Context, log zerolog.Logger, start time.Time) *zerolog.Event {
	return log.Error().
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("user_id", c.GetString(ctxUserID)).
		Str("role", c.GetString(ctxRole)).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start))
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
