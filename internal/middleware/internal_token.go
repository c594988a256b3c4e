package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// InternalTokenAuth protects the event ingest endpoints used by the payment back end.
func InternalTokenAuth(expected string, allowedIPs []string, log zerolog.Logger) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = true
	}

	return func(c *gin.Context) {
		if len(allowed) > 0 && !allowed[c.ClientIP()] {
			logAuthFailure(c, log, http.StatusForbidden, "ip_not_allowed")
			response.Abort(c, http.StatusForbidden, "AUTH_INVALID", "IP not allowed")
			return
		}

		if expected == "" {
			logAuthFailure(c, log, http.StatusInternalServerError, "token_not_configured")
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal token is not configured")
			return
		}

		token, code, msg := BearerToken(c)
		if token == "" {
			logAuthFailure(c, log, http.StatusUnauthorized, strings.ToLower(code))
			response.Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			logAuthFailure(c, log, http.StatusForbidden, "invalid_token")
			response.Abort(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			return
		}

		c.Next()
	}
}

func logAuthFailure(c *gin.Context, log zerolog.Logger, status int, reason string) {
	log.Warn().
		Int("status", status).
		Str("request_id", requestID(c)).
		Str("client_ip", c.ClientIP()).
		Str("reason", reason).
		Msg("internal auth rejected")
}
