package members

import (
	"errors"
	"net/http"
	"strings"

	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const ctxSession = "member_session"

// RequireSession authenticates a member token from X-Member-Token or a bearer header.
func RequireSession(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := memberToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Member session required")
			return
		}

		s, err := m.Current(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, ErrSessionExpired):
			response.Abort(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired, please log in again")
			return
		case errors.Is(err, ErrSessionNotFound):
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Member session required")
			return
		default:
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not verify session")
			return
		}

		c.Set(ctxSession, s)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

func memberToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader("X-Member-Token")); t != "" {
		return t
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
