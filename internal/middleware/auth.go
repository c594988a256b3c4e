package middleware

import (
	"errors"
	"net/http"
	"strings"

	"kambafy/internal/pkg/jwt"
	"kambafy/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	ctxUserID         = "user_id"
	ctxRole           = "role"
	ctxImpersonatorID = "impersonator_id"
	ctxReadOnly       = "read_only"
)

type tokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

// JWTAuth authenticates sellers and admins. Read-only impersonation tokens may only issue safe methods.
func JWTAuth(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, code, msg := BearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Abort(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		if claims.ReadOnly && !isSafeMethod(c.Request.Method) {
			response.Abort(c, http.StatusForbidden, "READ_ONLY_SESSION", "Impersonation session is read-only")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		if claims.ImpersonatorID != "" {
			c.Set(ctxImpersonatorID, claims.ImpersonatorID)
			c.Set(ctxReadOnly, claims.ReadOnly)
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header. On failure the token is empty
// and code/message describe the problem.
func BearerToken(c *gin.Context) (token, code, message string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		// Browsers cannot set headers on a websocket handshake.
		if websocket.IsWebSocketUpgrade(c.Request) {
			if t := strings.TrimSpace(c.Query("access_token")); t != "" {
				return t, "", ""
			}
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
	}
	return strings.TrimSpace(parts[1]), "", ""
}

// UserID returns the authenticated user id set by JWTAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ctxUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func Role(c *gin.Context) string { return c.GetString(ctxRole) }

func ImpersonatorID(c *gin.Context) string { return c.GetString(ctxImpersonatorID) }

func ReadOnly(c *gin.Context) bool { return c.GetBool(ctxReadOnly) }

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
