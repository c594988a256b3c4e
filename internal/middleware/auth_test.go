package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kambafy/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	userID := uuid.NewString()
	validToken, _ := jwtService.GenerateToken(userID, "seller")

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/protected", func(c *gin.Context) {
		id, ok := UserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": Role(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
	assert.Contains(t, w.Body.String(), "seller")
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"no header", "", "AUTH_HEADER_MISSING"},
		{"wrong scheme", "Basic dGVzdA==", "INVALID_AUTH_FORMAT"},
		{"garbage token", "Bearer invalid-jwt-here", "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuth(jwtService))
			router.GET("/protected", func(c *gin.Context) {
				t.Fatal("handler should not be reached")
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestJWTAuth_ReadOnlyImpersonationBlocksWrites(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _, err := jwtService.GenerateImpersonationToken(uuid.NewString(), "seller", uuid.NewString(), 30*time.Minute, true)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/r", func(c *gin.Context) {
		assert.NotEmpty(t, ImpersonatorID(c))
		c.Status(http.StatusOK)
	})
	router.POST("/w", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/r", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "READ_ONLY_SESSION")
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	sellerToken, _ := jwtService.GenerateToken(uuid.NewString(), "seller")

	router := gin.New()
	router.Use(JWTAuth(jwtService), AdminOnly())
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+sellerToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInternalTokenAuth(t *testing.T) {
	router := gin.New()
	router.Use(InternalTokenAuth("s3cret", nil, zerolog.Nop()))
	router.POST("/internal", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	do := func(header string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/internal", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusAccepted, do("Bearer s3cret"))
	assert.Equal(t, http.StatusForbidden, do("Bearer nope"))
	assert.Equal(t, http.StatusUnauthorized, do(""))
}

func TestInternalTokenAuth_IPAllowlist(t *testing.T) {
	router := gin.New()
	router.Use(InternalTokenAuth("s3cret", []string{"10.0.0.1"}, zerolog.Nop()))
	router.POST("/internal", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/internal", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestLogger_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCORS_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.kambafy.com"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.kambafy.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.kambafy.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJWTAuth_WebsocketQueryToken(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _ := jwtService.GenerateToken(uuid.NewString(), "admin")

	router := gin.New()
	router.Use(JWTAuth(jwtService))
	router.GET("/ws", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(upgrade bool) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+token, nil)
		if upgrade {
			req.Header.Set("Connection", "Upgrade")
			req.Header.Set("Upgrade", "websocket")
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do(true))
	assert.Equal(t, http.StatusUnauthorized, do(false))
}
