package members

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(e *env) *gin.Engine {
	r := gin.New()
	NewHandler(e.manager).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Member-Token", token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoginDeniedLooksTheSame(t *testing.T) {
	e := newEnv(t, Options{}, nil)
	r := setupRouter(e)

	invalid := doJSON(r, http.MethodPost, "/api/v1/members/login", `{"email":"nope"}`, "")
	noGrant := doJSON(r, http.MethodPost, "/api/v1/members/login", `{"email":"x@example.com"}`, "")

	assert.Equal(t, http.StatusUnauthorized, invalid.Code)
	assert.Equal(t, http.StatusUnauthorized, noGrant.Code)
	assert.Equal(t, invalid.Body.String(), noGrant.Body.String())
	assert.Contains(t, noGrant.Body.String(), "ACCESS_DENIED")
}

func TestHandler_LoginSessionCoursesLogout(t *testing.T) {
	e := newEnv(t, Options{}, nil)
	e.grant(t, "ana@example.com")
	r := setupRouter(e)

	w := doJSON(r, http.MethodPost, "/api/v1/members/login", `{"email":"ana@example.com"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp.Data.Token
	require.NotEmpty(t, token)

	w = doJSON(r, http.MethodGet, "/api/v1/members/session", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")

	w = doJSON(r, http.MethodGet, "/api/v1/members/courses", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Marketing Digital")

	w = doJSON(r, http.MethodPost, "/api/v1/members/logout", "", token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/members/session", "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_AreaSessionListsOnlyItsCourse(t *testing.T) {
	e := newEnv(t, Options{}, nil)
	e.secondArea(t, "ana@example.com")
	r := setupRouter(e)

	w := doJSON(r, http.MethodPost, "/api/v1/members/login",
		`{"email":"ana@example.com","member_area_id":"`+e.area.ID.String()+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(r, http.MethodGet, "/api/v1/members/courses", "", resp.Data.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Marketing Digital")
	assert.NotContains(t, w.Body.String(), "Excel Avançado")
}

func TestHandler_SessionRequiresToken(t *testing.T) {
	e := newEnv(t, Options{}, nil)
	w := doJSON(setupRouter(e), http.MethodGet, "/api/v1/members/courses", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
