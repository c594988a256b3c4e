package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kambafy/internal/config"
	"kambafy/internal/database/dbtest"
	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const internalToken = "internal-secret"

type nopFunctions struct{}

func (nopFunctions) Invoke(context.Context, string, any, any) error { return nil }

type testServer struct {
	app   *App
	users *repository.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{
		AppEnv:              "test",
		JWTSecret:           "jwt-secret",
		JWTAccessTTL:        time.Hour,
		MemberTokenSecret:   "member-secret",
		MemberSessionTTL:    24 * time.Hour,
		LoginRateLimit:      10,
		LoginRateWindow:     time.Minute,
		InternalToken:       internalToken,
		ProgressWriteEvery:  10 * time.Second,
		LiveRefreshInterval: time.Minute,
		LiveCommissionRate:  "0.0899",
		ImpersonationMaxTTL: time.Hour,
	}
	a, err := New(Deps{Config: cfg, DB: db, Functions: nopFunctions{}, Log: zerolog.Nop()})
	require.NoError(t, err)
	return &testServer{app: a, users: repository.NewUserRepository(db)}
}

type call struct {
	method, path string
	body         any
	bearer       string
	member       string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	if c.member != "" {
		req.Header.Set("X-Member-Token", c.member)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	return env.Data
}

type idOnly struct {
	ID string `json:"id"`
}

type hubCard struct {
	Name       string `json:"name"`
	Total      int    `json:"total_lessons"`
	Completed  int    `json:"completed_lessons"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
}

// seedCourse registers a seller and builds a one-lesson course through the API.
func seedCourse(t *testing.T, s *testServer) (sellerToken, sellerID, productID, areaID, lessonID string) {
	t.Helper()
	w := s.do(t, call{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{
		"name": "Loja Kamba", "email": "loja@kambafy.com", "password": "password123",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[struct {
		Token string `json:"token"`
		User  idOnly `json:"user"`
	}](t, w)
	sellerToken, sellerID = reg.Token, reg.User.ID

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/seller/products", bearer: sellerToken,
		body: gin.H{"name": "Curso de Excel", "price": "15000", "type": "Curso"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID = decode[idOnly](t, w).ID

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/seller/member-areas", bearer: sellerToken,
		body: gin.H{"product_id": productID, "name": "Excel do Zero"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	areaID = decode[idOnly](t, w).ID

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/seller/member-areas/" + areaID + "/modules", bearer: sellerToken,
		body: gin.H{"title": "Introdução"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	moduleID := decode[idOnly](t, w).ID

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/seller/member-areas/" + areaID + "/lessons", bearer: sellerToken,
		body: gin.H{"module_id": moduleID, "title": "Primeiros passos", "duration_seconds": 300}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lessonID = decode[idOnly](t, w).ID
	return
}

func TestE2E_PurchaseToHubProgress(t *testing.T) {
	s := newTestServer(t)
	_, _, productID, areaID, lessonID := seedCourse(t, s)

	// No purchase yet.
	w := s.do(t, call{method: http.MethodPost, path: "/api/v1/members/login", body: gin.H{"email": "aluno@example.com"}})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCESS_DENIED")

	order := gin.H{
		"id": uuid.NewString(), "product_id": productID, "amount": "15000", "currency": "AOA",
		"status": "completed", "customer_email": "Aluno@Example.com", "customer_name": "Aluno",
		"customer_country": "Angola",
	}
	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/internal/events/orders", body: order})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/internal/events/orders", bearer: internalToken, body: order})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/members/login", body: gin.H{"email": "aluno@example.com"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	member := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, member)

	hub := func() []hubCard {
		w := s.do(t, call{method: http.MethodGet, path: "/api/v1/members/hub", member: member})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[struct {
			Cards []hubCard `json:"cards"`
		}](t, w).Cards
	}

	cards := hub()
	require.Len(t, cards, 1)
	assert.Equal(t, "Excel do Zero", cards[0].Name)
	assert.Equal(t, 1, cards[0].Total)
	assert.Equal(t, 0, cards[0].Percentage)
	assert.Equal(t, "Não iniciado", cards[0].Status)

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/members/lessons/" + lessonID, member: member})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, call{method: http.MethodPut, path: "/api/v1/members/lessons/" + lessonID + "/complete", member: member,
		body: gin.H{"completed": true}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cards = hub()
	require.Len(t, cards, 1)
	assert.Equal(t, 1, cards[0].Completed)
	assert.Equal(t, 100, cards[0].Percentage)
	assert.Equal(t, "Concluído", cards[0].Status)

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/members/areas/" + areaID + "/progress", member: member})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 100, decode[struct {
		Percentage int `json:"percentage"`
	}](t, w).Percentage)

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/members/hub"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestE2E_AdminLiveViewAndImpersonation(t *testing.T) {
	s := newTestServer(t)
	_, sellerID, productID, _, _ := seedCourse(t, s)

	admin := &domain.User{Email: "admin@kambafy.com", Name: "Admin", Role: domain.RoleAdmin}
	require.NoError(t, s.users.Create(context.Background(), admin))
	adminToken, err := s.app.Tokens.GenerateToken(admin.ID.String(), string(domain.RoleAdmin))
	require.NoError(t, err)

	for _, status := range []string{"completed", "pending"} {
		w := s.do(t, call{method: http.MethodPost, path: "/api/v1/internal/events/orders", bearer: internalToken, body: gin.H{
			"id": uuid.NewString(), "product_id": productID, "amount": "15000", "currency": "AOA",
			"status": status, "customer_email": "aluno@example.com", "customer_country": "Angola",
		}})
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	}

	w := s.do(t, call{method: http.MethodPost, path: "/api/v1/admin/live/angola/refresh", bearer: adminToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap := decode[struct {
		TotalSales      decimal.Decimal `json:"total_sales"`
		CompletedOrders int             `json:"completed_orders"`
		PendingOrders   int             `json:"pending_orders"`
		OrdersByCountry map[string]int  `json:"orders_by_country"`
	}](t, w)
	assert.True(t, snap.TotalSales.Equal(decimal.NewFromInt(15000)), snap.TotalSales.String())
	assert.Equal(t, 1, snap.CompletedOrders)
	assert.Equal(t, 1, snap.PendingOrders)
	assert.Equal(t, 1, snap.OrdersByCountry["Angola"])

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/admin/live/nowhere", bearer: adminToken})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/admin/impersonate", bearer: adminToken,
		body: gin.H{"user_id": sellerID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	imp := decode[struct {
		Token    string `json:"token"`
		ReadOnly bool   `json:"read_only"`
	}](t, w)
	assert.True(t, imp.ReadOnly)

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/seller/products", bearer: imp.Token})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Curso de Excel")

	w = s.do(t, call{method: http.MethodPost, path: "/api/v1/seller/products", bearer: imp.Token,
		body: gin.H{"name": "Outro", "price": "100", "type": "Curso"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "READ_ONLY_SESSION")

	w = s.do(t, call{method: http.MethodGet, path: "/api/v1/auth/me", bearer: imp.Token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), admin.ID.String())
}

func TestE2E_Health(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
