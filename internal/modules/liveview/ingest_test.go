package liveview

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kambafy/internal/database/dbtest"
	"kambafy/internal/domain"
	"kambafy/internal/realtime"
	"kambafy/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type ingestEnv struct {
	router   *gin.Engine
	hub      *realtime.Hub
	orders   *repository.OrderRepository
	students *repository.StudentRepository
	product  *domain.Product
	area     *domain.MemberArea
	seller   *domain.User
}

func newIngestEnv(t *testing.T) *ingestEnv {
	t.Helper()
	db := dbtest.New(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	areas := repository.NewMemberAreaRepository(db)

	seller := &domain.User{Email: "loja@kambafy.com", Name: "Loja", Role: domain.RoleSeller}
	require.NoError(t, users.Create(ctx, seller))
	product := &domain.Product{SellerID: seller.ID, Name: "Curso de Excel", Type: domain.ProductTypeCourse,
		Status: domain.ProductActive, Slug: "curso-de-excel", Currency: "AOA"}
	require.NoError(t, products.Create(ctx, product))
	area := &domain.MemberArea{ProductID: product.ID, SellerID: seller.ID, Name: "Excel"}
	require.NoError(t, areas.Create(ctx, area))

	env := &ingestEnv{
		hub:      realtime.NewHub(nil, zerolog.Nop()),
		orders:   repository.NewOrderRepository(db),
		students: repository.NewStudentRepository(db),
		product:  product,
		area:     area,
		seller:   seller,
	}
	ingestor := NewIngestor(env.orders, products, areas, env.students, env.hub, zerolog.Nop())

	env.router = gin.New()
	NewIngestHandler(ingestor).RegisterRoutes(env.router.Group("/internal"))
	return env
}

func (e *ingestEnv) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)
	return w
}

func TestIngest_CompletedCourseOrderGrantsAccessAndPublishes(t *testing.T) {
	env := newIngestEnv(t)
	var events []realtime.Event
	unsub := env.hub.Subscribe(realtime.ChannelOrders, func(ev realtime.Event) { events = append(events, ev) })
	defer unsub()

	orderID := uuid.NewString()
	w := env.post(t, "/internal/events/orders", gin.H{
		"id": orderID, "product_id": env.product.ID.String(), "amount": "15000", "currency": "aoa",
		"status": "completed", "customer_email": " Aluno@Example.com ", "customer_name": "Aluno",
		"customer_country": "Angola",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	ctx := context.Background()
	since := time.Now().UTC().Add(-time.Hour)
	stored, err := env.orders.ListSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, env.seller.ID, stored[0].SellerID)
	assert.Equal(t, "AOA", stored[0].Currency)
	assert.Equal(t, "aluno@example.com", stored[0].CustomerEmail)

	granted, err := env.students.HasGrant(ctx, env.area.ID, "aluno@example.com")
	require.NoError(t, err)
	assert.True(t, granted)

	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventInsert, events[0].Type)

	// Replaying the same order as an update keeps one row and one grant.
	w = env.post(t, "/internal/events/orders", gin.H{
		"type": "UPDATE", "id": orderID, "product_id": env.product.ID.String(), "amount": "15000",
		"currency": "AOA", "status": "completed", "customer_email": "aluno@example.com",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	stored, err = env.orders.ListSince(ctx, since)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	require.Len(t, events, 2)
	assert.Equal(t, realtime.EventUpdate, events[1].Type)
}

func TestIngest_PendingOrderDoesNotGrant(t *testing.T) {
	env := newIngestEnv(t)

	w := env.post(t, "/internal/events/orders", gin.H{
		"id": uuid.NewString(), "product_id": env.product.ID.String(), "amount": 100, "currency": "AOA",
		"status": "pending", "customer_email": "aluno@example.com",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	granted, err := env.students.HasGrant(context.Background(), env.area.ID, "aluno@example.com")
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestIngest_Rejections(t *testing.T) {
	env := newIngestEnv(t)

	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"missing id", gin.H{"product_id": env.product.ID.String(), "amount": "1", "currency": "AOA", "status": "completed"}, http.StatusBadRequest},
		{"bad status", gin.H{"id": uuid.NewString(), "product_id": env.product.ID.String(), "amount": "1", "currency": "AOA", "status": "paid"}, http.StatusBadRequest},
		{"zero amount", gin.H{"id": uuid.NewString(), "product_id": env.product.ID.String(), "amount": "0", "currency": "AOA", "status": "completed"}, http.StatusBadRequest},
		{"unknown product", gin.H{"id": uuid.NewString(), "product_id": uuid.NewString(), "amount": "1", "currency": "AOA", "status": "completed"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.post(t, "/internal/events/orders", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestIngest_CheckoutSession(t *testing.T) {
	env := newIngestEnv(t)
	var got []realtime.Event
	unsub := env.hub.Subscribe(realtime.ChannelCheckoutSessions, func(ev realtime.Event) { got = append(got, ev) })
	defer unsub()

	w := env.post(t, "/internal/events/checkout-sessions", gin.H{
		"id": uuid.NewString(), "product_id": env.product.ID.String(), "country": "Angola", "status": "active",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	sessions, err := env.orders.ListCheckoutSessionsSince(context.Background(), time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.CheckoutActive, sessions[0].Status)
	assert.Len(t, got, 1)
}
