package liveview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/pkg/response"
	"kambafy/internal/pkg/validator"
	"kambafy/internal/realtime"
	"kambafy/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ingestor stores order and checkout changes pushed by the payment back end and
// announces them on the realtime channels the coordinators listen to.
type Ingestor struct {
	store    EventStore
	products ProductReader
	areas    AreaFinder
	students StudentGranter
	broker   Broker
	log      zerolog.Logger
	now      func() time.Time
}

func NewIngestor(store EventStore, products ProductReader, areas AreaFinder, students StudentGranter, broker Broker, log zerolog.Logger) *Ingestor {
	return &Ingestor{
		store:    store,
		products: products,
		areas:    areas,
		students: students,
		broker:   broker,
		log:      log.With().Str("component", "ingest").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IngestOrder upserts the order and, once completed, grants the buyer access to the course area.
func (s *Ingestor) IngestOrder(ctx context.Context, ev OrderEvent) (*domain.Order, error) {
	if !ev.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidEvent)
	}
	if ev.SellerCommission != nil && ev.SellerCommission.IsNegative() {
		return nil, fmt.Errorf("%w: seller_commission must not be negative", ErrInvalidEvent)
	}

	productID := uuid.MustParse(ev.ProductID)
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnknownProduct
		}
		return nil, fmt.Errorf("load product: %w", err)
	}

	o := &domain.Order{
		ID:               uuid.MustParse(ev.ID),
		ProductID:        productID,
		SellerID:         product.SellerID,
		Amount:           ev.Amount.Round(2),
		Currency:         strings.ToUpper(ev.Currency),
		SellerCommission: ev.SellerCommission,
		Status:           domain.OrderStatus(ev.Status),
		CustomerName:     strings.TrimSpace(ev.CustomerName),
		CustomerCountry:  strings.TrimSpace(ev.CustomerCountry),
		CustomerCity:     strings.TrimSpace(ev.CustomerCity),
		PaymentMethod:    strings.TrimSpace(ev.PaymentMethod),
		CreatedAt:        s.createdAt(ev.CreatedAt),
	}
	if email, ok := validator.NormalizeEmail(ev.CustomerEmail); ok {
		o.CustomerEmail = email
	}

	if err := s.store.Upsert(ctx, o); err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}

	if o.Status == domain.OrderCompleted && product.Type == domain.ProductTypeCourse && o.CustomerEmail != "" {
		if err := s.grantAccess(ctx, o); err != nil {
			return nil, err
		}
	}

	s.broker.Publish(realtime.ChannelOrders, eventType(ev.Type), o)
	return o, nil
}

func (s *Ingestor) IngestCheckoutSession(ctx context.Context, ev CheckoutSessionEvent) (*domain.CheckoutSession, error) {
	cs := &domain.CheckoutSession{
		ID:        uuid.MustParse(ev.ID),
		ProductID: uuid.MustParse(ev.ProductID),
		Country:   strings.TrimSpace(ev.Country),
		Status:    domain.CheckoutStatus(ev.Status),
		CreatedAt: s.createdAt(ev.CreatedAt),
	}
	if err := s.store.UpsertCheckoutSession(ctx, cs); err != nil {
		return nil, fmt.Errorf("upsert checkout session: %w", err)
	}
	s.broker.Publish(realtime.ChannelCheckoutSessions, eventType(ev.Type), cs)
	return cs, nil
}

func (s *Ingestor) grantAccess(ctx context.Context, o *domain.Order) error {
	area, err := s.areas.GetByProductID(ctx, o.ProductID)
	if err != nil {
		if repository.IsNotFound(err) {
			s.log.Warn().Str("product_id", o.ProductID.String()).Msg("course sold without a member area")
			return nil
		}
		return fmt.Errorf("load member area: %w", err)
	}
	err = s.students.Grant(ctx, &domain.MemberAreaStudent{
		MemberAreaID: area.ID,
		StudentEmail: o.CustomerEmail,
		StudentName:  o.CustomerName,
	})
	if err != nil {
		return fmt.Errorf("grant member area access: %w", err)
	}
	return nil
}

func (s *Ingestor) createdAt(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return s.now()
	}
	return t.UTC()
}

func eventType(t string) string {
	if t == realtime.EventUpdate {
		return realtime.EventUpdate
	}
	return realtime.EventInsert
}

type IngestHandler struct {
	ingestor *Ingestor
}

func NewIngestHandler(ingestor *Ingestor) *IngestHandler {
	return &IngestHandler{ingestor: ingestor}
}

// RegisterRoutes expects a group already guarded by the internal token.
func (h *IngestHandler) RegisterRoutes(internal *gin.RouterGroup) {
	g := internal.Group("/events")
	g.POST("/orders", h.Orders)
	g.POST("/checkout-sessions", h.CheckoutSessions)
}

// Orders receives an order change from the payment back end.
// @Summary		Ingest order change
// @Tags		Internal
// @Param		request	body	OrderEvent	true	"order row"
// @Success		202	{object}	map[string]interface{}
// @Failure		422	{object}	map[string]interface{} "UNKNOWN_PRODUCT"
// @Router		/internal/events/orders [POST]
func (h *IngestHandler) Orders(c *gin.Context) {
	var req OrderEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	o, err := h.ingestor.IngestOrder(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEvent):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrUnknownProduct):
			response.Error(c, http.StatusUnprocessableEntity, "UNKNOWN_PRODUCT", err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not store order")
		}
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": o.ID})
}

// CheckoutSessions receives a checkout session change.
// @Summary		Ingest checkout session change
// @Tags		Internal
// @Param		request	body	CheckoutSessionEvent	true	"checkout session row"
// @Success		202	{object}	map[string]interface{}
// @Router		/internal/events/checkout-sessions [POST]
func (h *IngestHandler) CheckoutSessions(c *gin.Context) {
	var req CheckoutSessionEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	cs, err := h.ingestor.IngestCheckoutSession(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not store checkout session")
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"id": cs.ID})
}
