package liveview

import (
	"context"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/realtime"

	"github.com/google/uuid"
)

// Source reads the rows a live view aggregates.
type Source interface {
	ListSince(ctx context.Context, since time.Time) ([]domain.Order, error)
	ListCheckoutSessionsSince(ctx context.Context, since time.Time) ([]domain.CheckoutSession, error)
}

type SellerDirectory interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// Broker is the realtime fan-out the coordinator listens on and publishes to.
type Broker interface {
	Subscribe(channel string, fn realtime.Listener) (unsubscribe func())
	Publish(channel, eventType string, payload any)
}

type EventStore interface {
	Upsert(ctx context.Context, o *domain.Order) error
	UpsertCheckoutSession(ctx context.Context, s *domain.CheckoutSession) error
}

type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

type AreaFinder interface {
	GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.MemberArea, error)
}

// StudentGranter gives a buyer access to the member area of a purchased course.
type StudentGranter interface {
	Grant(ctx context.Context, s *domain.MemberAreaStudent) error
}
