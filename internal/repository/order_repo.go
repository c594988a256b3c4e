package repository

import (
	"context"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Upsert inserts the order or overwrites every column of an existing one.
func (r *OrderRepository) Upsert(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(o).Error
}

func (r *OrderRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListCompletedBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, domain.OrderCompleted).
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListCompleted(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Where("status = ?", domain.OrderCompleted).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) UpsertCheckoutSession(ctx context.Context, s *domain.CheckoutSession) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
}

func (r *OrderRepository) ListCheckoutSessionsSince(ctx context.Context, since time.Time) ([]domain.CheckoutSession, error) {
	var sessions []domain.CheckoutSession
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Find(&sessions).Error
	return sessions, err
}
