package repository

import (
	"context"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// WithTx runs fn with a repository bound to a single transaction.
func (r *WithdrawalRepository) WithTx(ctx context.Context, fn func(tx *WithdrawalRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&WithdrawalRepository{db: tx})
	})
}

// LockSeller takes a row lock on the seller for the rest of the transaction.
func (r *WithdrawalRepository) LockSeller(ctx context.Context, sellerID uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", sellerID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *WithdrawalRepository) CompletedOrders(ctx context.Context, sellerID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Select("id", "seller_id", "amount", "currency", "seller_commission").
		Where("seller_id = ? AND status = ?", sellerID, domain.OrderCompleted).
		Find(&orders).Error
	return orders, err
}

func (r *WithdrawalRepository) AllCompletedOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Select("id", "seller_id", "amount", "currency", "seller_commission").
		Where("status = ?", domain.OrderCompleted).
		Find(&orders).Error
	return orders, err
}

// Reserved lists requests that still count against balances. A zero sellerID means every seller.
func (r *WithdrawalRepository) Reserved(ctx context.Context, sellerID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	q := r.db.WithContext(ctx).
		Where("status IN ?", []domain.WithdrawalStatus{domain.WithdrawalPending, domain.WithdrawalApproved})
	if sellerID != uuid.Nil {
		q = q.Where("seller_id = ?", sellerID)
	}
	var out []domain.WithdrawalRequest
	err := q.Find(&out).Error
	return out, err
}

func (r *WithdrawalRepository) Create(ctx context.Context, w *domain.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WithdrawalRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) Save(ctx context.Context, w *domain.WithdrawalRequest) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WithdrawalRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	var out []domain.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("requested_at desc").
		Find(&out).Error
	return out, err
}

// List returns every request, optionally filtered by status, newest first.
func (r *WithdrawalRepository) List(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	q := r.db.WithContext(ctx).Order("requested_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.WithdrawalRequest
	err := q.Find(&out).Error
	return out, err
}

func (r *WithdrawalRepository) AppendLog(ctx context.Context, l *domain.AdminActionLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}
