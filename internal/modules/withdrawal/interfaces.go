package withdrawal

import (
	"context"

	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
)

type Store interface {
	WithTx(ctx context.Context, fn func(tx *repository.WithdrawalRepository) error) error
	CompletedOrders(ctx context.Context, sellerID uuid.UUID) ([]domain.Order, error)
	AllCompletedOrders(ctx context.Context) ([]domain.Order, error)
	Reserved(ctx context.Context, sellerID uuid.UUID) ([]domain.WithdrawalRequest, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.WithdrawalRequest, error)
	List(ctx context.Context, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListSellers(ctx context.Context) ([]domain.User, error)
}
