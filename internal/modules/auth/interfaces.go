package auth

import (
	"context"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
)

// UserRepository is the subset of the user store auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
	TTL() time.Duration
}

// RateLimiter is satisfied by kv.Store.
type RateLimiter interface {
	AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}
