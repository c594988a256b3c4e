package admin

import (
	"context"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/modules/mailer"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	Search(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, int64, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string, at time.Time) error
	SetRetention(ctx context.Context, id uuid.UUID, percent decimal.Decimal) error
}

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error
}

type AuditLog interface {
	Append(ctx context.Context, l *domain.AdminActionLog) error
	List(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, int64, error)
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, name string) error
	SendBanNotice(ctx context.Context, email, name, reason string) error
	SendTestRecovery(ctx context.Context, email string) error
	SendBulkReset(ctx context.Context, recipients map[string]string) mailer.BulkResult
}

type TokenIssuer interface {
	GenerateImpersonationToken(userID, role, adminID string, ttl time.Duration, readOnly bool) (string, time.Time, error)
}
