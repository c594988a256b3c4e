package members

import (
	"context"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/pkg/jwt"
	"kambafy/internal/repository"

	"github.com/google/uuid"
)

type EntitlementReader interface {
	ListEntitlements(ctx context.Context, email string) ([]repository.EntitlementRow, error)
}

// AreaReader looks up member areas and their published lesson counts.
type AreaReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberArea, error)
	CountPublishedLessons(ctx context.Context, areaIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error)
}

type ProgressLister interface {
	ListForAreas(ctx context.Context, email string, areaIDs []uuid.UUID, now time.Time) ([]domain.LessonProgress, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *domain.MemberSession) error
	GetByHash(ctx context.Context, hash string) (*domain.MemberSession, error)
	Revoke(ctx context.Context, hash string, at time.Time) error
}

type AuditLog interface {
	Append(ctx context.Context, l *domain.AdminActionLog) error
}

type RateLimiter interface {
	AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type TokenIssuer interface {
	GenerateMemberToken(email, name, scope, memberAreaID string) (string, string, time.Time, error)
	ParseMemberToken(tokenStr string) (*jwt.MemberClaims, error)
}
