package quiz

import (
	"context"

	"kambafy/internal/domain"

	"github.com/google/uuid"
)

type Store interface {
	Save(ctx context.Context, q *domain.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)
	ListByTarget(ctx context.Context, lessonID, moduleID *uuid.UUID) ([]domain.Quiz, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TargetReader resolves the member area behind a lesson or module.
type TargetReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberArea, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	GetModule(ctx context.Context, id uuid.UUID) (*domain.Module, error)
}
