package progress

import (
	"context"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/modules/members"
	"kambafy/internal/pkg/video"

	"github.com/google/uuid"
)

type LessonReader interface {
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	ListLessons(ctx context.Context, areaID uuid.UUID) ([]domain.Lesson, error)
}

type ProgressStore interface {
	Get(ctx context.Context, email string, lessonID uuid.UUID) (*domain.LessonProgress, error)
	SavePosition(ctx context.Context, p *domain.LessonProgress) error
	SetCompleted(ctx context.Context, p *domain.LessonProgress) error
	SetRating(ctx context.Context, p *domain.LessonProgress) error
	ListForAreas(ctx context.Context, email string, areaIDs []uuid.UUID, now time.Time) ([]domain.LessonProgress, error)
	AddComment(ctx context.Context, c *domain.LessonComment) error
	ListComments(ctx context.Context, lessonID uuid.UUID, limit int) ([]domain.LessonComment, error)
}

// AccessChecker decides whether a member session may read an area.
type AccessChecker interface {
	CanAccessArea(ctx context.Context, s *members.Session, areaID uuid.UUID) (bool, error)
}

type VideoResolver interface {
	Resolve(ref string) (video.Source, error)
}
