package repository

import (
	"context"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

var progressKey = []clause.Column{{Name: "student_email"}, {Name: "lesson_id"}}

func (r *ProgressRepository) Get(ctx context.Context, email string, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	var p domain.LessonProgress
	err := r.db.WithContext(ctx).
		Where("student_email = ? AND lesson_id = ?", email, lessonID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePosition writes position and duration as given and raises furthest_seconds monotonically.
func (r *ProgressRepository) SavePosition(ctx context.Context, p *domain.LessonProgress) error {
	p.FurthestSeconds = p.PositionSeconds
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: progressKey,
			DoUpdates: clause.Assignments(map[string]any{
				"position_seconds": p.PositionSeconds,
				"duration_seconds": p.DurationSeconds,
				"last_watched_at":  p.LastWatchedAt,
				"updated_at":       p.LastWatchedAt,
				"furthest_seconds": gorm.Expr(
					"CASE WHEN lesson_progress.furthest_seconds > ? THEN lesson_progress.furthest_seconds ELSE ? END",
					p.PositionSeconds, p.PositionSeconds,
				),
			}),
		}).
		Create(p).Error
}

func (r *ProgressRepository) SetCompleted(ctx context.Context, p *domain.LessonProgress) error {
	return r.upsertColumns(ctx, p, "completed", "last_watched_at", "updated_at")
}

func (r *ProgressRepository) SetRating(ctx context.Context, p *domain.LessonProgress) error {
	return r.upsertColumns(ctx, p, "rating", "updated_at")
}

func (r *ProgressRepository) upsertColumns(ctx context.Context, p *domain.LessonProgress, columns ...string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   progressKey,
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(p).Error
}

// ListForAreas returns the email's progress on published lessons of the given areas.
func (r *ProgressRepository) ListForAreas(ctx context.Context, email string, areaIDs []uuid.UUID, now time.Time) ([]domain.LessonProgress, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}
	var rows []domain.LessonProgress
	err := r.db.WithContext(ctx).
		Table("lesson_progress").
		Select("lesson_progress.*").
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lesson_progress.student_email = ? AND lesson_progress.member_area_id IN ?", email, areaIDs).
		Where("lessons.status = ?", domain.ContentPublished).
		Where("lessons.release_at IS NULL OR lessons.release_at <= ?", now).
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) AddComment(ctx context.Context, c *domain.LessonComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ProgressRepository) ListComments(ctx context.Context, lessonID uuid.UUID, limit int) ([]domain.LessonComment, error) {
	var comments []domain.LessonComment
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("created_at desc").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}
