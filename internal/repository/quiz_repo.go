package repository

import (
	"context"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Save writes the quiz and replaces all of its questions in one transaction.
func (r *QuizRepository) Save(ctx context.Context, q *domain.Quiz) error {
	questions := q.Questions
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if q.ID == uuid.Nil {
			if err := tx.Omit("Questions").Create(q).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(q).Select("title", "lesson_id", "module_id", "updated_at").Updates(q)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			if err := tx.Where("quiz_id = ?", q.ID).Delete(&domain.QuizQuestion{}).Error; err != nil {
				return err
			}
		}

		for i := range questions {
			questions[i].ID = uuid.Nil
			questions[i].QuizID = q.ID
			questions[i].Position = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		q.Questions = questions
		return nil
	})
}

func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	var q domain.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("id = ?", id).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByTarget lists quizzes of a lesson or of a module; nil ids are ignored.
func (r *QuizRepository) ListByTarget(ctx context.Context, lessonID, moduleID *uuid.UUID) ([]domain.Quiz, error) {
	q := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("created_at asc")
	if lessonID != nil {
		q = q.Where("lesson_id = ?", *lessonID)
	}
	if moduleID != nil {
		q = q.Where("module_id = ?", *moduleID)
	}
	var quizzes []domain.Quiz
	err := q.Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&domain.QuizQuestion{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Quiz{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
