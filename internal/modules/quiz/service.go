package quiz

import (
	"context"
	"fmt"

	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	store   Store
	targets TargetReader
	log     zerolog.Logger
}

func NewService(store Store, targets TargetReader, log zerolog.Logger) *Service {
	return &Service{store: store, targets: targets, log: log.With().Str("component", "quiz").Logger()}
}

// Save validates the draft and writes the quiz with all its questions at once.
// A nil id creates a quiz; otherwise the stored questions are replaced.
func (s *Service) Save(ctx context.Context, sellerID uuid.UUID, id *uuid.UUID, d Draft) (*domain.Quiz, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeTarget(ctx, sellerID, d.LessonID, d.ModuleID); err != nil {
		return nil, err
	}

	q := d.ToModel(sellerID)
	if id != nil {
		existing, err := s.owned(ctx, sellerID, *id)
		if err != nil {
			return nil, err
		}
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Save(ctx, q); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	s.log.Info().Str("quiz_id", q.ID.String()).Int("questions", len(q.Questions)).Msg("quiz saved")
	return q, nil
}

func (s *Service) Get(ctx context.Context, sellerID, id uuid.UUID) (*domain.Quiz, error) {
	return s.owned(ctx, sellerID, id)
}

// List returns the quizzes attached to one lesson or one module.
func (s *Service) List(ctx context.Context, sellerID uuid.UUID, lessonID, moduleID *uuid.UUID) ([]domain.Quiz, error) {
	if (lessonID == nil) == (moduleID == nil) {
		return nil, &ValidationError{Problems: []string{"filter by exactly one of lesson_id or module_id"}}
	}
	if err := s.authorizeTarget(ctx, sellerID, lessonID, moduleID); err != nil {
		return nil, err
	}
	quizzes, err := s.store.ListByTarget(ctx, lessonID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *Service) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, sellerID, id uuid.UUID) (*domain.Quiz, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if q.SellerID != sellerID {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

func (s *Service) authorizeTarget(ctx context.Context, sellerID uuid.UUID, lessonID, moduleID *uuid.UUID) error {
	var areaID uuid.UUID
	switch {
	case lessonID != nil:
		l, err := s.targets.GetLesson(ctx, *lessonID)
		if err != nil {
			return s.targetErr(err)
		}
		areaID = l.MemberAreaID
	case moduleID != nil:
		m, err := s.targets.GetModule(ctx, *moduleID)
		if err != nil {
			return s.targetErr(err)
		}
		areaID = m.MemberAreaID
	default:
		return ErrTargetNotFound
	}

	area, err := s.targets.GetByID(ctx, areaID)
	if err != nil {
		return s.targetErr(err)
	}
	if area.SellerID != sellerID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) targetErr(err error) error {
	if repository.IsNotFound(err) {
		return ErrTargetNotFound
	}
	return fmt.Errorf("load quiz target: %w", err)
}
