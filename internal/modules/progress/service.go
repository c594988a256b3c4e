package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/modules/members"
	"kambafy/internal/pkg/metrics"
	"kambafy/internal/pkg/video"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const commentsPerLesson = 50

type LessonView struct {
	Lesson   domain.Lesson          `json:"lesson"`
	Video    *video.Source          `json:"video,omitempty"`
	Progress domain.LessonProgress  `json:"progress"`
	Comments []domain.LessonComment `json:"comments"`
	Next     *domain.Lesson         `json:"next,omitempty"`
}

type LessonStatus struct {
	LessonID  uuid.UUID `json:"lesson_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

type CourseProgress struct {
	MemberAreaID uuid.UUID      `json:"member_area_id"`
	Total        int            `json:"total"`
	Completed    int            `json:"completed"`
	Percentage   int            `json:"percentage"`
	Lessons      []LessonStatus `json:"lessons"`
}

type Service struct {
	lessons  LessonReader
	store    ProgressStore
	access   AccessChecker
	videos   VideoResolver
	throttle *writeThrottle
	log      zerolog.Logger
	now      func() time.Time
}

// NewService builds the progress service. writeEvery bounds playback position writes per (email, lesson).
func NewService(lessons LessonReader, store ProgressStore, access AccessChecker, videos VideoResolver, writeEvery time.Duration, log zerolog.Logger) *Service {
	return &Service{
		lessons:  lessons,
		store:    store,
		access:   access,
		videos:   videos,
		throttle: newWriteThrottle(writeEvery),
		log:      log.With().Str("component", "progress").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// OpenLesson loads a lesson with its video source, the member's prior progress and comments.
func (s *Service) OpenLesson(ctx context.Context, sess *members.Session, lessonID uuid.UUID) (*LessonView, error) {
	lesson, err := s.visibleLesson(ctx, sess, lessonID)
	if err != nil {
		return nil, err
	}

	view := &LessonView{Lesson: *lesson}

	if lesson.VideoRef != "" {
		src, err := s.videos.Resolve(lesson.VideoRef)
		if err != nil {
			s.log.Warn().Err(err).Str("lesson_id", lesson.ID.String()).Msg("unresolvable video reference")
		} else {
			view.Video = &src
		}
	}

	p, err := s.store.Get(ctx, sess.Email, lesson.ID)
	switch {
	case err == nil:
		view.Progress = *p
	case repository.IsNotFound(err):
		view.Progress = domain.LessonProgress{StudentEmail: sess.Email, LessonID: lesson.ID, MemberAreaID: lesson.MemberAreaID}
	default:
		return nil, fmt.Errorf("load progress: %w", err)
	}

	view.Comments, err = s.store.ListComments(ctx, lesson.ID, commentsPerLesson)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	view.Next, err = s.nextLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdatePosition records playback. Access is checked before throttling, so
// denied calls never use up a write slot. Throttled ticks return false without error.
func (s *Service) UpdatePosition(ctx context.Context, sess *members.Session, lessonID uuid.UUID, position, duration float64) (bool, error) {
	if position < 0 || duration < 0 {
		return false, ErrInvalidPosition
	}

	lesson, err := s.visibleLesson(ctx, sess, lessonID)
	if err != nil {
		return false, err
	}

	now := s.now()
	if !s.throttle.Allow(throttleKey(sess.Email, lessonID), now) {
		metrics.ProgressWrites.WithLabelValues("throttled").Inc()
		return false, nil
	}

	err = s.store.SavePosition(ctx, &domain.LessonProgress{
		StudentEmail:    sess.Email,
		LessonID:        lesson.ID,
		MemberAreaID:    lesson.MemberAreaID,
		PositionSeconds: position,
		DurationSeconds: duration,
		LastWatchedAt:   &now,
	})
	if err != nil {
		metrics.ProgressWrites.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("save position: %w", err)
	}
	metrics.ProgressWrites.WithLabelValues("persisted").Inc()
	return true, nil
}

func (s *Service) SetCompleted(ctx context.Context, sess *members.Session, lessonID uuid.UUID, completed bool) (*domain.LessonProgress, error) {
	lesson, err := s.visibleLesson(ctx, sess, lessonID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &domain.LessonProgress{
		StudentEmail:  sess.Email,
		LessonID:      lesson.ID,
		MemberAreaID:  lesson.MemberAreaID,
		Completed:     completed,
		LastWatchedAt: &now,
		UpdatedAt:     now,
	}
	if err := s.store.SetCompleted(ctx, p); err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	return s.reload(ctx, sess.Email, lesson.ID)
}

func (s *Service) Rate(ctx context.Context, sess *members.Session, lessonID uuid.UUID, rating int) (*domain.LessonProgress, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	lesson, err := s.visibleLesson(ctx, sess, lessonID)
	if err != nil {
		return nil, err
	}
	p := &domain.LessonProgress{
		StudentEmail: sess.Email,
		LessonID:     lesson.ID,
		MemberAreaID: lesson.MemberAreaID,
		Rating:       rating,
		UpdatedAt:    s.now(),
	}
	if err := s.store.SetRating(ctx, p); err != nil {
		return nil, fmt.Errorf("set rating: %w", err)
	}
	return s.reload(ctx, sess.Email, lesson.ID)
}

func (s *Service) AddComment(ctx context.Context, sess *members.Session, lessonID uuid.UUID, text string) (*domain.LessonComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrInvalidComment
	}
	lesson, err := s.visibleLesson(ctx, sess, lessonID)
	if err != nil {
		return nil, err
	}
	c := &domain.LessonComment{
		LessonID:     lesson.ID,
		StudentEmail: sess.Email,
		StudentName:  sess.Name,
		Text:         text,
		CreatedAt:    s.now(),
	}
	if err := s.store.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// CourseProgress summarises completion over the visible lessons of an area.
func (s *Service) CourseProgress(ctx context.Context, sess *members.Session, areaID uuid.UUID) (*CourseProgress, error) {
	if err := s.checkAccess(ctx, sess, areaID); err != nil {
		return nil, err
	}

	now := s.now()
	lessons, err := s.lessons.ListLessons(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	rows, err := s.store.ListForAreas(ctx, sess.Email, []uuid.UUID{areaID}, now)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	done := make(map[uuid.UUID]bool, len(rows))
	for _, r := range rows {
		done[r.LessonID] = r.Completed
	}

	out := &CourseProgress{MemberAreaID: areaID, Lessons: []LessonStatus{}}
	for _, l := range lessons {
		if !l.IsVisible(now) {
			continue
		}
		out.Total++
		if done[l.ID] {
			out.Completed++
		}
		out.Lessons = append(out.Lessons, LessonStatus{LessonID: l.ID, Title: l.Title, Completed: done[l.ID]})
	}
	out.Percentage = domain.Percentage(out.Completed, out.Total)
	return out, nil
}

func (s *Service) visibleLesson(ctx context.Context, sess *members.Session, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if err := s.checkAccess(ctx, sess, lesson.MemberAreaID); err != nil {
		return nil, err
	}
	if lesson.Status != domain.ContentPublished {
		return nil, ErrLessonNotFound
	}
	if !lesson.IsVisible(s.now()) {
		return nil, ErrLessonNotReleased
	}
	return lesson, nil
}

func (s *Service) checkAccess(ctx context.Context, sess *members.Session, areaID uuid.UUID) error {
	ok, err := s.access.CanAccessArea(ctx, sess, areaID)
	if err != nil {
		return fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *Service) nextLesson(ctx context.Context, current *domain.Lesson) (*domain.Lesson, error) {
	lessons, err := s.lessons.ListLessons(ctx, current.MemberAreaID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	now := s.now()
	found := false
	for i := range lessons {
		if found && lessons[i].IsVisible(now) {
			return &lessons[i], nil
		}
		if lessons[i].ID == current.ID {
			found = true
		}
	}
	return nil, nil
}

func (s *Service) reload(ctx context.Context, email string, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	p, err := s.store.Get(ctx, email, lessonID)
	if err != nil {
		return nil, fmt.Errorf("reload progress: %w", err)
	}
	return p, nil
}

func throttleKey(email string, lessonID uuid.UUID) string {
	return email + "|" + lessonID.String()
}
