package progress

import (
	"context"
	"time"

	"kambafy/internal/modules/members"

	"github.com/google/uuid"
)

const reportTimeout = 5 * time.Second

// SessionReporter binds the service to one member session so a viewer.Player can report through it.
type SessionReporter struct {
	service *Service
	session *members.Session
}

func NewSessionReporter(service *Service, session *members.Session) *SessionReporter {
	return &SessionReporter{service: service, session: session}
}

// ReportProgress is fire-and-forget; failures are logged.
func (r *SessionReporter) ReportProgress(lessonID uuid.UUID, position, duration float64) {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()
	if _, err := r.service.UpdatePosition(ctx, r.session, lessonID, position, duration); err != nil {
		r.service.log.Warn().Err(err).Str("lesson_id", lessonID.String()).Msg("report progress")
	}
}

func (r *SessionReporter) SetCompleted(ctx context.Context, lessonID uuid.UUID, completed bool) error {
	_, err := r.service.SetCompleted(ctx, r.session, lessonID, completed)
	return err
}

func (r *SessionReporter) Rate(ctx context.Context, lessonID uuid.UUID, rating int) error {
	_, err := r.service.Rate(ctx, r.session, lessonID, rating)
	return err
}
