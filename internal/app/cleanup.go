package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const cleanupTimeout = 2 * time.Minute

type SessionPurger interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupSessions deletes member sessions that expired or were revoked before now.
func CleanupSessions(ctx context.Context, sessions SessionPurger, now time.Time, log zerolog.Logger) (int64, error) {
	n, err := sessions.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("member session cleanup failed")
		return 0, err
	}
	log.Info().Int64("deleted", n).Msg("member session cleanup completed")
	return n, nil
}

// NewScheduler runs session cleanup on a cron schedule. Overlapping runs are skipped.
func NewScheduler(schedule string, sessions SessionPurger, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		_, _ = CleanupSessions(ctx, sessions, time.Now().UTC(), log)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
