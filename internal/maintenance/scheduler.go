package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/social-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Report summarizes one maintenance pass.
type Report struct {
	SessionsPurged       int64
	NotificationsDeleted int64
}

// Scheduler periodically purges expired session revocations and prunes old
// notifications.
type Scheduler struct {
	schedule      cron.Schedule
	sessions      services.SessionServiceProvider
	notifications services.NotificationServiceProvider
	retention     time.Duration
	now           func() time.Time
}

// NewScheduler creates a new scheduler instance. expr is a standard cron
// expression or descriptor such as "@hourly". A non-positive retention keeps
// notifications forever.
func NewScheduler(expr string, sessions services.SessionServiceProvider, notifications services.NotificationServiceProvider, retention time.Duration) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", expr, err)
	}
	return &Scheduler{
		schedule:      schedule,
		sessions:      sessions,
		notifications: notifications,
		retention:     retention,
		now:           time.Now,
	}, nil
}

// Run performs a pass immediately, then one per schedule tick until ctx is
// done. In-flight passes finish before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().Msg("Starting maintenance scheduler")

	// Run once immediately on start
	s.pass(ctx)

	c := cron.New()
	c.Schedule(s.schedule, cron.FuncJob(func() { s.pass(ctx) }))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("Stopped maintenance scheduler")
	return nil
}

func (s *Scheduler) pass(ctx context.Context) {
	report, err := s.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Maintenance pass failed")
	}
	if report.SessionsPurged > 0 || report.NotificationsDeleted > 0 {
		log.Info().
			Int64("sessions_purged", report.SessionsPurged).
			Int64("notifications_deleted", report.NotificationsDeleted).
			Msg("Maintenance pass complete")
	}
}

// RunOnce performs a single pass. Both steps are attempted even if one fails.
func (s *Scheduler) RunOnce(ctx context.Context) (Report, error) {
	var (
		report Report
		errs   []error
	)
	now := s.now().UTC()

	purged, err := s.sessions.PurgeExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge revoked sessions: %w", err))
	}
	report.SessionsPurged = purged

	if s.retention > 0 {
		deleted, err := s.notifications.DeleteOlderThan(ctx, now.Add(-s.retention))
		if err != nil {
			errs = append(errs, fmt.Errorf("prune notifications: %w", err))
		}
		report.NotificationsDeleted = deleted
	}

	return report, errors.Join(errs...)
}
