package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/services"
)

// Reaper periodically expires stale interview sessions and prunes ended ones
// past the retention window.
type Reaper struct {
	log        *logger.Logger
	interviews services.InterviewService
	retention  time.Duration
	schedule   string
	cron       *cron.Cron
}

func NewReaper(log *logger.Logger, interviews services.InterviewService, schedule string, retention time.Duration) *Reaper {
	return &Reaper{
		log:        log.With("component", "Reaper"),
		interviews: interviews,
		retention:  retention,
		schedule:   schedule,
		cron:       cron.New(cron.WithLocation(time.UTC)),
	}
}

func (r *Reaper) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		report, err := r.interviews.ReapExpired(ctx, r.retention)
		if err != nil {
			r.log.Error("Expiry sweep failed", "error", err)
			return
		}
		if report.Expired > 0 || report.Deleted > 0 {
			r.log.Info("Expiry sweep", "expired", report.Expired, "deleted", report.Deleted)
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("Session reaper started", "schedule", r.schedule, "retention", r.retention.String())
	return nil
}

func (r *Reaper) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
