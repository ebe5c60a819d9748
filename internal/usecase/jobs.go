package usecase

import (
	"context"
	"time"

	applogger "CapTrack/pkg/logger"
	"CapTrack/pkg/queue"
)

// SchedulerRunPayload is the queue payload for a triggered pass.
type SchedulerRunPayload struct {
	TriggeredAt time.Time `json:"triggered_at"`
	Source      string    `json:"source"`
}

// SchedulerJob runs one scheduler pass off the queue. The HTTP trigger
// enqueues this so the request returns immediately while the pass runs
// on a queue worker.
type SchedulerJob struct {
	scheduler *Scheduler
	logger    *applogger.Logger
}

var _ queue.Job = (*SchedulerJob)(nil)

// NewSchedulerJob creates a new SchedulerJob instance.
func NewSchedulerJob(scheduler *Scheduler, lgr *applogger.Logger) *SchedulerJob {
	return &SchedulerJob{scheduler: scheduler, logger: lgr}
}

func (j *SchedulerJob) Name() string { return "scheduler-pass" }

func (j *SchedulerJob) Type() string { return "scheduler.run" }

func (j *SchedulerJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[SchedulerRunPayload](payload)
	if err != nil {
		return err
	}

	report := j.scheduler.RunOnce(ctx, time.Now())
	if report.Skipped {
		j.logger.Info("triggered pass skipped, another pass in flight",
			applogger.String("source", p.Source))
		return nil
	}

	j.logger.Info("triggered pass finished",
		applogger.String("source", p.Source),
		applogger.Int("users", report.Users),
		applogger.Int("errors", report.Errors),
		applogger.Int64("duration_ms", report.Duration.Milliseconds()))
	return nil
}
