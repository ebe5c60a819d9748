package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	"CapTrack/pkg/cache"
	"CapTrack/pkg/config"
	applogger "CapTrack/pkg/logger"
)

const passLockKey = "scheduler:pass"

// PassReport summarizes one scheduler pass over all users.
type PassReport struct {
	Users     int            `json:"users"`
	Outcomes  map[string]int `json:"outcomes"`
	Errors    int            `json:"errors"`
	Skipped   bool           `json:"skipped"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

// Scheduler drives signal processing across all users. Windows are
// processed in start-hour order so a later slot always compounds on
// the earlier slot's result. A Redis lock serializes passes; one user's
// failure never stops the pass.
type Scheduler struct {
	users     drepo.UserRepository
	processor *SignalProcessor
	locks     cache.Service
	metrics   drepo.Metrics
	logger    *applogger.Logger

	windows      []config.Window
	pollInterval time.Duration
	lockTTL      time.Duration
	userTimeout  time.Duration
	workers      int

	mu      sync.Mutex
	stopped chan struct{}
}

// NewScheduler creates a new Scheduler instance.
func NewScheduler(
	users drepo.UserRepository,
	processor *SignalProcessor,
	locks cache.Service,
	metrics drepo.Metrics,
	lgr *applogger.Logger,
	cfg *config.Config,
) *Scheduler {
	windows := make([]config.Window, len(cfg.Scheduler.Windows))
	copy(windows, cfg.Scheduler.Windows)
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartHour < windows[j].StartHour
	})

	return &Scheduler{
		users:        users,
		processor:    processor,
		locks:        locks,
		metrics:      metrics,
		logger:       lgr,
		windows:      windows,
		pollInterval: cfg.Scheduler.PollInterval,
		lockTTL:      cfg.Scheduler.LockTTL,
		userTimeout:  cfg.Scheduler.UserTimeout,
		workers:      cfg.Scheduler.Workers,
	}
}

// Start runs the scheduler loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("scheduler started",
		applogger.Int("windows", len(s.windows)),
		applogger.Int("workers", s.workers),
		applogger.String("poll_interval", s.pollInterval.String()))

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			now := time.Now()
			if !s.anyWindowDue(now) {
				continue
			}
			report := s.RunOnce(ctx, now)
			if report.Skipped {
				continue
			}
			s.logger.Info("scheduler pass finished",
				applogger.Int("users", report.Users),
				applogger.Int("errors", report.Errors),
				applogger.Int64("duration_ms", report.Duration.Milliseconds()))
		}
	}
}

func (s *Scheduler) anyWindowDue(now time.Time) bool {
	for _, w := range s.windows {
		if now.Hour() >= w.StartHour {
			return true
		}
	}
	return false
}

// RunOnce performs a single pass over all users. Returns a skipped
// report when another pass already holds the lock.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) PassReport {
	report := PassReport{StartedAt: now, Outcomes: make(map[string]int)}

	acquired, err := s.locks.TryLock(ctx, passLockKey, s.lockTTL)
	if err != nil {
		s.logger.Error("scheduler lock", applogger.Error(err))
		s.metrics.RecordError("scheduler_lock")
		report.Skipped = true
		return report
	}
	if !acquired {
		s.logger.Debug("scheduler pass already running, skipping")
		report.Skipped = true
		return report
	}
	defer func() {
		if err := s.locks.Unlock(context.WithoutCancel(ctx), passLockKey); err != nil {
			s.logger.Warn("scheduler unlock", applogger.Error(err))
		}
	}()

	start := time.Now()
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.logger.Error("list users", applogger.Error(err))
		s.metrics.RecordError("scheduler_list_users")
		report.Errors++
		return report
	}
	report.Users = len(ids)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)

	for _, id := range ids {
		select {
		case <-ctx.Done():
			wg.Wait()
			report.Duration = time.Since(start)
			return report
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes, errs := s.processUser(ctx, userID, now)
			mu.Lock()
			for outcome, n := range outcomes {
				report.Outcomes[outcome] += n
			}
			report.Errors += errs
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	report.Duration = time.Since(start)
	s.metrics.RecordSchedulerPass(report.Duration.Seconds())
	return report
}

// processUser settles every due window for one user, earliest first.
// A failure in one window aborts this user only.
func (s *Scheduler) processUser(ctx context.Context, userID int64, now time.Time) (map[string]int, int) {
	outcomes := make(map[string]int)

	uctx, cancel := context.WithTimeout(ctx, s.userTimeout)
	defer cancel()

	for _, w := range s.windows {
		if now.Hour() < w.StartHour {
			outcomes[OutcomeNotDue]++
			continue
		}

		slot := models.TimeSlot{
			Date:      now,
			Label:     w.Label,
			StartHour: w.StartHour,
			EndLabel:  w.EndLabel,
		}
		outcome, err := s.processor.ProcessSlot(uctx, userID, slot, now)
		if err != nil {
			s.logger.Error("process slot failed",
				applogger.Int64("user_id", userID),
				applogger.String("window", w.Label),
				applogger.Error(err))
			s.metrics.RecordError("process_user")
			return outcomes, 1
		}

		outcomes[outcome]++
		s.metrics.RecordSignalProcessed(w.Label, outcome)
	}
	return outcomes, 0
}
