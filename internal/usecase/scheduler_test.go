package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CapTrack/internal/domain/models"
	"CapTrack/pkg/config"
)

func schedulerConfig() *config.Config {
	cfg := &config.Config{}
	// deliberately out of order; the scheduler sorts by start hour
	cfg.Scheduler.Windows = []config.Window{
		{Label: "evening", StartHour: 19, EndLabel: "19:30"},
		{Label: "morning", StartHour: 14, EndLabel: "14:30"},
	}
	cfg.Scheduler.PollInterval = time.Minute
	cfg.Scheduler.LockTTL = time.Minute
	cfg.Scheduler.UserTimeout = 5 * time.Second
	cfg.Scheduler.Workers = 2
	return cfg
}

type schedulerFixture struct {
	scheduler *Scheduler
	users     *memUserRepo
	signals   *memSignalRepo
	locks     *memLock
}

func newSchedulerFixture(t *testing.T, users ...*models.User) *schedulerFixture {
	t.Helper()

	fx := newProcessorFixture(t, users...)
	locks := newMemLock()
	scheduler := NewScheduler(fx.users, fx.processor, locks, noopMetrics{}, testLogger(), schedulerConfig())

	return &schedulerFixture{
		scheduler: scheduler,
		users:     fx.users,
		signals:   fx.signals,
		locks:     locks,
	}
}

func TestRunOnceSettlesAllWindows(t *testing.T) {
	now := time.Date(2025, 2, 23, 20, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t,
		&models.User{ID: 1, RunningCapital: 1000},
		&models.User{ID: 2, RunningCapital: 500},
	)
	ctx := context.Background()

	report := fx.scheduler.RunOnce(ctx, now)
	require.False(t, report.Skipped)
	require.Equal(t, 2, report.Users)
	require.Zero(t, report.Errors)
	require.Equal(t, 4, report.Outcomes[OutcomeCompleted])

	u1, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1017.67744, u1.RunningCapital, 1e-9)

	// morning settles before evening, so evening compounds its result
	morning, err := fx.signals.GetBySlot(ctx, 1, "2025-02-23 14:00 - 14:30")
	require.NoError(t, err)
	require.Equal(t, 1, morning.Seq)
	require.InDelta(t, 1000, morning.StartingCapital, 1e-9)

	evening, err := fx.signals.GetBySlot(ctx, 1, "2025-02-23 19:00 - 19:30")
	require.NoError(t, err)
	require.Equal(t, 2, evening.Seq)
	require.InDelta(t, 1008.8, evening.StartingCapital, 1e-9)
}

func TestRunOnceRepeatedPassIsNoop(t *testing.T) {
	now := time.Date(2025, 2, 23, 20, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	first := fx.scheduler.RunOnce(ctx, now)
	require.Equal(t, 2, first.Outcomes[OutcomeCompleted])

	second := fx.scheduler.RunOnce(ctx, now)
	require.False(t, second.Skipped)
	require.Equal(t, 2, second.Outcomes[OutcomeAlreadyTraded])
	require.Zero(t, second.Outcomes[OutcomeCompleted])

	u, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1017.67744, u.RunningCapital, 1e-9)
}

func TestRunOnceOnlyDueWindows(t *testing.T) {
	now := time.Date(2025, 2, 23, 15, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	report := fx.scheduler.RunOnce(ctx, now)
	require.Equal(t, 1, report.Outcomes[OutcomeCompleted])
	require.Equal(t, 1, report.Outcomes[OutcomeNotDue])

	u, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1008.8, u.RunningCapital, 1e-9)
}

func TestRunOnceFaultIsolation(t *testing.T) {
	now := time.Date(2025, 2, 23, 20, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t,
		&models.User{ID: 1, RunningCapital: 1000},
		&models.User{ID: 2, RunningCapital: 1000},
	)
	fx.users.failing[2] = true
	ctx := context.Background()

	report := fx.scheduler.RunOnce(ctx, now)
	require.False(t, report.Skipped)
	require.Equal(t, 1, report.Errors)
	require.Equal(t, 2, report.Outcomes[OutcomeCompleted])

	u1, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1017.67744, u1.RunningCapital, 1e-9)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	now := time.Date(2025, 2, 23, 20, 0, 0, 0, time.UTC)
	fx := newSchedulerFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	acquired, err := fx.locks.TryLock(ctx, passLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	report := fx.scheduler.RunOnce(ctx, now)
	require.True(t, report.Skipped)

	u, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1000, u.RunningCapital, 1e-9)
}
