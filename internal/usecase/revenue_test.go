package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CapTrack/internal/domain/models"
)

func newRevenueFixture(t *testing.T) (*RevenueService, *memRevenueRepo, *memCashflowRepo, *memSignalRepo) {
	t.Helper()
	revenues := newMemRevenueRepo()
	cashflows := newMemCashflowRepo()
	signals := newMemSignalRepo()
	return NewRevenueService(revenues, cashflows, signals), revenues, cashflows, signals
}

func TestRevenueApplyDerivesTotal(t *testing.T) {
	svc, _, _, _ := newRevenueFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	_, err := svc.Apply(ctx, 1, at, models.RevenueDelta{Deposit: 300})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, 1, at, models.RevenueDelta{Withdrawal: 100})
	require.NoError(t, err)
	rev, err := svc.Apply(ctx, 1, at, models.RevenueDelta{Profit: 8.8})
	require.NoError(t, err)

	require.Equal(t, "2025-02", rev.Period)
	require.InDelta(t, 300, rev.TotalDeposit, 1e-9)
	require.InDelta(t, 100, rev.TotalWithdrawal, 1e-9)
	require.InDelta(t, 8.8, rev.TotalProfit, 1e-9)
	require.InDelta(t, 208.8, rev.TotalRevenue, 1e-9)
}

func TestRevenueApplyOrderIndependent(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	deltas := []models.RevenueDelta{{Profit: 5}, {Profit: 3}, {Profit: 2}}

	forward, _, _, _ := newRevenueFixture(t)
	for _, d := range deltas {
		_, err := forward.Apply(ctx, 1, at, d)
		require.NoError(t, err)
	}

	reverse, _, _, _ := newRevenueFixture(t)
	for i := len(deltas) - 1; i >= 0; i-- {
		_, err := reverse.Apply(ctx, 1, at, deltas[i])
		require.NoError(t, err)
	}

	a, err := forward.Get(ctx, 1, at)
	require.NoError(t, err)
	b, err := reverse.Get(ctx, 1, at)
	require.NoError(t, err)
	require.InDelta(t, 10, a.TotalProfit, 1e-9)
	require.InDelta(t, a.TotalProfit, b.TotalProfit, 1e-9)
	require.InDelta(t, a.TotalRevenue, b.TotalRevenue, 1e-9)
}

func TestRevenueApplyConcurrentDeltasAllLand(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	svc, _, _, _ := newRevenueFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, 1, at, models.RevenueDelta{Profit: 1})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	rev, err := svc.Get(ctx, 1, at)
	require.NoError(t, err)
	require.InDelta(t, 20, rev.TotalProfit, 1e-9)
	require.InDelta(t, 20, rev.TotalRevenue, 1e-9)
}

func TestRevenueApplyZeroDeltaIsNoop(t *testing.T) {
	svc, revenues, _, _ := newRevenueFixture(t)

	rev, err := svc.Apply(context.Background(), 1, time.Now(), models.RevenueDelta{})
	require.NoError(t, err)
	require.Nil(t, rev)
	require.Zero(t, revenues.upserts)
}

func TestRevenueApplySplitsMonths(t *testing.T) {
	svc, _, _, _ := newRevenueFixture(t)
	ctx := context.Background()

	_, err := svc.Apply(ctx, 1, time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), models.RevenueDelta{Profit: 1})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, 1, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), models.RevenueDelta{Profit: 2})
	require.NoError(t, err)

	jan, err := svc.Get(ctx, 1, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 1, jan.TotalProfit, 1e-9)

	feb, err := svc.Get(ctx, 1, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.InDelta(t, 2, feb.TotalProfit, 1e-9)
}

func TestRevenueGetMissingMonth(t *testing.T) {
	svc, _, _, _ := newRevenueFixture(t)

	rev, err := svc.Get(context.Background(), 7, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, "2025-03", rev.Period)
	require.Zero(t, rev.TotalRevenue)
}

func TestRevenueCreateRejectsExistingPeriod(t *testing.T) {
	svc, _, _, _ := newRevenueFixture(t)
	ctx := context.Background()

	rev, err := svc.Create(ctx, &models.CreateRevenueRequest{
		UserID: 1, Period: "2025-02", TotalDeposit: 100, TotalProfit: 10,
	})
	require.NoError(t, err)
	require.InDelta(t, 110, rev.TotalRevenue, 1e-9)

	_, err = svc.Create(ctx, &models.CreateRevenueRequest{UserID: 1, Period: "2025-02"})
	require.ErrorIs(t, err, ErrRevenueExists)

	_, err = svc.Create(ctx, &models.CreateRevenueRequest{UserID: 1, Period: "Feb-2025"})
	require.Error(t, err)
}

func TestRevenueRecompute(t *testing.T) {
	svc, _, cashflows, signals := newRevenueFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cashflows.CreateDeposit(ctx, &models.Deposit{
		UserID: 1, Amount: 400, Bonus: 50, Date: at,
	}))
	require.NoError(t, cashflows.CreateWithdrawal(ctx, &models.Withdrawal{
		UserID: 1, Amount: 120, Date: at.AddDate(0, 0, 3),
	}))
	require.NoError(t, signals.Create(ctx, &models.Signal{
		UserID: 1, Slot: "2025-02-15 14:00 - 14:30", Date: at, Traded: true, Profit: 8.8,
	}))
	// outside the month, must not count
	require.NoError(t, cashflows.CreateDeposit(ctx, &models.Deposit{
		UserID: 1, Amount: 999, Date: at.AddDate(0, 1, 0),
	}))

	rev, err := svc.Recompute(ctx, 1, at)
	require.NoError(t, err)
	require.InDelta(t, 450, rev.TotalDeposit, 1e-9)
	require.InDelta(t, 120, rev.TotalWithdrawal, 1e-9)
	require.InDelta(t, 8.8, rev.TotalProfit, 1e-9)
	require.InDelta(t, 450-120+8.8, rev.TotalRevenue, 1e-9)
}
