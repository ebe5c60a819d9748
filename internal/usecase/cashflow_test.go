package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"CapTrack/internal/domain/models"
)

type cashflowFixture struct {
	service  *CashflowService
	users    *memUserRepo
	revenues *memRevenueRepo
}

func newCashflowFixture(t *testing.T, users ...*models.User) *cashflowFixture {
	t.Helper()

	userRepo := newMemUserRepo(users...)
	cashflowRepo := newMemCashflowRepo()
	revenueRepo := newMemRevenueRepo()
	revenue := NewRevenueService(revenueRepo, cashflowRepo, newMemSignalRepo())
	service := NewCashflowService(cashflowRepo, userRepo, revenue, testLogger())

	return &cashflowFixture{service: service, users: userRepo, revenues: revenueRepo}
}

func TestCreateDepositCreditsCapital(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	d, err := fx.service.CreateDeposit(ctx, &models.CreateDepositRequest{
		UserID: 1, Amount: 300, Bonus: 30, Date: "2025-02-10",
	})
	require.NoError(t, err)
	require.InDelta(t, 330, d.Total(), 1e-9)

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1330, user.RunningCapital, 1e-9)

	rev, err := fx.revenues.Get(ctx, 1, "2025-02")
	require.NoError(t, err)
	require.InDelta(t, 330, rev.TotalDeposit, 1e-9)
	require.InDelta(t, 330, rev.TotalRevenue, 1e-9)
}

func TestUpdateDepositAdjustsCapitalByDiff(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	d, err := fx.service.CreateDeposit(ctx, &models.CreateDepositRequest{
		UserID: 1, Amount: 300, Date: "2025-02-10",
	})
	require.NoError(t, err)

	amount := 500.0
	_, err = fx.service.UpdateDeposit(ctx, &models.UpdateDepositRequest{
		ID: d.ID, UserID: 1, Amount: &amount,
	})
	require.NoError(t, err)

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1500, user.RunningCapital, 1e-9)

	rev, err := fx.revenues.Get(ctx, 1, "2025-02")
	require.NoError(t, err)
	require.InDelta(t, 500, rev.TotalDeposit, 1e-9)
}

func TestUpdateDepositRejectsForeignUser(t *testing.T) {
	fx := newCashflowFixture(t,
		&models.User{ID: 1, RunningCapital: 1000},
		&models.User{ID: 2, RunningCapital: 1000},
	)
	ctx := context.Background()

	d, err := fx.service.CreateDeposit(ctx, &models.CreateDepositRequest{
		UserID: 1, Amount: 300, Date: "2025-02-10",
	})
	require.NoError(t, err)

	amount := 1.0
	_, err = fx.service.UpdateDeposit(ctx, &models.UpdateDepositRequest{
		ID: d.ID, UserID: 2, Amount: &amount,
	})
	require.Error(t, err)
}

func TestDeleteDepositReversesCredit(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	d, err := fx.service.CreateDeposit(ctx, &models.CreateDepositRequest{
		UserID: 1, Amount: 300, Date: "2025-02-10",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteDeposit(ctx, 1, d.ID))

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1000, user.RunningCapital, 1e-9)

	rev, err := fx.revenues.Get(ctx, 1, "2025-02")
	require.NoError(t, err)
	require.Zero(t, rev.TotalDeposit)
}

func TestCreateWithdrawalChecksBalance(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 100})
	ctx := context.Background()

	_, err := fx.service.CreateWithdrawal(ctx, &models.CreateWithdrawalRequest{
		UserID: 1, Amount: 500, Date: "2025-02-10",
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 100, user.RunningCapital, 1e-9)
}

func TestCreateWithdrawalDebitsCapital(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	w, err := fx.service.CreateWithdrawal(ctx, &models.CreateWithdrawalRequest{
		UserID: 1, Amount: 400, Date: "2025-02-10",
	})
	require.NoError(t, err)
	require.InDelta(t, 400, w.Amount, 1e-9)

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 600, user.RunningCapital, 1e-9)

	rev, err := fx.revenues.Get(ctx, 1, "2025-02")
	require.NoError(t, err)
	require.InDelta(t, 400, rev.TotalWithdrawal, 1e-9)
	require.InDelta(t, -400, rev.TotalRevenue, 1e-9)
}

func TestUpdateWithdrawalChecksBalanceOnIncrease(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	w, err := fx.service.CreateWithdrawal(ctx, &models.CreateWithdrawalRequest{
		UserID: 1, Amount: 400, Date: "2025-02-10",
	})
	require.NoError(t, err)

	// capital is 600 now; raising the withdrawal by 700 must fail
	amount := 1100.0
	_, err = fx.service.UpdateWithdrawal(ctx, &models.UpdateWithdrawalRequest{
		ID: w.ID, UserID: 1, Amount: &amount,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// lowering it refunds the difference
	amount = 100.0
	_, err = fx.service.UpdateWithdrawal(ctx, &models.UpdateWithdrawalRequest{
		ID: w.ID, UserID: 1, Amount: &amount,
	})
	require.NoError(t, err)

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 900, user.RunningCapital, 1e-9)
}

func TestDeleteWithdrawalRestoresCapital(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	w, err := fx.service.CreateWithdrawal(ctx, &models.CreateWithdrawalRequest{
		UserID: 1, Amount: 400, Date: "2025-02-10",
	})
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteWithdrawal(ctx, 1, w.ID))

	user, err := fx.users.GetByID(ctx, 1)
	require.NoError(t, err)
	require.InDelta(t, 1000, user.RunningCapital, 1e-9)
}

func TestListDepositsFiltersByDate(t *testing.T) {
	fx := newCashflowFixture(t, &models.User{ID: 1, RunningCapital: 1000})
	ctx := context.Background()

	for _, date := range []string{"2025-01-10", "2025-02-10", "2025-03-10"} {
		_, err := fx.service.CreateDeposit(ctx, &models.CreateDepositRequest{
			UserID: 1, Amount: 100, Date: date,
		})
		require.NoError(t, err)
	}

	deposits, total, err := fx.service.ListDeposits(ctx, &models.ListCashflowsRequest{
		UserID: 1, StartDate: "2025-02-01", EndDate: "2025-03-01",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, deposits, 1)
	require.Equal(t, "2025-02-10", deposits[0].Date.Format("2006-01-02"))
}
