package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	"CapTrack/internal/repository"
	"CapTrack/pkg/util"
)

// ErrRevenueExists is returned when creating a rollup for a month that
// already has one.
var ErrRevenueExists = errors.New("revenue period already exists")

// RevenueService maintains the per-user monthly rollups. All writes go
// through Apply, Recompute or Create so total_revenue always equals
// deposits - withdrawals + profit for the month.
type RevenueService struct {
	revenues  drepo.RevenueRepository
	cashflows drepo.CashflowRepository
	signals   drepo.SignalRepository
}

// NewRevenueService creates a new RevenueService instance.
func NewRevenueService(
	revenues drepo.RevenueRepository,
	cashflows drepo.CashflowRepository,
	signals drepo.SignalRepository,
) *RevenueService {
	return &RevenueService{
		revenues:  revenues,
		cashflows: cashflows,
		signals:   signals,
	}
}

// Apply folds a delta into the rollup of the month containing at,
// creating the row when it is the month's first activity. The write is
// a single additive statement, so deltas from concurrent windows for
// the same month all land.
func (s *RevenueService) Apply(ctx context.Context, userID int64, at time.Time, delta models.RevenueDelta) (*models.Revenue, error) {
	if delta.IsZero() {
		return nil, nil
	}

	rev, err := s.revenues.AddDelta(ctx, userID, util.PeriodKey(at), delta)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// Recompute rebuilds the rollup of the month containing at from the raw
// deposit, withdrawal and signal tables. Used to repair drift after
// manual edits.
func (s *RevenueService) Recompute(ctx context.Context, userID int64, at time.Time) (*models.Revenue, error) {
	from := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	to := from.AddDate(0, 1, 0)

	deposits, err := s.cashflows.SumDeposits(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("recompute deposits: %w", err)
	}
	withdrawals, err := s.cashflows.SumWithdrawals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("recompute withdrawals: %w", err)
	}
	profit, err := s.signals.SumProfit(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("recompute profit: %w", err)
	}

	rev := &models.Revenue{
		UserID:          userID,
		Period:          util.PeriodKey(at),
		TotalDeposit:    deposits,
		TotalWithdrawal: withdrawals,
		TotalProfit:     profit,
	}
	if err := s.revenues.Upsert(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Create seeds a rollup for a month that has none yet, e.g. when
// importing history. The month must not already have a row.
func (s *RevenueService) Create(ctx context.Context, req *models.CreateRevenueRequest) (*models.Revenue, error) {
	if _, ok := util.ParsePeriod(req.Period); !ok {
		return nil, fmt.Errorf("invalid period %q", req.Period)
	}

	_, err := s.revenues.Get(ctx, req.UserID, req.Period)
	if err == nil {
		return nil, ErrRevenueExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rev := &models.Revenue{
		UserID:          req.UserID,
		Period:          req.Period,
		TotalDeposit:    req.TotalDeposit,
		TotalWithdrawal: req.TotalWithdrawal,
		TotalProfit:     req.TotalProfit,
	}
	if err := s.revenues.Upsert(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

// Get returns the rollup for the month containing at, or a zero rollup
// when the user had no activity that month.
func (s *RevenueService) Get(ctx context.Context, userID int64, at time.Time) (*models.Revenue, error) {
	period := util.PeriodKey(at)
	rev, err := s.revenues.Get(ctx, userID, period)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Revenue{UserID: userID, Period: period}, nil
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// List returns the user's rollups, optionally limited to one year.
func (s *RevenueService) List(ctx context.Context, userID int64, year int) ([]*models.Revenue, error) {
	return s.revenues.ListByUser(ctx, userID, year)
}
