package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	applogger "CapTrack/pkg/logger"
	"CapTrack/pkg/util"
)

// ErrInsufficientBalance is returned when a withdrawal exceeds the
// user's running capital.
var ErrInsufficientBalance = errors.New("insufficient balance")

// CashflowService manages deposits and withdrawals. Every mutation
// adjusts the user's running capital and rebuilds the affected monthly
// rollups from the raw tables.
type CashflowService struct {
	cashflows drepo.CashflowRepository
	users     drepo.UserRepository
	revenue   *RevenueService
	logger    *applogger.Logger
}

// NewCashflowService creates a new CashflowService instance.
func NewCashflowService(
	cashflows drepo.CashflowRepository,
	users drepo.UserRepository,
	revenue *RevenueService,
	lgr *applogger.Logger,
) *CashflowService {
	return &CashflowService{
		cashflows: cashflows,
		users:     users,
		revenue:   revenue,
		logger:    lgr,
	}
}

// CreateDeposit records a deposit, credits the user's capital and
// updates the month's rollup.
func (s *CashflowService) CreateDeposit(ctx context.Context, req *models.CreateDepositRequest) (*models.Deposit, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	d := &models.Deposit{
		UserID: req.UserID,
		Amount: req.Amount,
		Bonus:  req.Bonus,
		Date:   util.ParseTimeDefault(req.Date, time.Now()),
		Phase:  models.CashflowPhase(req.Phase),
	}
	if err := s.cashflows.CreateDeposit(ctx, d); err != nil {
		return nil, err
	}

	newCapital := user.RunningCapital + d.Total()
	if _, err := s.users.UpdateCapital(ctx, user.ID, nil, nil, &newCapital); err != nil {
		return nil, fmt.Errorf("credit deposit %d: %w", d.ID, err)
	}
	s.refreshRevenue(ctx, user.ID, d.Date)
	return d, nil
}

// UpdateDeposit rewrites a deposit and re-syncs capital and the rollups
// of both the old and new month.
func (s *CashflowService) UpdateDeposit(ctx context.Context, req *models.UpdateDepositRequest) (*models.Deposit, error) {
	d, err := s.cashflows.GetDeposit(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if d.UserID != req.UserID {
		return nil, fmt.Errorf("deposit %d does not belong to user %d", req.ID, req.UserID)
	}

	oldTotal, oldDate := d.Total(), d.Date
	if req.Amount != nil {
		d.Amount = *req.Amount
	}
	if req.Bonus != nil {
		d.Bonus = *req.Bonus
	}
	if req.Date != "" {
		d.Date = util.ParseTimeDefault(req.Date, d.Date)
	}
	if req.Phase != nil {
		d.Phase = models.CashflowPhase(*req.Phase)
	}
	if err := s.cashflows.UpdateDeposit(ctx, d); err != nil {
		return nil, err
	}

	if diff := d.Total() - oldTotal; diff != 0 {
		if err := s.adjustCapital(ctx, d.UserID, diff); err != nil {
			return nil, err
		}
	}
	s.refreshRevenue(ctx, d.UserID, oldDate, d.Date)
	return d, nil
}

// DeleteDeposit removes a deposit and reverses its capital credit.
func (s *CashflowService) DeleteDeposit(ctx context.Context, userID, id int64) error {
	d, err := s.cashflows.GetDeposit(ctx, id)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return fmt.Errorf("deposit %d does not belong to user %d", id, userID)
	}
	if err := s.cashflows.DeleteDeposit(ctx, id); err != nil {
		return err
	}
	if err := s.adjustCapital(ctx, userID, -d.Total()); err != nil {
		return err
	}
	s.refreshRevenue(ctx, userID, d.Date)
	return nil
}

// ListDeposits returns a page of deposits within a date range.
func (s *CashflowService) ListDeposits(ctx context.Context, req *models.ListCashflowsRequest) ([]*models.Deposit, int64, error) {
	from, to, offset, limit := listBounds(req)
	return s.cashflows.ListDeposits(ctx, req.UserID, from, to, offset, limit)
}

// CreateWithdrawal records a withdrawal after checking the user's
// balance, debits capital and updates the month's rollup.
func (s *CashflowService) CreateWithdrawal(ctx context.Context, req *models.CreateWithdrawalRequest) (*models.Withdrawal, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.RunningCapital < req.Amount {
		return nil, ErrInsufficientBalance
	}

	w := &models.Withdrawal{
		UserID: req.UserID,
		Amount: req.Amount,
		Date:   util.ParseTimeDefault(req.Date, time.Now()),
		Phase:  models.CashflowPhase(req.Phase),
	}
	if err := s.cashflows.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}

	newCapital := user.RunningCapital - w.Amount
	if _, err := s.users.UpdateCapital(ctx, user.ID, nil, nil, &newCapital); err != nil {
		return nil, fmt.Errorf("debit withdrawal %d: %w", w.ID, err)
	}
	s.refreshRevenue(ctx, user.ID, w.Date)
	return w, nil
}

// UpdateWithdrawal rewrites a withdrawal and re-syncs capital and the
// affected rollups.
func (s *CashflowService) UpdateWithdrawal(ctx context.Context, req *models.UpdateWithdrawalRequest) (*models.Withdrawal, error) {
	w, err := s.cashflows.GetWithdrawal(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if w.UserID != req.UserID {
		return nil, fmt.Errorf("withdrawal %d does not belong to user %d", req.ID, req.UserID)
	}

	oldAmount, oldDate := w.Amount, w.Date
	if req.Amount != nil {
		w.Amount = *req.Amount
	}
	if req.Date != "" {
		w.Date = util.ParseTimeDefault(req.Date, w.Date)
	}
	if req.Phase != nil {
		w.Phase = models.CashflowPhase(*req.Phase)
	}

	if diff := w.Amount - oldAmount; diff > 0 {
		user, err := s.users.GetByID(ctx, w.UserID)
		if err != nil {
			return nil, err
		}
		if user.RunningCapital < diff {
			return nil, ErrInsufficientBalance
		}
	}
	if err := s.cashflows.UpdateWithdrawal(ctx, w); err != nil {
		return nil, err
	}
	if diff := w.Amount - oldAmount; diff != 0 {
		if err := s.adjustCapital(ctx, w.UserID, -diff); err != nil {
			return nil, err
		}
	}
	s.refreshRevenue(ctx, w.UserID, oldDate, w.Date)
	return w, nil
}

// DeleteWithdrawal removes a withdrawal and restores its capital debit.
func (s *CashflowService) DeleteWithdrawal(ctx context.Context, userID, id int64) error {
	w, err := s.cashflows.GetWithdrawal(ctx, id)
	if err != nil {
		return err
	}
	if w.UserID != userID {
		return fmt.Errorf("withdrawal %d does not belong to user %d", id, userID)
	}
	if err := s.cashflows.DeleteWithdrawal(ctx, id); err != nil {
		return err
	}
	if err := s.adjustCapital(ctx, userID, w.Amount); err != nil {
		return err
	}
	s.refreshRevenue(ctx, userID, w.Date)
	return nil
}

// ListWithdrawals returns a page of withdrawals within a date range.
func (s *CashflowService) ListWithdrawals(ctx context.Context, req *models.ListCashflowsRequest) ([]*models.Withdrawal, int64, error) {
	from, to, offset, limit := listBounds(req)
	return s.cashflows.ListWithdrawals(ctx, req.UserID, from, to, offset, limit)
}

func (s *CashflowService) adjustCapital(ctx context.Context, userID int64, delta float64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	newCapital := user.RunningCapital + delta
	if _, err := s.users.UpdateCapital(ctx, userID, nil, nil, &newCapital); err != nil {
		return fmt.Errorf("adjust capital for user %d: %w", userID, err)
	}
	return nil
}

// refreshRevenue rebuilds the rollups of the months containing the given
// dates. Failures are logged, not surfaced: the raw ledgers are the
// source of truth and the next rebuild repairs the rollup.
func (s *CashflowService) refreshRevenue(ctx context.Context, userID int64, dates ...time.Time) {
	seen := make(map[string]struct{}, len(dates))
	for _, at := range dates {
		period := util.PeriodKey(at)
		if _, ok := seen[period]; ok {
			continue
		}
		seen[period] = struct{}{}
		if _, err := s.revenue.Recompute(ctx, userID, at); err != nil {
			s.logger.Error("revenue rebuild failed",
				applogger.Int64("user_id", userID),
				applogger.String("period", period),
				applogger.Error(err))
		}
	}
}

func listBounds(req *models.ListCashflowsRequest) (time.Time, time.Time, int, int) {
	from := util.ParseTimeDefault(req.StartDate, time.Time{})
	to := util.ParseTimeDefault(req.EndDate, time.Now().AddDate(100, 0, 0))
	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return from, to, (page - 1) * limit, limit
}
