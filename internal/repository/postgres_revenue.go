package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"CapTrack/internal/domain/models"
	domainrepo "CapTrack/internal/domain/repository"
)

// PostgresRevenueRepository stores the per-user monthly rollups.
// A row is unique per (user, period) where period is a "2006-01" key.
type PostgresRevenueRepository struct {
	pool *pgxpool.Pool
}

var _ domainrepo.RevenueRepository = (*PostgresRevenueRepository)(nil)

func NewPostgresRevenueRepository(pool *pgxpool.Pool) *PostgresRevenueRepository {
	return &PostgresRevenueRepository{pool: pool}
}

const revenueColumns = `id, user_id, period, total_deposit, total_withdrawal, total_profit, total_revenue, updated_at`

func scanRevenue(row pgx.Row) (*models.Revenue, error) {
	var rev models.Revenue
	err := row.Scan(
		&rev.ID,
		&rev.UserID,
		&rev.Period,
		&rev.TotalDeposit,
		&rev.TotalWithdrawal,
		&rev.TotalProfit,
		&rev.TotalRevenue,
		&rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *PostgresRevenueRepository) Get(ctx context.Context, userID int64, period string) (*models.Revenue, error) {
	row := r.pool.QueryRow(ctx, `
		select `+revenueColumns+` from revenues where user_id = $1 and period = $2
	`, userID, period)
	rev, err := scanRevenue(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("revenue %s for user %d: %w", period, userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get revenue: %w", err)
	}
	return rev, nil
}

func (r *PostgresRevenueRepository) ListByUser(ctx context.Context, userID int64, year int) ([]*models.Revenue, error) {
	rows, err := r.pool.Query(ctx, `
		select `+revenueColumns+` from revenues
		where user_id = $1 and ($2 = 0 or period like $3)
		order by period
	`, userID, year, fmt.Sprintf("%04d-%%", year))
	if err != nil {
		return nil, fmt.Errorf("list revenues: %w", err)
	}
	defer rows.Close()

	revenues := make([]*models.Revenue, 0)
	for rows.Next() {
		rev, err := scanRevenue(rows)
		if err != nil {
			return nil, err
		}
		revenues = append(revenues, rev)
	}
	return revenues, rows.Err()
}

// AddDelta folds one adjustment into the rollup for (user, period) in a
// single statement, so concurrent appliers to the same key cannot lose
// an update. total_revenue is recomputed from the adjusted components.
func (r *PostgresRevenueRepository) AddDelta(ctx context.Context, userID int64, period string, delta models.RevenueDelta) (*models.Revenue, error) {
	row := r.pool.QueryRow(ctx, `
		insert into revenues(user_id, period, total_deposit, total_withdrawal, total_profit, total_revenue)
		values ($1, $2, $3, $4, $5, $3 - $4 + $5)
		on conflict (user_id, period) do update set
			total_deposit    = revenues.total_deposit + excluded.total_deposit,
			total_withdrawal = revenues.total_withdrawal + excluded.total_withdrawal,
			total_profit     = revenues.total_profit + excluded.total_profit,
			total_revenue    = revenues.total_deposit + excluded.total_deposit
			                 - revenues.total_withdrawal - excluded.total_withdrawal
			                 + revenues.total_profit + excluded.total_profit,
			updated_at       = now()
		returning `+revenueColumns+`
	`, userID, period, delta.Deposit, delta.Withdrawal, delta.Profit)
	rev, err := scanRevenue(row)
	if err != nil {
		return nil, fmt.Errorf("apply revenue delta %s for user %d: %w", period, userID, err)
	}
	return rev, nil
}

// Upsert writes the rollup for one (user, period). The stored total_revenue
// is always recomputed from the three components so the derived column can
// never drift from its inputs.
func (r *PostgresRevenueRepository) Upsert(ctx context.Context, rev *models.Revenue) error {
	if rev == nil {
		return errors.New("nil revenue")
	}
	rev.TotalRevenue = rev.TotalDeposit - rev.TotalWithdrawal + rev.TotalProfit
	row := r.pool.QueryRow(ctx, `
		insert into revenues(user_id, period, total_deposit, total_withdrawal, total_profit, total_revenue)
		values ($1,$2,$3,$4,$5,$6)
		on conflict (user_id, period) do update set
			total_deposit    = excluded.total_deposit,
			total_withdrawal = excluded.total_withdrawal,
			total_profit     = excluded.total_profit,
			total_revenue    = excluded.total_revenue,
			updated_at       = now()
		returning id, updated_at
	`, rev.UserID, rev.Period, rev.TotalDeposit, rev.TotalWithdrawal, rev.TotalProfit, rev.TotalRevenue)
	if err := row.Scan(&rev.ID, &rev.UpdatedAt); err != nil {
		return fmt.Errorf("upsert revenue %s for user %d: %w", rev.Period, rev.UserID, err)
	}
	return nil
}
