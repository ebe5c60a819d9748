package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"CapTrack/internal/domain/models"
	domainrepo "CapTrack/internal/domain/repository"
)

// PostgresCashflowRepository stores deposits and withdrawals in Postgres.
type PostgresCashflowRepository struct {
	pool *pgxpool.Pool
}

var _ domainrepo.CashflowRepository = (*PostgresCashflowRepository)(nil)

func NewPostgresCashflowRepository(pool *pgxpool.Pool) *PostgresCashflowRepository {
	return &PostgresCashflowRepository{pool: pool}
}

func scanDeposit(row pgx.Row) (*models.Deposit, error) {
	var d models.Deposit
	err := row.Scan(&d.ID, &d.UserID, &d.Amount, &d.Bonus, &d.Date, &d.Phase, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanWithdrawal(row pgx.Row) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.Amount, &w.Date, &w.Phase, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresCashflowRepository) GetDeposit(ctx context.Context, id int64) (*models.Deposit, error) {
	row := r.pool.QueryRow(ctx, `
		select id, user_id, amount, bonus, date, phase, created_at from deposits where id = $1
	`, id)
	d, err := scanDeposit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("deposit %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deposit %d: %w", id, err)
	}
	return d, nil
}

func (r *PostgresCashflowRepository) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	if d == nil {
		return errors.New("nil deposit")
	}
	row := r.pool.QueryRow(ctx, `
		insert into deposits(user_id, amount, bonus, date, phase)
		values ($1,$2,$3,$4,$5)
		returning id, created_at
	`, d.UserID, d.Amount, d.Bonus, d.Date, d.Phase)
	if err := row.Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("create deposit: %w", err)
	}
	return nil
}

func (r *PostgresCashflowRepository) UpdateDeposit(ctx context.Context, d *models.Deposit) error {
	if d == nil {
		return errors.New("nil deposit")
	}
	tag, err := r.pool.Exec(ctx, `
		update deposits set amount=$2, bonus=$3, date=$4, phase=$5 where id=$1
	`, d.ID, d.Amount, d.Bonus, d.Date, d.Phase)
	if err != nil {
		return fmt.Errorf("update deposit %d: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresCashflowRepository) DeleteDeposit(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `delete from deposits where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deposit %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresCashflowRepository) ListDeposits(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Deposit, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		select count(*) from deposits where user_id = $1 and date >= $2 and date < $3
	`, userID, from, to).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count deposits: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		select id, user_id, amount, bonus, date, phase, created_at
		from deposits
		where user_id = $1 and date >= $2 and date < $3
		order by date desc, id desc
		offset $4 limit $5
	`, userID, from, to, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	deposits := make([]*models.Deposit, 0)
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, 0, err
		}
		deposits = append(deposits, d)
	}
	return deposits, total, rows.Err()
}

func (r *PostgresCashflowRepository) SumDeposits(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		select coalesce(sum(amount + bonus), 0) from deposits
		where user_id = $1 and date >= $2 and date < $3
	`, userID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum deposits: %w", err)
	}
	return sum, nil
}

func (r *PostgresCashflowRepository) GetWithdrawal(ctx context.Context, id int64) (*models.Withdrawal, error) {
	row := r.pool.QueryRow(ctx, `
		select id, user_id, amount, date, phase, created_at from withdrawals where id = $1
	`, id)
	w, err := scanWithdrawal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("withdrawal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get withdrawal %d: %w", id, err)
	}
	return w, nil
}

func (r *PostgresCashflowRepository) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	if w == nil {
		return errors.New("nil withdrawal")
	}
	row := r.pool.QueryRow(ctx, `
		insert into withdrawals(user_id, amount, date, phase)
		values ($1,$2,$3,$4)
		returning id, created_at
	`, w.UserID, w.Amount, w.Date, w.Phase)
	if err := row.Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("create withdrawal: %w", err)
	}
	return nil
}

func (r *PostgresCashflowRepository) UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	if w == nil {
		return errors.New("nil withdrawal")
	}
	tag, err := r.pool.Exec(ctx, `
		update withdrawals set amount=$2, date=$3, phase=$4 where id=$1
	`, w.ID, w.Amount, w.Date, w.Phase)
	if err != nil {
		return fmt.Errorf("update withdrawal %d: %w", w.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %d: %w", w.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresCashflowRepository) DeleteWithdrawal(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `delete from withdrawals where id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete withdrawal %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("withdrawal %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresCashflowRepository) ListWithdrawals(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		select count(*) from withdrawals where user_id = $1 and date >= $2 and date < $3
	`, userID, from, to).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		select id, user_id, amount, date, phase, created_at
		from withdrawals
		where user_id = $1 and date >= $2 and date < $3
		order by date desc, id desc
		offset $4 limit $5
	`, userID, from, to, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}
	defer rows.Close()

	withdrawals := make([]*models.Withdrawal, 0)
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, 0, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, total, rows.Err()
}

func (r *PostgresCashflowRepository) SumWithdrawals(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		select coalesce(sum(amount), 0) from withdrawals
		where user_id = $1 and date >= $2 and date < $3
	`, userID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum withdrawals: %w", err)
	}
	return sum, nil
}
