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

// PostgresSignalRepository stores trade signals in Postgres. Each signal
// is unique per (user, slot) so daily placeholders can be created
// concurrently without duplicates.
type PostgresSignalRepository struct {
	pool *pgxpool.Pool
}

var (
	_ domainrepo.SignalRepository = (*PostgresSignalRepository)(nil)
	_ domainrepo.TradeCommitter   = (*PostgresSignalRepository)(nil)
)

func NewPostgresSignalRepository(pool *pgxpool.Pool) *PostgresSignalRepository {
	return &PostgresSignalRepository{pool: pool}
}

const signalColumns = `id, user_id, seq, title, date, window_label, slot,
	starting_capital, final_capital, profit, traded, status, created_at, updated_at`

func scanSignal(row pgx.Row) (*models.Signal, error) {
	var s models.Signal
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Seq,
		&s.Title,
		&s.Date,
		&s.Window,
		&s.Slot,
		&s.StartingCapital,
		&s.FinalCapital,
		&s.Profit,
		&s.Traded,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSignalRepository) GetByID(ctx context.Context, id int64) (*models.Signal, error) {
	row := r.pool.QueryRow(ctx, `select `+signalColumns+` from signals where id = $1`, id)
	s, err := scanSignal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("signal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get signal %d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresSignalRepository) GetBySlot(ctx context.Context, userID int64, slot string) (*models.Signal, error) {
	row := r.pool.QueryRow(ctx, `select `+signalColumns+` from signals where user_id = $1 and slot = $2`, userID, slot)
	s, err := scanSignal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("signal slot %q for user %d: %w", slot, userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get signal by slot: %w", err)
	}
	return s, nil
}

func (r *PostgresSignalRepository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]*models.Signal, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)
	rows, err := r.pool.Query(ctx, `
		select `+signalColumns+` from signals
		where user_id = $1 and date >= $2 and date < $3
		order by seq
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list signals by date: %w", err)
	}
	defer rows.Close()
	return collectSignals(rows)
}

func (r *PostgresSignalRepository) List(ctx context.Context, userID int64, status string, offset, limit int) ([]*models.Signal, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		select count(*) from signals
		where user_id = $1 and ($2 = '' or status = $2)
	`, userID, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count signals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		select `+signalColumns+` from signals
		where user_id = $1 and ($2 = '' or status = $2)
		order by date desc, seq desc
		offset $3 limit $4
	`, userID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	signals, err := collectSignals(rows)
	return signals, total, err
}

func (r *PostgresSignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	if signal == nil {
		return errors.New("nil signal")
	}
	row := r.pool.QueryRow(ctx, `
		insert into signals(user_id, seq, title, date, window_label, slot,
			starting_capital, final_capital, profit, traded, status)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		on conflict (user_id, slot) do update set updated_at = signals.updated_at
		returning id, created_at, updated_at
	`,
		signal.UserID, signal.Seq, signal.Title, signal.Date, signal.Window, signal.Slot,
		signal.StartingCapital, signal.FinalCapital, signal.Profit, signal.Traded, signal.Status,
	)
	if err := row.Scan(&signal.ID, &signal.CreatedAt, &signal.UpdatedAt); err != nil {
		return fmt.Errorf("create signal %q: %w", signal.Slot, err)
	}
	return nil
}

// NextSeq returns the ordinal for the user's next signal. The sequence
// continues across days, so day two starts where day one left off.
func (r *PostgresSignalRepository) NextSeq(ctx context.Context, userID int64) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx, `
		select coalesce(max(seq), 0) + 1 from signals where user_id = $1
	`, userID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next signal seq: %w", err)
	}
	return next, nil
}

func (r *PostgresSignalRepository) SumProfit(ctx context.Context, userID int64, from, to time.Time) (float64, error) {
	var sum float64
	err := r.pool.QueryRow(ctx, `
		select coalesce(sum(profit), 0) from signals
		where user_id = $1 and traded = true and date >= $2 and date < $3
	`, userID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum profit: %w", err)
	}
	return sum, nil
}

// CommitTrade settles one signal inside a transaction. The update claims
// the row with "traded = false" so a slot is applied at most once even if
// two scheduler passes overlap; the second caller gets claimed=false and
// must not touch the user's capital.
func (r *PostgresSignalRepository) CommitTrade(ctx context.Context, signal *models.Signal, newCapital float64) (bool, error) {
	if signal == nil {
		return false, errors.New("nil signal")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin trade tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		update signals set
			starting_capital = $2,
			final_capital    = $3,
			profit           = $4,
			traded           = true,
			status           = $5,
			updated_at       = now()
		where id = $1 and traded = false
	`, signal.ID, signal.StartingCapital, signal.FinalCapital, signal.Profit, models.StatusCompleted)
	if err != nil {
		return false, fmt.Errorf("settle signal %d: %w", signal.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		update users set running_capital = $2, updated_at = now() where id = $1
	`, signal.UserID, newCapital)
	if err != nil {
		return false, fmt.Errorf("advance capital for user %d: %w", signal.UserID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit trade tx: %w", err)
	}
	return true, nil
}

func collectSignals(rows pgx.Rows) ([]*models.Signal, error) {
	signals := make([]*models.Signal, 0)
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}
