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

var ErrNotFound = errors.New("not found")

// PostgresUserRepository stores user accounts and capital columns in Postgres.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

var _ domainrepo.UserRepository = (*PostgresUserRepository)(nil)

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, starting_capital, weekly_capital, running_capital, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.StartingCapital,
		&u.WeeklyCapital,
		&u.RunningCapital,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `select `+userColumns+` from users where id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (r *PostgresUserRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `select id from users order by id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	row := r.pool.QueryRow(ctx, `
		insert into users(username, email, starting_capital, weekly_capital, running_capital)
		values ($1,$2,$3,$4,$5)
		returning id, created_at, updated_at
	`, user.Username, user.Email, user.StartingCapital, user.WeeklyCapital, user.RunningCapital)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

// UpdateCapital patches only the capital columns that are provided.
func (r *PostgresUserRepository) UpdateCapital(ctx context.Context, id int64, starting, weekly, running *float64) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `
		update users set
			starting_capital = coalesce($2, starting_capital),
			weekly_capital   = coalesce($3, weekly_capital),
			running_capital  = coalesce($4, running_capital),
			updated_at       = now()
		where id = $1
		returning `+userColumns+`
	`, id, starting, weekly, running)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update capital for user %d: %w", id, err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
