package repository

import (
	"context"
	"time"

	"CapTrack/internal/domain/models"
)

// UserRepository manages user accounts and their capital columns.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Create(ctx context.Context, user *models.User) error
	UpdateCapital(ctx context.Context, id int64, starting, weekly, running *float64) (*models.User, error)
	Health(ctx context.Context) error
}

// SignalRepository manages per-user trade signals keyed by day and slot.
type SignalRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Signal, error)
	GetBySlot(ctx context.Context, userID int64, slot string) (*models.Signal, error)
	ListByDate(ctx context.Context, userID int64, date time.Time) ([]*models.Signal, error)
	List(ctx context.Context, userID int64, status string, offset, limit int) ([]*models.Signal, int64, error)
	Create(ctx context.Context, signal *models.Signal) error
	NextSeq(ctx context.Context, userID int64) (int, error)
	SumProfit(ctx context.Context, userID int64, from, to time.Time) (float64, error)
}

// TradeCommitter applies one trade atomically: marks the signal traded,
// records the outcome and advances the user's running capital. The signal
// row is claimed with a conditional update so a slot settles at most once.
type TradeCommitter interface {
	CommitTrade(ctx context.Context, signal *models.Signal, newCapital float64) (bool, error)
}

// CashflowRepository manages deposits and withdrawals.
type CashflowRepository interface {
	GetDeposit(ctx context.Context, id int64) (*models.Deposit, error)
	CreateDeposit(ctx context.Context, d *models.Deposit) error
	UpdateDeposit(ctx context.Context, d *models.Deposit) error
	DeleteDeposit(ctx context.Context, id int64) error
	ListDeposits(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Deposit, int64, error)
	SumDeposits(ctx context.Context, userID int64, from, to time.Time) (float64, error)

	GetWithdrawal(ctx context.Context, id int64) (*models.Withdrawal, error)
	CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error
	UpdateWithdrawal(ctx context.Context, w *models.Withdrawal) error
	DeleteWithdrawal(ctx context.Context, id int64) error
	ListWithdrawals(ctx context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Withdrawal, int64, error)
	SumWithdrawals(ctx context.Context, userID int64, from, to time.Time) (float64, error)
}

// RevenueRepository manages the monthly revenue rollups.
type RevenueRepository interface {
	Get(ctx context.Context, userID int64, period string) (*models.Revenue, error)
	ListByUser(ctx context.Context, userID int64, year int) ([]*models.Revenue, error)
	AddDelta(ctx context.Context, userID int64, period string, delta models.RevenueDelta) (*models.Revenue, error)
	Upsert(ctx context.Context, rev *models.Revenue) error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordSignalProcessed(window, outcome string)
	RecordSchedulerPass(seconds float64)
	RecordError(kind string)
	RecordRunningCapital(userID int64, capital float64)
	RecordLatency(op string, seconds float64)
}

// EventPublisher pushes trade events and raw messages to the event stream.
type EventPublisher interface {
	PublishTrade(ctx context.Context, event *models.TradeEvent) error
	PublishMessage(ctx context.Context, topic string, payload []byte) error
	Close() error
}
