package models

import "time"

// CashflowPhase is a coarse tag for when a cash movement happened relative
// to the day's trading.
type CashflowPhase int

const (
	PhaseBeforeTrade CashflowPhase = iota
	PhaseDuringTrade
	PhaseAfterTrade
)

// Deposit is an external cash inflow. Owned by the ledger; read here as
// input to revenue aggregation and projections.
type Deposit struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Amount    float64       `json:"amount"`
	Bonus     float64       `json:"bonus"`
	Date      time.Time     `json:"date"`
	Phase     CashflowPhase `json:"phase"`
	CreatedAt time.Time     `json:"created_at"`
}

// Total is the capital effect of the deposit including bonus.
func (d Deposit) Total() float64 {
	return d.Amount + d.Bonus
}

// Withdrawal is an external cash outflow.
type Withdrawal struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Amount    float64       `json:"amount"`
	Date      time.Time     `json:"date"`
	Phase     CashflowPhase `json:"phase"`
	CreatedAt time.Time     `json:"created_at"`
}

// CashflowEvent is the date/amount view shared by deposits and withdrawals,
// used by the projection simulator.
type CashflowEvent struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}
