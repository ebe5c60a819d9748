package models

import "time"

// Revenue is the per-user, per-month aggregate of cash movements and trade
// profit. Period is the canonical "2006-01" key; TotalRevenue is always
// derived as deposit - withdrawal + profit and never patched directly.
type Revenue struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Period          string    `json:"period"`
	TotalDeposit    float64   `json:"total_deposit"`
	TotalWithdrawal float64   `json:"total_withdrawal"`
	TotalProfit     float64   `json:"total_profit"`
	TotalRevenue    float64   `json:"total_revenue"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RevenueDelta is one additive adjustment to a period's totals.
type RevenueDelta struct {
	Deposit    float64
	Withdrawal float64
	Profit     float64
}

// IsZero reports whether the delta would change nothing.
func (d RevenueDelta) IsZero() bool {
	return d.Deposit == 0 && d.Withdrawal == 0 && d.Profit == 0
}
