package models

// Granularity selects the calendar range a projection walks.
type Granularity string

const (
	GranularityWeek  Granularity = "week"  // each day of the current week
	GranularityMonth Granularity = "month" // each day of the current month
	GranularityYear  Granularity = "year"  // each month of the current year
)

// ProjectedRound is one compounding round inside a projected period.
type ProjectedRound struct {
	Title      string  `json:"title"`
	Stake      float64 `json:"stake"`
	Profit     float64 `json:"profit"`
	Percentage float64 `json:"percentage"`
}

// PeriodProjection is one period snapshot of a capital forecast. Periods are
// independent of persisted state; the same inputs and "now" always produce
// the same snapshot.
type PeriodProjection struct {
	Date             string           `json:"date,omitempty"`
	Day              int              `json:"day,omitempty"`
	DayOfWeek        string           `json:"day_of_week,omitempty"`
	Month            string           `json:"month,omitempty"`
	StartingCapital  float64          `json:"starting_capital"`
	FinalCapital     float64          `json:"final_capital"`
	TotalDeposits    float64          `json:"total_deposits"`
	TotalWithdrawals float64          `json:"total_withdrawals"`
	Rounds           []ProjectedRound `json:"rounds"`
	TotalProfit      float64          `json:"total_profit"`
	ProfitPercentage float64          `json:"profit_percentage"`
}
