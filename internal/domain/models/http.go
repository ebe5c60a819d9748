package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type UserIDRequest struct {
	UserID int64 `query:"user_id" param:"user_id" json:"user_id" validate:"required,gt=0"`
}

type UpdateCapitalRequest struct {
	UserID          int64    `param:"id" json:"-" validate:"required,gt=0"`
	StartingCapital *float64 `json:"starting_capital" validate:"omitempty,gte=0"`
	WeeklyCapital   *float64 `json:"weekly_capital" validate:"omitempty,gte=0"`
	RunningCapital  *float64 `json:"running_capital" validate:"omitempty,gte=0"`
}

type CreateDepositRequest struct {
	UserID int64   `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Bonus  float64 `json:"bonus" validate:"gte=0"`
	Date   string  `json:"date"` // RFC3339 or YYYY-MM-DD, defaults to now
	Phase  int     `json:"phase" validate:"gte=0,lte=2"`
}

type UpdateDepositRequest struct {
	ID     int64    `param:"id" json:"-" validate:"required,gt=0"`
	UserID int64    `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
	Bonus  *float64 `json:"bonus" validate:"omitempty,gte=0"`
	Date   string   `json:"date"`
	Phase  *int     `json:"phase" validate:"omitempty,gte=0,lte=2"`
}

type CreateWithdrawalRequest struct {
	UserID int64   `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date"`
	Phase  int     `json:"phase" validate:"gte=0,lte=2"`
}

type UpdateWithdrawalRequest struct {
	ID     int64    `param:"id" json:"-" validate:"required,gt=0"`
	UserID int64    `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
	Date   string   `json:"date"`
	Phase  *int     `json:"phase" validate:"omitempty,gte=0,lte=2"`
}

type ListCashflowsRequest struct {
	UserID    int64  `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Page      int    `query:"page" json:"page" default:"1" validate:"gte=1"`
	Limit     int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
	StartDate string `query:"start_date" json:"start_date"`
	EndDate   string `query:"end_date" json:"end_date"`
}

type ListSignalsRequest struct {
	UserID int64  `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Page   int    `query:"page" json:"page" default:"1" validate:"gte=1"`
	Limit  int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=not-started inprogress completed"`
}

type ListRevenueRequest struct {
	UserID int64  `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Year   int    `query:"year" json:"year" validate:"omitempty,gte=2000,lte=2200"`
	Period string `query:"period" json:"period"` // canonical "2006-01" key
}

type CreateRevenueRequest struct {
	UserID          int64   `query:"user_id" json:"user_id" validate:"required,gt=0"`
	Period          string  `json:"period" validate:"required,len=7"`
	TotalDeposit    float64 `json:"total_deposit" validate:"gte=0"`
	TotalWithdrawal float64 `json:"total_withdrawal" validate:"gte=0"`
	TotalProfit     float64 `json:"total_profit" validate:"gte=0"`
}

type ProjectionRequest struct {
	InitialCapital float64         `query:"initial_capital" json:"initial_capital" validate:"required,gt=0"`
	Rounds         int             `query:"rounds" json:"rounds" default:"3" validate:"gte=1,lte=3"`
	Granularity    string          `query:"granularity" json:"granularity" default:"month" validate:"oneof=week month year"`
	Deposits       []CashflowEvent `json:"deposits"`
	Withdrawals    []CashflowEvent `json:"withdrawals"`
}
