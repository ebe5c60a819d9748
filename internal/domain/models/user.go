package models

import "time"

// User carries the capital state tracked per account. Only the capital
// fields are owned here; identity and credentials live with the account
// service.
type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	StartingCapital float64   `json:"starting_capital"`
	WeeklyCapital   float64   `json:"weekly_capital"`
	RunningCapital  float64   `json:"running_capital"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
