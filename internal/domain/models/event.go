package models

import "time"

// TradeEvent is emitted after a signal settles.
type TradeEvent struct {
	UserID          int64     `json:"user_id"`
	SignalID        int64     `json:"signal_id"`
	Slot            string    `json:"slot"`
	Window          string    `json:"window"`
	StartingCapital float64   `json:"starting_capital"`
	Stake           float64   `json:"stake"`
	Profit          float64   `json:"profit"`
	FinalCapital    float64   `json:"final_capital"`
	TradedAt        time.Time `json:"traded_at"`
}
