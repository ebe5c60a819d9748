package models

import (
	"fmt"
	"time"
)

// SignalStatus is the lifecycle state of a signal record.
type SignalStatus string

const (
	StatusNotStarted SignalStatus = "not-started"
	StatusInProgress SignalStatus = "inprogress"
	StatusCompleted  SignalStatus = "completed"
)

// Signal is one trade opportunity for a user in one time window on one day.
// At most one signal exists per (user, date, window); once Traded is set the
// record is terminal.
type Signal struct {
	ID              int64        `json:"id"`
	UserID          int64        `json:"user_id"`
	Seq             int          `json:"seq"`
	Title           string       `json:"title"`
	Date            time.Time    `json:"date"`
	Window          string       `json:"window"`
	Slot            string       `json:"slot"`
	StartingCapital float64      `json:"starting_capital"`
	FinalCapital    float64      `json:"final_capital"`
	Profit          float64      `json:"profit"`
	Traded          bool         `json:"traded"`
	Status          SignalStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// SignalTitle renders the display title for a sequence number.
func SignalTitle(seq int) string {
	return fmt.Sprintf("Signal %d", seq)
}

// TimeSlot identifies a concrete window on a concrete day.
type TimeSlot struct {
	Date      time.Time
	Label     string // window label, e.g. "morning"
	StartHour int
	EndLabel  string // display end, e.g. "14:30"
}

// Display renders the slot the way it is shown to users,
// e.g. "2025-02-23 14:00 - 14:30".
func (s TimeSlot) Display() string {
	return fmt.Sprintf("%s %02d:00 - %s", s.Date.Format("2006-01-02"), s.StartHour, s.EndLabel)
}
