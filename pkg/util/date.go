package util

import (
    "strconv"
    "time"
)

// PeriodKey returns the canonical revenue period for a date, e.g. "2025-02".
// Every revenue write in the system keys on this format; month names are
// never used as keys.
func PeriodKey(t time.Time) string {
    return t.Format("2006-01")
}

// DateKey returns the calendar-day key for a date, e.g. "2025-02-23".
func DateKey(t time.Time) string {
    return t.Format("2006-01-02")
}

// ParsePeriod parses a canonical period key back to the first of its month.
func ParsePeriod(s string) (time.Time, bool) {
    t, err := time.Parse("2006-01", s)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
    ay, am, ad := a.Date()
    by, bm, bd := b.In(a.Location()).Date()
    return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday beginning t's week.
func StartOfWeek(t time.Time) time.Time {
    d := StartOfDay(t)
    return d.AddDate(0, 0, -int(d.Weekday()))
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
    y, m, _ := t.Date()
    return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// ParseTime tries RFC3339, a plain date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}
