package util

import (
    "strconv"
    "testing"
    "time"
)

func TestPeriodKey(t *testing.T) {
    d := time.Date(2025, 2, 23, 19, 30, 0, 0, time.UTC)
    if got := PeriodKey(d); got != "2025-02" {
        t.Fatalf("unexpected period key %q", got)
    }
}

func TestDateKey(t *testing.T) {
    d := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
    if got := DateKey(d); got != "2025-02-03" {
        t.Fatalf("unexpected date key %q", got)
    }
}

func TestStartOfWeekSunday(t *testing.T) {
    // 2025-02-26 is a Wednesday; its week starts Sunday 2025-02-23.
    d := time.Date(2025, 2, 26, 15, 4, 5, 0, time.UTC)
    got := StartOfWeek(d)
    want := time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("start of week = %v, want %v", got, want)
    }
}

func TestDaysInMonth(t *testing.T) {
    if got := DaysInMonth(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)); got != 28 {
        t.Fatalf("feb 2025 days = %d", got)
    }
    if got := DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)); got != 29 {
        t.Fatalf("feb 2024 days = %d", got)
    }
}

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}
