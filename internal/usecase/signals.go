package usecase

import (
	"context"
	"sort"
	"time"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	"CapTrack/pkg/config"
	"CapTrack/pkg/util"
)

// ProfitStats summarizes realized profit over common ranges.
type ProfitStats struct {
	Today     float64 `json:"today"`
	ThisWeek  float64 `json:"this_week"`
	ThisMonth float64 `json:"this_month"`
}

// SignalService serves request-driven signal reads. Today's signals are
// created on demand as not-started placeholders; profit lands on them
// only when the scheduler settles the slot.
type SignalService struct {
	signals   drepo.SignalRepository
	processor *SignalProcessor
	windows   []config.Window
}

// NewSignalService creates a new SignalService instance. Windows are
// kept in start-hour order so placeholder sequence numbers match the
// order the scheduler settles them.
func NewSignalService(signals drepo.SignalRepository, processor *SignalProcessor, cfg *config.Config) *SignalService {
	windows := make([]config.Window, len(cfg.Scheduler.Windows))
	copy(windows, cfg.Scheduler.Windows)
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartHour < windows[j].StartHour
	})

	return &SignalService{
		signals:   signals,
		processor: processor,
		windows:   windows,
	}
}

// Today returns the user's signals for the current day, creating the
// day's expected placeholders when absent.
func (s *SignalService) Today(ctx context.Context, userID int64, now time.Time) ([]*models.Signal, error) {
	for _, w := range s.windows {
		slot := models.TimeSlot{
			Date:      now,
			Label:     w.Label,
			StartHour: w.StartHour,
			EndLabel:  w.EndLabel,
		}
		if _, err := s.processor.EnsureSignal(ctx, userID, slot); err != nil {
			return nil, err
		}
	}
	return s.signals.ListByDate(ctx, userID, now)
}

// List returns a page of the user's signals, optionally filtered by status.
func (s *SignalService) List(ctx context.Context, userID int64, status string, page, limit int) ([]*models.Signal, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.signals.List(ctx, userID, status, (page-1)*limit, limit)
}

// Stats returns realized profit for today, this week and this month.
func (s *SignalService) Stats(ctx context.Context, userID int64, now time.Time) (*ProfitStats, error) {
	dayStart := util.StartOfDay(now)
	weekStart := util.StartOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := dayStart.AddDate(0, 0, 1)

	today, err := s.signals.SumProfit(ctx, userID, dayStart, end)
	if err != nil {
		return nil, err
	}
	week, err := s.signals.SumProfit(ctx, userID, weekStart, end)
	if err != nil {
		return nil, err
	}
	month, err := s.signals.SumProfit(ctx, userID, monthStart, end)
	if err != nil {
		return nil, err
	}

	return &ProfitStats{Today: today, ThisWeek: week, ThisMonth: month}, nil
}
