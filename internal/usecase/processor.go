package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CapTrack/internal/domain/models"
	drepo "CapTrack/internal/domain/repository"
	"CapTrack/internal/repository"
	applogger "CapTrack/pkg/logger"
)

// Outcomes of processing one time slot.
const (
	OutcomeCompleted     = "completed"
	OutcomeAlreadyTraded = "already_traded"
	OutcomeNotDue        = "not_due"
	OutcomeZeroCapital   = "zero_capital"
)

// SignalProcessor settles trade signals slot by slot. Each slot is
// settled at most once: the claim happens inside CommitTrade, so two
// concurrent passes over the same slot cannot both advance capital.
type SignalProcessor struct {
	users     drepo.UserRepository
	signals   drepo.SignalRepository
	committer drepo.TradeCommitter
	revenue   *RevenueService
	events    drepo.EventPublisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
}

// NewSignalProcessor creates a new SignalProcessor instance.
func NewSignalProcessor(
	users drepo.UserRepository,
	signals drepo.SignalRepository,
	committer drepo.TradeCommitter,
	revenue *RevenueService,
	events drepo.EventPublisher,
	metrics drepo.Metrics,
	lgr *applogger.Logger,
) *SignalProcessor {
	return &SignalProcessor{
		users:     users,
		signals:   signals,
		committer: committer,
		revenue:   revenue,
		events:    events,
		metrics:   metrics,
		logger:    lgr,
	}
}

// EnsureSignal returns the signal for the given slot, creating a
// not-started placeholder when the slot has no row yet. A new signal's
// ordinal continues the user's sequence across days.
func (p *SignalProcessor) EnsureSignal(ctx context.Context, userID int64, slot models.TimeSlot) (*models.Signal, error) {
	display := slot.Display()
	signal, err := p.signals.GetBySlot(ctx, userID, display)
	if err == nil {
		return signal, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	seq, err := p.signals.NextSeq(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("next seq for user %d: %w", userID, err)
	}

	signal = &models.Signal{
		UserID: userID,
		Seq:    seq,
		Title:  models.SignalTitle(seq),
		Date:   slot.Date,
		Window: slot.Label,
		Slot:   display,
		Status: models.StatusNotStarted,
	}
	if err := p.signals.Create(ctx, signal); err != nil {
		return nil, fmt.Errorf("ensure signal %q: %w", display, err)
	}
	return signal, nil
}

// startingCapital picks the base for one slot's trade. A slot later in
// the day compounds on the day's last settled signal; the day's first
// slot starts from the user's running capital.
func (p *SignalProcessor) startingCapital(ctx context.Context, user *models.User, slot models.TimeSlot) (float64, error) {
	settled, err := p.signals.ListByDate(ctx, user.ID, slot.Date)
	if err != nil {
		return 0, fmt.Errorf("load day signals: %w", err)
	}

	capital := user.RunningCapital
	bestSeq := 0
	for _, s := range settled {
		if s.Traded && s.Status == models.StatusCompleted && s.Seq > bestSeq {
			bestSeq = s.Seq
			capital = s.FinalCapital
		}
	}
	return capital, nil
}

// ProcessSlot settles the signal for one slot. A slot with no positive
// capital to trade is skipped without writing anything, so the window
// stays open and is retried once a deposit arrives.
func (p *SignalProcessor) ProcessSlot(ctx context.Context, userID int64, slot models.TimeSlot, now time.Time) (string, error) {
	if now.Hour() < slot.StartHour {
		return OutcomeNotDue, nil
	}

	existing, err := p.signals.GetBySlot(ctx, userID, slot.Display())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if existing != nil && existing.Traded {
		return OutcomeAlreadyTraded, nil
	}

	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	capital, err := p.startingCapital(ctx, user, slot)
	if err != nil {
		return "", err
	}
	if capital <= 0 {
		p.logger.Info("slot skipped, no capital to trade",
			applogger.Int64("user_id", userID),
			applogger.String("slot", slot.Display()),
			applogger.Float64("capital", capital))
		return OutcomeZeroCapital, nil
	}

	signal := existing
	if signal == nil {
		signal, err = p.EnsureSignal(ctx, userID, slot)
		if err != nil {
			return "", err
		}
		if signal.Traded {
			return OutcomeAlreadyTraded, nil
		}
	}

	result := Compound(capital)
	signal.StartingCapital = capital
	signal.FinalCapital = result.NewCapital
	signal.Profit = result.Profit

	claimed, err := p.committer.CommitTrade(ctx, signal, result.NewCapital)
	if err != nil {
		p.metrics.RecordError("commit_trade")
		return "", fmt.Errorf("process slot %q: %w", signal.Slot, err)
	}
	if !claimed {
		return OutcomeAlreadyTraded, nil
	}

	if _, err := p.revenue.Apply(ctx, userID, signal.Date, models.RevenueDelta{Profit: result.Profit}); err != nil {
		p.metrics.RecordError("revenue_apply")
		p.logger.Error("revenue update failed after trade",
			applogger.Int64("user_id", userID),
			applogger.String("slot", signal.Slot),
			applogger.Error(err))
	}

	p.publishTrade(ctx, signal, result)
	p.metrics.RecordRunningCapital(userID, result.NewCapital)
	return OutcomeCompleted, nil
}

func (p *SignalProcessor) publishTrade(ctx context.Context, signal *models.Signal, result TradeResult) {
	event := &models.TradeEvent{
		UserID:          signal.UserID,
		SignalID:        signal.ID,
		Slot:            signal.Slot,
		Window:          signal.Window,
		StartingCapital: signal.StartingCapital,
		Stake:           result.Stake,
		Profit:          result.Profit,
		FinalCapital:    result.NewCapital,
		TradedAt:        time.Now(),
	}
	if err := p.events.PublishTrade(ctx, event); err != nil {
		p.metrics.RecordError("publish_trade")
		p.logger.Warn("trade event publish failed",
			applogger.Int64("user_id", signal.UserID),
			applogger.String("slot", signal.Slot),
			applogger.Error(err))
	}
}
