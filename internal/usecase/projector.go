package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"CapTrack/internal/domain/models"
	"CapTrack/pkg/cache"
	"CapTrack/pkg/config"
	applogger "CapTrack/pkg/logger"
	"CapTrack/pkg/util"
)

// Projector replays the compounding rule across a calendar range to
// produce a forecast. It never touches persisted signals or users;
// output depends only on the request and the supplied now.
type Projector struct {
	cache  cache.Service
	ttl    time.Duration
	hours  []int
	logger *applogger.Logger
}

// NewProjector creates a new Projector instance. Round gating hours come
// from the configured windows; rounds beyond the window list are gated
// at end of day.
func NewProjector(cacheSvc cache.Service, cfg *config.Config, lgr *applogger.Logger) *Projector {
	hours := make([]int, 0, len(cfg.Scheduler.Windows))
	for _, w := range cfg.Scheduler.Windows {
		hours = append(hours, w.StartHour)
	}
	sort.Ints(hours)
	return &Projector{
		cache:  cacheSvc,
		ttl:    cfg.Projection.CacheTTL,
		hours:  hours,
		logger: lgr,
	}
}

// Project computes the forecast for one calendar range. Results are
// cached keyed by the full request and the current day-hour, so
// identical calls within the same hour are served from cache.
func (p *Projector) Project(ctx context.Context, req *models.ProjectionRequest, now time.Time) ([]models.PeriodProjection, error) {
	if req == nil {
		return nil, errors.New("nil projection request")
	}

	key := p.cacheKey(req, now)
	if p.cache != nil {
		var cached []models.PeriodProjection
		if err := p.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	var periods []models.PeriodProjection
	switch models.Granularity(req.Granularity) {
	case models.GranularityWeek:
		periods = p.projectDays(req, util.StartOfWeek(now), 7, now)
	case models.GranularityMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		periods = p.projectDays(req, start, util.DaysInMonth(now), now)
	case models.GranularityYear:
		periods = p.projectMonths(req, now)
	default:
		return nil, fmt.Errorf("unknown granularity %q", req.Granularity)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, periods, p.ttl); err != nil {
			p.logger.Debug("projection cache set failed", applogger.Error(err))
		}
	}
	return periods, nil
}

// projectDays produces one snapshot per day, chaining capital day to day.
func (p *Projector) projectDays(req *models.ProjectionRequest, start time.Time, days int, now time.Time) []models.PeriodProjection {
	capital := req.InitialCapital
	periods := make([]models.PeriodProjection, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		snapshot := p.projectDay(req, day, now, &capital)
		periods = append(periods, snapshot)
	}
	return periods
}

// projectMonths produces one snapshot per month of the current year.
// Each month replays its days internally so day-level gating still
// applies inside the current month.
func (p *Projector) projectMonths(req *models.ProjectionRequest, now time.Time) []models.PeriodProjection {
	capital := req.InitialCapital
	periods := make([]models.PeriodProjection, 0, 12)
	for m := time.January; m <= time.December; m++ {
		start := time.Date(now.Year(), m, 1, 0, 0, 0, 0, now.Location())
		monthStart := capital
		var deposits, withdrawals, profit float64
		for d := 0; d < util.DaysInMonth(start); d++ {
			day := start.AddDate(0, 0, d)
			snapshot := p.projectDay(req, day, now, &capital)
			deposits += snapshot.TotalDeposits
			withdrawals += snapshot.TotalWithdrawals
			profit += snapshot.TotalProfit
		}

		period := models.PeriodProjection{
			Date:             util.PeriodKey(start),
			Month:            start.Format("January"),
			StartingCapital:  monthStart,
			FinalCapital:     capital,
			TotalDeposits:    deposits,
			TotalWithdrawals: withdrawals,
			TotalProfit:      profit,
		}
		if monthStart > 0 {
			period.ProfitPercentage = profit / monthStart * 100
		}
		periods = append(periods, period)
	}
	return periods
}

// projectDay adjusts capital by the day's cashflows, then applies the
// allowed rounds for that day. capital carries across calls.
func (p *Projector) projectDay(req *models.ProjectionRequest, day, now time.Time, capital *float64) models.PeriodProjection {
	snapshot := models.PeriodProjection{
		Date:      util.DateKey(day),
		Day:       day.Day(),
		DayOfWeek: day.Weekday().String(),
		Month:     day.Format("January"),
	}

	for _, d := range req.Deposits {
		if util.SameDay(d.Date, day) {
			*capital += d.Amount
			snapshot.TotalDeposits += d.Amount
		}
	}
	for _, w := range req.Withdrawals {
		if util.SameDay(w.Date, day) {
			*capital -= w.Amount
			snapshot.TotalWithdrawals += w.Amount
		}
	}

	snapshot.StartingCapital = *capital

	allowed := p.allowedRounds(day, now, req.Rounds)
	for i := 0; i < allowed; i++ {
		r := Compound(*capital)
		round := models.ProjectedRound{
			Title:  models.SignalTitle(i + 1),
			Stake:  r.Stake,
			Profit: r.Profit,
		}
		if *capital > 0 {
			round.Percentage = r.Profit / *capital * 100
		}
		snapshot.Rounds = append(snapshot.Rounds, round)
		snapshot.TotalProfit += r.Profit
		*capital = r.NewCapital
	}

	snapshot.FinalCapital = *capital
	if snapshot.StartingCapital > 0 {
		snapshot.ProfitPercentage = snapshot.TotalProfit / snapshot.StartingCapital * 100
	}
	return snapshot
}

// allowedRounds gates how many rounds count as realized for a day.
// Past days allow all rounds, future days none, and today only the
// rounds whose nominal hour has already passed.
func (p *Projector) allowedRounds(day, now time.Time, rounds int) int {
	dayStart := util.StartOfDay(day)
	nowStart := util.StartOfDay(now)

	switch {
	case dayStart.Before(nowStart):
		return rounds
	case dayStart.After(nowStart):
		return 0
	}

	allowed := 0
	for i := 0; i < rounds; i++ {
		hour := 24
		if i < len(p.hours) {
			hour = p.hours[i]
		}
		if now.Hour() >= hour && hour < 24 {
			allowed++
		}
	}
	return allowed
}

func (p *Projector) cacheKey(req *models.ProjectionRequest, now time.Time) string {
	b, _ := json.Marshal(req)
	return cache.GenerateKeyWithParams("projection", util.DateKey(now), now.Hour(), cache.HashKey(string(b)))
}
