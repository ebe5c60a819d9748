package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"CapTrack/internal/domain/models"
	"CapTrack/internal/repository"
	"CapTrack/pkg/cache"
	applogger "CapTrack/pkg/logger"
)

func testLogger() *applogger.Logger {
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		panic(err)
	}
	return l
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*models.User
	// failing users make GetByID error, for fault isolation tests
	failing map[int64]bool
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[int64]*models.User), failing: make(map[int64]bool)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing[id] {
		return nil, fmt.Errorf("user %d: storage down", id)
	}
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ListIDs(context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) UpdateCapital(_ context.Context, id int64, starting, weekly, running *float64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	if starting != nil {
		u.StartingCapital = *starting
	}
	if weekly != nil {
		u.WeeklyCapital = *weekly
	}
	if running != nil {
		u.RunningCapital = *running
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Health(context.Context) error { return nil }

type memSignalRepo struct {
	mu      sync.Mutex
	nextID  int64
	signals map[string]*models.Signal // key user:slot
	commits int
}

func newMemSignalRepo() *memSignalRepo {
	return &memSignalRepo{signals: make(map[string]*models.Signal)}
}

func slotKey(userID int64, slot string) string {
	return fmt.Sprintf("%d:%s", userID, slot)
}

func (r *memSignalRepo) GetByID(_ context.Context, id int64) (*models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.signals {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("signal %d: %w", id, repository.ErrNotFound)
}

func (r *memSignalRepo) GetBySlot(_ context.Context, userID int64, slot string) (*models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.signals[slotKey(userID, slot)]
	if !ok {
		return nil, fmt.Errorf("signal slot %q: %w", slot, repository.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *memSignalRepo) ListByDate(_ context.Context, userID int64, date time.Time) ([]*models.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Signal, 0)
	for _, s := range r.signals {
		if s.UserID == userID && s.Date.Year() == date.Year() && s.Date.YearDay() == date.YearDay() {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *memSignalRepo) NextSeq(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, s := range r.signals {
		if s.UserID == userID && s.Seq > max {
			max = s.Seq
		}
	}
	return max + 1, nil
}

func (r *memSignalRepo) List(_ context.Context, userID int64, status string, offset, limit int) ([]*models.Signal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Signal, 0)
	for _, s := range r.signals {
		if s.UserID == userID && (status == "" || string(s.Status) == status) {
			cp := *s
			all = append(all, &cp)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memSignalRepo) Create(_ context.Context, s *models.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey(s.UserID, s.Slot)
	if existing, ok := r.signals[key]; ok {
		*s = *existing
		return nil
	}
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.signals[key] = &cp
	return nil
}

func (r *memSignalRepo) SumProfit(_ context.Context, userID int64, from, to time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, s := range r.signals {
		if s.UserID == userID && s.Traded && !s.Date.Before(from) && s.Date.Before(to) {
			sum += s.Profit
		}
	}
	return sum, nil
}

// memCommitter pairs the signal map with a user repo to mimic the
// transactional claim: the conditional update on traded happens under
// one lock together with the capital write.
type memCommitter struct {
	signals *memSignalRepo
	users   *memUserRepo
}

func (c *memCommitter) CommitTrade(_ context.Context, signal *models.Signal, newCapital float64) (bool, error) {
	c.signals.mu.Lock()
	defer c.signals.mu.Unlock()

	stored, ok := c.signals.signals[slotKey(signal.UserID, signal.Slot)]
	if !ok {
		return false, fmt.Errorf("signal slot %q: %w", signal.Slot, repository.ErrNotFound)
	}
	if stored.Traded {
		return false, nil
	}

	stored.StartingCapital = signal.StartingCapital
	stored.FinalCapital = signal.FinalCapital
	stored.Profit = signal.Profit
	stored.Traded = true
	stored.Status = models.StatusCompleted
	c.signals.commits++

	c.users.mu.Lock()
	if u, ok := c.users.users[signal.UserID]; ok {
		u.RunningCapital = newCapital
	}
	c.users.mu.Unlock()
	return true, nil
}

type memCashflowRepo struct {
	mu          sync.Mutex
	nextID      int64
	deposits    map[int64]*models.Deposit
	withdrawals map[int64]*models.Withdrawal
}

func newMemCashflowRepo() *memCashflowRepo {
	return &memCashflowRepo{
		deposits:    make(map[int64]*models.Deposit),
		withdrawals: make(map[int64]*models.Withdrawal),
	}
}

func (r *memCashflowRepo) GetDeposit(_ context.Context, id int64) (*models.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[id]
	if !ok {
		return nil, fmt.Errorf("deposit %d: %w", id, repository.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (r *memCashflowRepo) CreateDeposit(_ context.Context, d *models.Deposit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.deposits[d.ID] = &cp
	return nil
}

func (r *memCashflowRepo) UpdateDeposit(_ context.Context, d *models.Deposit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[d.ID]; !ok {
		return fmt.Errorf("deposit %d: %w", d.ID, repository.ErrNotFound)
	}
	cp := *d
	r.deposits[d.ID] = &cp
	return nil
}

func (r *memCashflowRepo) DeleteDeposit(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deposits[id]; !ok {
		return fmt.Errorf("deposit %d: %w", id, repository.ErrNotFound)
	}
	delete(r.deposits, id)
	return nil
}

func (r *memCashflowRepo) ListDeposits(_ context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Deposit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Deposit, 0)
	for _, d := range r.deposits {
		if d.UserID == userID && !d.Date.Before(from) && d.Date.Before(to) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCashflowRepo) SumDeposits(_ context.Context, userID int64, from, to time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, d := range r.deposits {
		if d.UserID == userID && !d.Date.Before(from) && d.Date.Before(to) {
			sum += d.Total()
		}
	}
	return sum, nil
}

func (r *memCashflowRepo) GetWithdrawal(_ context.Context, id int64) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[id]
	if !ok {
		return nil, fmt.Errorf("withdrawal %d: %w", id, repository.ErrNotFound)
	}
	cp := *w
	return &cp, nil
}

func (r *memCashflowRepo) CreateWithdrawal(_ context.Context, w *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	w.ID = r.nextID
	cp := *w
	r.withdrawals[w.ID] = &cp
	return nil
}

func (r *memCashflowRepo) UpdateWithdrawal(_ context.Context, w *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.withdrawals[w.ID]; !ok {
		return fmt.Errorf("withdrawal %d: %w", w.ID, repository.ErrNotFound)
	}
	cp := *w
	r.withdrawals[w.ID] = &cp
	return nil
}

func (r *memCashflowRepo) DeleteWithdrawal(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.withdrawals[id]; !ok {
		return fmt.Errorf("withdrawal %d: %w", id, repository.ErrNotFound)
	}
	delete(r.withdrawals, id)
	return nil
}

func (r *memCashflowRepo) ListWithdrawals(_ context.Context, userID int64, from, to time.Time, offset, limit int) ([]*models.Withdrawal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Withdrawal, 0)
	for _, w := range r.withdrawals {
		if w.UserID == userID && !w.Date.Before(from) && w.Date.Before(to) {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCashflowRepo) SumWithdrawals(_ context.Context, userID int64, from, to time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, w := range r.withdrawals {
		if w.UserID == userID && !w.Date.Before(from) && w.Date.Before(to) {
			sum += w.Amount
		}
	}
	return sum, nil
}

type memRevenueRepo struct {
	mu       sync.Mutex
	nextID   int64
	revenues map[string]*models.Revenue // key user:period
	upserts  int
}

func newMemRevenueRepo() *memRevenueRepo {
	return &memRevenueRepo{revenues: make(map[string]*models.Revenue)}
}

func revKey(userID int64, period string) string {
	return fmt.Sprintf("%d:%s", userID, period)
}

func (r *memRevenueRepo) Get(_ context.Context, userID int64, period string) (*models.Revenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.revenues[revKey(userID, period)]
	if !ok {
		return nil, fmt.Errorf("revenue %s: %w", period, repository.ErrNotFound)
	}
	cp := *rev
	return &cp, nil
}

func (r *memRevenueRepo) ListByUser(_ context.Context, userID int64, year int) ([]*models.Revenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Revenue, 0)
	for _, rev := range r.revenues {
		if rev.UserID == userID {
			cp := *rev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRevenueRepo) AddDelta(_ context.Context, userID int64, period string, delta models.RevenueDelta) (*models.Revenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := revKey(userID, period)
	rev, ok := r.revenues[key]
	if !ok {
		r.nextID++
		rev = &models.Revenue{ID: r.nextID, UserID: userID, Period: period}
		r.revenues[key] = rev
	}
	rev.TotalDeposit += delta.Deposit
	rev.TotalWithdrawal += delta.Withdrawal
	rev.TotalProfit += delta.Profit
	rev.TotalRevenue = rev.TotalDeposit - rev.TotalWithdrawal + rev.TotalProfit
	r.upserts++
	cp := *rev
	return &cp, nil
}

func (r *memRevenueRepo) Upsert(_ context.Context, rev *models.Revenue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev.TotalRevenue = rev.TotalDeposit - rev.TotalWithdrawal + rev.TotalProfit
	key := revKey(rev.UserID, rev.Period)
	if existing, ok := r.revenues[key]; ok {
		rev.ID = existing.ID
	} else {
		r.nextID++
		rev.ID = r.nextID
	}
	cp := *rev
	r.revenues[key] = &cp
	r.upserts++
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	trades []*models.TradeEvent
}

func (p *capturePublisher) PublishTrade(_ context.Context, e *models.TradeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trades = append(p.trades, e)
	return nil
}

func (p *capturePublisher) PublishMessage(context.Context, string, []byte) error { return nil }
func (p *capturePublisher) Close() error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordSignalProcessed(string, string) {}
func (noopMetrics) RecordSchedulerPass(float64) {}
func (noopMetrics) RecordError(string) {}
func (noopMetrics) RecordRunningCapital(int64, float64) {}
func (noopMetrics) RecordLatency(string, float64) {}

// memLock is an in-process stand-in for the Redis pass lock.
type memLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLock() *memLock { return &memLock{held: make(map[string]bool)} }

func (l *memLock) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *memLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

func (l *memLock) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (l *memLock) Get(context.Context, string, interface{}) error {
	return cache.ErrCacheMiss
}
func (l *memLock) Delete(context.Context, ...string) error { return nil }
func (l *memLock) Exists(context.Context, ...string) (bool, error) { return false, nil }
