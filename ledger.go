package wallet

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Policy holds the product rules that vary between deployments.
type Policy struct {
	// GoalAboveCapital requires the first goal of a new portfolio to be above
	// its initial capital.
	GoalAboveCapital bool
}

// DefaultPolicy returns the policy of the reference application.
func DefaultPolicy() Policy { return Policy{GoalAboveCapital: true} }

// Options configures a Ledger. Only Store is required by Open.
type Options struct {
	Quoter   Quoter
	Notifier Notifier
	Logger   *zerolog.Logger
	Policy   Policy
	// Email is the active account email. When set, imports of snapshots
	// belonging to another email are rejected.
	Email string
	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// state is the whole account state. It is only modified by replacing it with a
// fully validated and persisted copy.
type state struct {
	portfolios []Portfolio
	expenses   []Expense
	savings    Amount
	profile    Profile
	settings   Settings
}

func newState() state {
	return state{savings: A(0), settings: DefaultSettings()}
}

func (s state) clone() state {
	s.portfolios = slices.Clone(s.portfolios)
	for i, p := range s.portfolios {
		s.portfolios[i] = p.Clone()
	}
	s.expenses = slices.Clone(s.expenses)
	return s
}

func (s *state) portfolio(id string) (*Portfolio, error) {
	i := slices.IndexFunc(s.portfolios, func(p Portfolio) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("%w: portfolio %q", ErrNotFound, id)
	}
	return &s.portfolios[i], nil
}

func (s *state) expense(id string) (int, error) {
	i := slices.IndexFunc(s.expenses, func(e Expense) bool { return e.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: expense %q", ErrNotFound, id)
	}
	return i, nil
}

// Ledger is the portfolio ledger engine of one account.
//
// Every operation validates its input, computes the next state on a copy,
// re-evaluates goals, persists the changed documents and only then commits
// the copy. A rejected or unpersisted operation leaves the ledger unchanged.
// A Ledger is safe for concurrent use; operations are serialized.
type Ledger struct {
	mu       sync.Mutex
	st       state
	store    Store
	quoter   Quoter
	notifier Notifier
	log      zerolog.Logger
	policy   Policy
	email    string
	now      func() time.Time
	newID    func() string
}

// Open loads the account state from store and returns its ledger.
func Open(ctx context.Context, store Store, opts Options) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is missing", ErrValidation)
	}
	l := &Ledger{
		store:    store,
		quoter:   opts.Quoter,
		notifier: opts.Notifier,
		log:      zerolog.Nop(),
		policy:   opts.Policy,
		email:    strings.TrimSpace(opts.Email),
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if opts.Logger != nil {
		l.log = opts.Logger.With().Str("module", "ledger").Logger()
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	st, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(st.portfolios, func(a, b Portfolio) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	slices.SortStableFunc(st.expenses, func(a, b Expense) int { return b.Date.Compare(a.Date) })
	l.st = st
	l.log.Info().Int("portfolios", len(st.portfolios)).Int("expenses", len(st.expenses)).Msg("ledger loaded")
	return l, nil
}

// tx is the working copy of one ledger operation.
type tx struct {
	s      state
	c      changeSet
	notify bool
	events []GoalEvent
}

// savePortfolio checks p invariants, re-evaluates its goals and schedules its write.
func (t *tx) savePortfolio(p *Portfolio) error {
	if err := p.validate(); err != nil {
		return err
	}
	t.events = append(t.events, TrackGoals(p, t.notify)...)
	t.c.put(collPortfolios, p.ID, p)
	return nil
}

func (t *tx) saveSavings() {
	t.c.put(collMeta, metaSavings, t.s.savings)
}

// apply runs f on a copy of the state, commits it once persisted, then
// delivers the goal events outside of the lock.
func (l *Ledger) apply(ctx context.Context, op string, f func(t *tx) error) error {
	events, err := l.commit(ctx, op, f)
	if err != nil {
		return err
	}
	l.deliver(ctx, events)
	return nil
}

// commit runs f under the ledger lock and returns the goal events to deliver.
func (l *Ledger) commit(ctx context.Context, op string, f func(t *tx) error) ([]GoalEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := &tx{s: l.st.clone(), notify: l.st.settings.NotificationsEnabled && l.notifier != nil}
	if err := f(t); err != nil {
		l.log.Debug().Err(err).Str("op", op).Msg("operation rejected")
		return nil, err
	}
	if err := l.persist(ctx, &t.c); err != nil {
		l.log.Error().Err(err).Str("op", op).Msg("operation not persisted")
		return nil, err
	}
	l.st = t.s
	l.log.Debug().Str("op", op).Int("writes", len(t.c.writes)).Msg("operation committed")
	return t.events, nil
}

// deliver sends events to the notifier. Failures are logged and dropped.
func (l *Ledger) deliver(ctx context.Context, events []GoalEvent) {
	for _, e := range events {
		if err := l.notifier.Notify(ctx, e.Notification()); err != nil {
			l.log.Warn().Err(err).Str("portfolio", e.PortfolioID).Str("goal", e.Goal.ID).Msg("notification failed")
		}
	}
}

// updatePortfolio applies f to portfolio id and returns its new snapshot.
func (l *Ledger) updatePortfolio(ctx context.Context, op, id string, f func(p *Portfolio) error) (Portfolio, error) {
	var out Portfolio
	err := l.apply(ctx, op, func(t *tx) error {
		p, err := t.s.portfolio(id)
		if err != nil {
			return err
		}
		if err := f(p); err != nil {
			return err
		}
		if err := t.savePortfolio(p); err != nil {
			return err
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// CreatePortfolio creates a portfolio seeded with its first goal.
func (l *Ledger) CreatePortfolio(ctx context.Context, in NewPortfolio) (Portfolio, error) {
	var out Portfolio
	err := l.apply(ctx, "create-portfolio", func(t *tx) error {
		p, err := newPortfolio(in, l.policy, l.newID)
		if err != nil {
			return err
		}
		t.s.portfolios = append(t.s.portfolios, p)
		np := &t.s.portfolios[len(t.s.portfolios)-1]
		if err := t.savePortfolio(np); err != nil {
			return err
		}
		out = np.Clone()
		return nil
	})
	return out, err
}

// RenamePortfolio renames a portfolio and relabels the expenses paid from it.
func (l *Ledger) RenamePortfolio(ctx context.Context, id, name string) (Portfolio, error) {
	var out Portfolio
	err := l.apply(ctx, "rename-portfolio", func(t *tx) error {
		name, err := normalizeName(name)
		if err != nil {
			return err
		}
		p, err := t.s.portfolio(id)
		if err != nil {
			return err
		}
		p.Name = name
		if err := t.savePortfolio(p); err != nil {
			return err
		}
		for i := range t.s.expenses {
			if e := &t.s.expenses[i]; e.PortfolioID == id {
				e.PortfolioName = name
				t.c.put(collExpenses, e.ID, e)
			}
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// DeletePortfolio deletes a portfolio with its trades and goals. Expenses paid
// from it are kept, detached and labelled as coming from a deleted portfolio.
func (l *Ledger) DeletePortfolio(ctx context.Context, id string) error {
	err := l.apply(ctx, "delete-portfolio", func(t *tx) error {
		if _, err := t.s.portfolio(id); err != nil {
			return err
		}
		t.s.portfolios = slices.DeleteFunc(t.s.portfolios, func(p Portfolio) bool { return p.ID == id })
		t.c.remove(collPortfolios, id)
		for i := range t.s.expenses {
			if e := &t.s.expenses[i]; e.PortfolioID == id {
				e.orphan()
				t.c.put(collExpenses, e.ID, e)
			}
		}
		return nil
	})
	return err
}

// AdjustCapital deposits (delta > 0) or withdraws (delta < 0) capital, moving
// both the initial and the current capital.
func (l *Ledger) AdjustCapital(ctx context.Context, id string, delta Amount) (Portfolio, error) {
	return l.updatePortfolio(ctx, "adjust-capital", id, func(p *Portfolio) error {
		return p.adjustCapital(delta)
	})
}

// ResetCapital sets both the initial and current capital to capital. Trades
// are kept.
func (l *Ledger) ResetCapital(ctx context.Context, id string, capital Amount) (Portfolio, error) {
	return l.updatePortfolio(ctx, "reset-capital", id, func(p *Portfolio) error {
		return p.resetCapital(capital)
	})
}

// SetGoals replaces the goals of a portfolio.
func (l *Ledger) SetGoals(ctx context.Context, id string, goals []GoalInput) (Portfolio, error) {
	return l.updatePortfolio(ctx, "set-goals", id, func(p *Portfolio) error {
		return p.replaceGoals(goals, l.newID)
	})
}

// OpenTrade opens a trade in portfolio id and returns the new trade.
func (l *Ledger) OpenTrade(ctx context.Context, id string, in NewTrade) (Portfolio, Trade, error) {
	var tr Trade
	p, err := l.updatePortfolio(ctx, "open-trade", id, func(p *Portfolio) error {
		var err error
		tr, err = p.openTrade(in, l.newID(), l.now())
		return err
	})
	return p, tr, err
}

// EditTrade updates an open trade.
func (l *Ledger) EditTrade(ctx context.Context, id, tradeID string, e TradeEdit) (Portfolio, error) {
	return l.updatePortfolio(ctx, "edit-trade", id, func(p *Portfolio) error {
		_, err := p.editTrade(tradeID, e)
		return err
	})
}

// CloseTrade closes an open trade at closePrice.
func (l *Ledger) CloseTrade(ctx context.Context, id, tradeID string, closePrice Amount) (Portfolio, error) {
	return l.updatePortfolio(ctx, "close-trade", id, func(p *Portfolio) error {
		_, err := p.closeTrade(tradeID, closePrice, l.now())
		return err
	})
}

// DeleteTrade deletes a trade and reverses its capital effect. The caller is
// responsible for confirming this irreversible operation.
func (l *Ledger) DeleteTrade(ctx context.Context, id, tradeID string) (Portfolio, error) {
	return l.updatePortfolio(ctx, "delete-trade", id, func(p *Portfolio) error {
		_, err := p.deleteTrade(tradeID)
		return err
	})
}

// WithdrawToSavings moves amount from a portfolio to the savings balance.
func (l *Ledger) WithdrawToSavings(ctx context.Context, id string, amount Amount) (Portfolio, error) {
	var out Portfolio
	err := l.apply(ctx, "withdraw", func(t *tx) error {
		p, err := t.s.portfolio(id)
		if err != nil {
			return err
		}
		if err := p.withdraw(amount, l.now()); err != nil {
			return err
		}
		if err := t.savePortfolio(p); err != nil {
			return err
		}
		t.s.savings = t.s.savings.Add(amount)
		t.saveSavings()
		out = p.Clone()
		return nil
	})
	return out, err
}

// AddExpense records an expense paid from the savings balance, or from a
// portfolio capital when in.PortfolioID is set.
func (l *Ledger) AddExpense(ctx context.Context, in NewExpense) (Expense, error) {
	var out Expense
	err := l.apply(ctx, "add-expense", func(t *tx) error {
		in, err := in.validate()
		if err != nil {
			return err
		}
		e := Expense{
			ID:          l.newID(),
			Description: in.Description,
			Amount:      in.Amount,
			Category:    in.Category,
			Date:        l.now(),
		}
		if in.PortfolioID != "" {
			p, err := t.s.portfolio(in.PortfolioID)
			if err != nil {
				return err
			}
			if p.CurrentCapital.LessThan(e.Amount) {
				return fmt.Errorf("%w: cannot spend %s from %q, current capital is %s", ErrInsufficientCapital, e.Amount, p.Name, p.CurrentCapital)
			}
			p.CurrentCapital = p.CurrentCapital.Sub(e.Amount)
			if err := t.savePortfolio(p); err != nil {
				return err
			}
			e.PortfolioID, e.PortfolioName = p.ID, p.Name
		} else {
			if t.s.savings.LessThan(e.Amount) {
				return fmt.Errorf("%w: cannot spend %s, savings balance is %s", ErrInsufficientSavings, e.Amount, t.s.savings)
			}
			t.s.savings = t.s.savings.Sub(e.Amount)
			t.saveSavings()
		}
		t.s.expenses = slices.Insert(t.s.expenses, 0, e)
		t.c.put(collExpenses, e.ID, e)
		out = e
		return nil
	})
	return out, err
}

// DeleteExpense deletes an expense and refunds it to its live portfolio, or
// to the savings balance.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	err := l.apply(ctx, "delete-expense", func(t *tx) error {
		i, err := t.s.expense(id)
		if err != nil {
			return err
		}
		e := t.s.expenses[i]
		refunded := false
		if e.PortfolioID != "" {
			if p, err := t.s.portfolio(e.PortfolioID); err == nil {
				p.CurrentCapital = p.CurrentCapital.Add(e.Amount)
				if err := t.savePortfolio(p); err != nil {
					return err
				}
				refunded = true
			}
		}
		if !refunded {
			t.s.savings = t.s.savings.Add(e.Amount)
			t.saveSavings()
		}
		t.s.expenses = slices.Delete(t.s.expenses, i, i+1)
		t.c.remove(collExpenses, id)
		return nil
	})
	return err
}

// SetProfile replaces the account profile.
func (l *Ledger) SetProfile(ctx context.Context, p Profile) error {
	err := l.apply(ctx, "set-profile", func(t *tx) error {
		t.s.profile = p
		t.c.put(collMeta, metaProfile, p)
		return nil
	})
	return err
}

// SetNotifications enables or disables goal notifications.
func (l *Ledger) SetNotifications(ctx context.Context, enabled bool) error {
	err := l.apply(ctx, "set-notifications", func(t *tx) error {
		t.s.settings.NotificationsEnabled = enabled
		t.c.put(collMeta, metaSettings, t.s.settings)
		return nil
	})
	return err
}

// ResetAll deletes every portfolio and expense, zeroes the savings balance
// and clears the profile. Settings are kept.
func (l *Ledger) ResetAll(ctx context.Context) error {
	err := l.apply(ctx, "reset-all", func(t *tx) error {
		for _, p := range t.s.portfolios {
			t.c.remove(collPortfolios, p.ID)
		}
		for _, e := range t.s.expenses {
			t.c.remove(collExpenses, e.ID)
		}
		t.s.portfolios, t.s.expenses = nil, nil
		t.s.savings = A(0)
		t.s.profile = Profile{}
		t.saveSavings()
		t.c.put(collMeta, metaProfile, t.s.profile)
		return nil
	})
	return err
}

// Portfolio returns a copy of portfolio id.
func (l *Ledger) Portfolio(id string) (Portfolio, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, err := l.st.portfolio(id)
	if err != nil {
		return Portfolio{}, err
	}
	return p.Clone(), nil
}

// Portfolios returns a copy of all portfolios.
func (l *Ledger) Portfolios() []Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.clone().portfolios
}

// Expenses returns the expenses, newest first.
func (l *Ledger) Expenses() []Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.st.expenses)
}

// SavingsBalance returns the account-wide savings balance.
func (l *Ledger) SavingsBalance() Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.savings
}

// Profile returns the account profile.
func (l *Ledger) Profile() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.profile
}

// Settings returns the account settings.
func (l *Ledger) Settings() Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st.settings
}
