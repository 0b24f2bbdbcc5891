package wallet

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Portfolio is a capital account for one investment pool.
//
// It exclusively owns its trades and goals. CurrentCapital is the capital not
// committed to open trades; it never goes below zero at rest.
type Portfolio struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	InitialCapital Amount          `json:"initialCapital"`
	CurrentCapital Amount          `json:"currentCapital"`
	FinancialGoals []FinancialGoal `json:"financialGoals"`
	Trades         []Trade         `json:"trades"`
	Withdrawals    []Withdrawal    `json:"withdrawals"`
}

// Withdrawal records capital moved from a portfolio to the savings balance.
type Withdrawal struct {
	Amount Amount    `json:"amount"`
	Date   time.Time `json:"date"`
}

// NewPortfolio holds the fields required to create a portfolio.
type NewPortfolio struct {
	Name           string
	InitialCapital Amount
	FirstGoal      Amount
	Currency       string
}

// Clone returns a deep copy of p.
func (p Portfolio) Clone() Portfolio {
	p.FinancialGoals = slices.Clone(p.FinancialGoals)
	p.Trades = slices.Clone(p.Trades)
	p.Withdrawals = slices.Clone(p.Withdrawals)
	return p
}

// Money returns a in the portfolio currency.
func (p Portfolio) Money(a Amount) Money { return M(a, p.Currency) }

// ProfitLoss returns the capital gained or lost since the initial capital.
func (p Portfolio) ProfitLoss() Amount { return p.CurrentCapital.Sub(p.InitialCapital) }

// OpenTrades returns the trades still open.
func (p Portfolio) OpenTrades() []Trade {
	return slices.DeleteFunc(slices.Clone(p.Trades), func(t Trade) bool { return t.Status != StatusOpen })
}

// ClosedTrades returns the closed trades.
func (p Portfolio) ClosedTrades() []Trade {
	return slices.DeleteFunc(slices.Clone(p.Trades), func(t Trade) bool { return t.Status != StatusClosed })
}

// Trade returns the trade with id.
func (p Portfolio) Trade(id string) (Trade, error) {
	i, err := p.tradeIndex(id)
	if err != nil {
		return Trade{}, err
	}
	return p.Trades[i], nil
}

// validate checks the portfolio level invariants.
func (p Portfolio) validate() error {
	if p.CurrentCapital.IsNegative() {
		return fmt.Errorf("%w: current capital of %q would be %s", ErrInsufficientCapital, p.Name, p.CurrentCapital)
	}
	if p.InitialCapital.IsNegative() {
		return fmt.Errorf("%w: initial capital of %q would be %s", ErrInsufficientCapital, p.Name, p.InitialCapital)
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: portfolio name is missing", ErrValidation)
	}
	return name, nil
}

// newPortfolio builds a portfolio seeded with its first goal.
func newPortfolio(in NewPortfolio, policy Policy, newID func() string) (Portfolio, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return Portfolio{}, err
	}
	cur := normalizeCurrency(in.Currency)
	if err := ValidateCurrency(cur); err != nil {
		return Portfolio{}, err
	}
	if err := positive("initial capital", in.InitialCapital); err != nil {
		return Portfolio{}, err
	}
	if err := positive("first goal", in.FirstGoal); err != nil {
		return Portfolio{}, err
	}
	if policy.GoalAboveCapital && !in.FirstGoal.GreaterThan(in.InitialCapital) {
		return Portfolio{}, fmt.Errorf("%w: first goal %s must be above the initial capital %s", ErrValidation, in.FirstGoal, in.InitialCapital)
	}
	return Portfolio{
		ID:             newID(),
		Name:           name,
		Currency:       cur,
		InitialCapital: in.InitialCapital,
		CurrentCapital: in.InitialCapital,
		FinancialGoals: []FinancialGoal{{
			ID:       newID(),
			Name:     FirstGoalName,
			Amount:   in.FirstGoal,
			Achieved: in.InitialCapital.GreaterThanOrEqual(in.FirstGoal),
		}},
		Trades:      []Trade{},
		Withdrawals: []Withdrawal{},
	}, nil
}

// adjustCapital shifts both capital fields by delta, a deposit or withdrawal
// that leaves the recorded P/L untouched.
func (p *Portfolio) adjustCapital(delta Amount) error {
	if delta.IsZero() {
		return fmt.Errorf("%w: capital adjustment must not be zero", ErrValidation)
	}
	next := *p
	next.InitialCapital = p.InitialCapital.Add(delta)
	next.CurrentCapital = p.CurrentCapital.Add(delta)
	if err := next.validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// resetCapital sets a new baseline: both capital fields become capital.
func (p *Portfolio) resetCapital(capital Amount) error {
	if capital.IsNegative() {
		return fmt.Errorf("%w: capital must not be negative, got %s", ErrValidation, capital)
	}
	p.InitialCapital = capital
	p.CurrentCapital = capital
	return nil
}

// withdraw debits amount and records it as a withdrawal.
func (p *Portfolio) withdraw(amount Amount, now time.Time) error {
	if err := positive("withdrawal amount", amount); err != nil {
		return err
	}
	if p.CurrentCapital.LessThan(amount) {
		return fmt.Errorf("%w: cannot withdraw %s from %q, current capital is %s", ErrInsufficientCapital, amount, p.Name, p.CurrentCapital)
	}
	p.CurrentCapital = p.CurrentCapital.Sub(amount)
	p.Withdrawals = append(p.Withdrawals, Withdrawal{Amount: amount, Date: now})
	return nil
}
