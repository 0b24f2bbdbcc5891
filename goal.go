package wallet

import (
	"fmt"
	"slices"
	"strings"
)

// FirstGoalName is the name of the goal seeded with every new portfolio.
const FirstGoalName = "الهدف الأول"

// FinancialGoal is a capital threshold of a portfolio.
//
// Achieved is derived from the portfolio current capital and persisted so that
// the edge (false to true) can be detected. Notified remembers that the
// achievement has been announced for the current crossing.
type FinancialGoal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   Amount `json:"amount"`
	Achieved bool   `json:"achieved"`
	Notified bool   `json:"notified"`
}

// GoalInput describes a goal in a batch replacement. An empty ID creates a
// new goal.
type GoalInput struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Amount Amount `json:"amount"`
}

// GoalEvent is emitted once when a goal is reached.
type GoalEvent struct {
	PortfolioID   string
	PortfolioName string
	Goal          FinancialGoal
}

// Notification returns the user facing message for e.
func (e GoalEvent) Notification() Notification {
	return Notification{
		Title:       "✨ تم الوصول للهدف!",
		Body:        fmt.Sprintf("تهانينا! لقد وصلت محفظة %q إلى هدفها %q.", e.PortfolioName, e.Goal.Name),
		PortfolioID: e.PortfolioID,
		GoalID:      e.Goal.ID,
	}
}

// TrackGoal re-evaluates g against capital.
//
// On a false to true crossing Achieved is set and, if notify is true and the
// goal was not yet notified, Notified is set and TrackGoal reports true. On a
// regression both flags are cleared, re-arming the alert. Otherwise g is
// returned unchanged, so TrackGoal is idempotent.
func TrackGoal(g FinancialGoal, capital Amount, notify bool) (FinancialGoal, bool) {
	reached := capital.GreaterThanOrEqual(g.Amount)
	switch {
	case reached && !g.Achieved:
		g.Achieved = true
		if !g.Notified && notify {
			g.Notified = true
			return g, true
		}
	case !reached && g.Achieved:
		g.Achieved = false
		g.Notified = false
	}
	return g, false
}

// TrackGoals re-evaluates every goal of p in ascending amount order and
// returns the achievement events, if any.
func TrackGoals(p *Portfolio, notify bool) []GoalEvent {
	var events []GoalEvent
	for i, g := range p.FinancialGoals {
		ng, fired := TrackGoal(g, p.CurrentCapital, notify)
		p.FinancialGoals[i] = ng
		if fired {
			events = append(events, GoalEvent{PortfolioID: p.ID, PortfolioName: p.Name, Goal: ng})
		}
	}
	return events
}

// sortGoals orders goals by ascending amount.
func sortGoals(goals []FinancialGoal) {
	slices.SortStableFunc(goals, func(a, b FinancialGoal) int { return a.Amount.value.Cmp(b.Amount.value) })
}

// validateGoal returns the trimmed goal name, or an error when the name is
// empty or the amount is not positive.
func validateGoal(name string, amount Amount) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: goal name is missing", ErrValidation)
	}
	if err := positive("goal amount", amount); err != nil {
		return "", err
	}
	return name, nil
}

// replaceGoals replaces the goals of p with in. Known ids keep their flags,
// new goals get an id from newID.
func (p *Portfolio) replaceGoals(in []GoalInput, newID func() string) error {
	previous := make(map[string]FinancialGoal, len(p.FinancialGoals))
	for _, g := range p.FinancialGoals {
		previous[g.ID] = g
	}

	goals := make([]FinancialGoal, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, gi := range in {
		name, err := validateGoal(gi.Name, gi.Amount)
		if err != nil {
			return err
		}
		if gi.ID != "" {
			if seen[gi.ID] {
				return fmt.Errorf("%w: goal id %q is used twice", ErrValidation, gi.ID)
			}
			seen[gi.ID] = true
		}
		g, ok := previous[gi.ID]
		if !ok || gi.ID == "" {
			g = FinancialGoal{ID: newID()}
		}
		g.Name = name
		g.Amount = gi.Amount
		goals = append(goals, g)
	}
	sortGoals(goals)
	p.FinancialGoals = goals
	return nil
}
