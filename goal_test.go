package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackGoal(t *testing.T) {
	goal := FinancialGoal{ID: "g", Name: "house", Amount: A(1000)}

	tests := []struct {
		name    string
		goal    FinancialGoal
		capital Amount
		notify  bool
		want    FinancialGoal
		fired   bool
	}{
		{"below", goal, A(999), true, goal, false},
		{"crossing", goal, A(1000), true, FinancialGoal{ID: "g", Name: "house", Amount: A(1000), Achieved: true, Notified: true}, true},
		{"crossing without permission", goal, A(1500), false, FinancialGoal{ID: "g", Name: "house", Amount: A(1000), Achieved: true}, false},
		{"still above", FinancialGoal{ID: "g", Name: "house", Amount: A(1000), Achieved: true, Notified: true}, A(2000), true, FinancialGoal{ID: "g", Name: "house", Amount: A(1000), Achieved: true, Notified: true}, false},
		{"regression", FinancialGoal{ID: "g", Name: "house", Amount: A(1000), Achieved: true, Notified: true}, A(10), true, goal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := TrackGoal(tt.goal, tt.capital, tt.notify)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fired, fired)

			// idempotent for the same capital.
			again, fired := TrackGoal(got, tt.capital, tt.notify)
			assert.Equal(t, got, again)
			assert.False(t, fired)
		})
	}
}

func TestTrackGoalsFiresOncePerCrossing(t *testing.T) {
	p := Portfolio{ID: "p", Name: "Main", FinancialGoals: []FinancialGoal{
		{ID: "a", Name: "a", Amount: A(100)},
		{ID: "b", Name: "b", Amount: A(200)},
	}}
	fired := 0
	for _, capital := range []int{50, 150, 250, 220, 150, 50, 250} {
		p.CurrentCapital = A(capital)
		fired += len(TrackGoals(&p, true))
	}
	// a crosses at 150 and 250, b at 250 twice.
	assert.Equal(t, 4, fired)
}

func TestGoalEventNotification(t *testing.T) {
	n := GoalEvent{PortfolioID: "p", PortfolioName: "Main", Goal: FinancialGoal{ID: "g", Name: "house"}}.Notification()
	assert.Equal(t, "p", n.PortfolioID)
	assert.Equal(t, "g", n.GoalID)
	assert.Contains(t, n.Body, "Main")
	assert.Contains(t, n.Body, "house")
	assert.NotEmpty(t, n.Title)
}
