package wallet

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/etnz/wallet/docstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortfolio(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	p, err := l.CreatePortfolio(ctx, NewPortfolio{Name: "  Growth ", InitialCapital: A(1000), FirstGoal: A(1500), Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "Growth", p.Name)
	assert.Equal(t, "USD", p.Currency)
	assertAmount(t, A(1000), p.InitialCapital)
	assertAmount(t, A(1000), p.CurrentCapital)
	require.Len(t, p.FinancialGoals, 1)
	assert.Equal(t, FirstGoalName, p.FinancialGoals[0].Name)
	assert.False(t, p.FinancialGoals[0].Achieved)
	assert.Empty(t, p.Trades)

	got, err := l.Portfolio(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCreatePortfolioRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   NewPortfolio
	}{
		{"empty name", NewPortfolio{Name: " ", InitialCapital: A(1000), FirstGoal: A(2000)}},
		{"zero capital", NewPortfolio{Name: "a", InitialCapital: A(0), FirstGoal: A(2000)}},
		{"negative goal", NewPortfolio{Name: "a", InitialCapital: A(1000), FirstGoal: A(-1)}},
		{"goal below capital", NewPortfolio{Name: "a", InitialCapital: A(1000), FirstGoal: A(900)}},
		{"unknown currency", NewPortfolio{Name: "a", InitialCapital: A(1000), FirstGoal: A(2000), Currency: "XXY"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t)
			_, err := l.CreatePortfolio(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, l.Portfolios())
		})
	}
}

func TestCreatePortfolioWithoutGoalPolicy(t *testing.T) {
	opts := testOptions(nil)
	opts.Policy.GoalAboveCapital = false
	l, err := Open(context.Background(), docstore.NewMemory(), opts)
	require.NoError(t, err)

	p, err := l.CreatePortfolio(context.Background(), NewPortfolio{Name: "a", InitialCapital: A(1000), FirstGoal: A(500)})
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, p.Currency)
	assert.True(t, p.FinancialGoals[0].Achieved)
}

func TestOpenThenDeleteTradeRestoresCapital(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)

	tr := openTrade(t, l, p.ID, 10, 400)
	assert.Equal(t, "COMI", tr.StockName)
	assert.Equal(t, StatusOpen, tr.Status)
	got, _ := l.Portfolio(p.ID)
	assertAmount(t, A(600), got.CurrentCapital)

	got, err := l.DeleteTrade(ctx, p.ID, tr.ID)
	require.NoError(t, err)
	assertAmount(t, A(1000), got.CurrentCapital)
	assert.Empty(t, got.Trades)
}

func TestCloseTrade(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	tr := openTrade(t, l, p.ID, 10, 1000)

	assert.True(t, Q(100).Equal(tr.Quantity()))
	got, err := l.CloseTrade(ctx, p.ID, tr.ID, A(12))
	require.NoError(t, err)
	closed, err := got.Trade(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)
	assert.Equal(t, OutcomeProfit, closed.Outcome)
	assert.False(t, closed.CloseDate.IsZero())
	assertAmount(t, A(12), closed.ClosePrice)
	assertAmount(t, A(200), TradePnL(closed))
	assertAmount(t, A(1200), got.CurrentCapital)

	_, err = l.CloseTrade(ctx, p.ID, tr.ID, A(13))
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = l.EditTrade(ctx, p.ID, tr.ID, TradeEdit{Notes: ptr("late")})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = l.CloseTrade(ctx, p.ID, "missing", A(13))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseThenDeleteTrade(t *testing.T) {
	for _, closePrice := range []int{8, 10, 12} {
		l, _ := newTestLedger(t)
		ctx := context.Background()
		p := newTestPortfolio(t, l, 1000)
		tr := openTrade(t, l, p.ID, 10, 500)

		before, _ := l.Portfolio(p.ID)
		_, err := l.CloseTrade(ctx, p.ID, tr.ID, A(closePrice))
		require.NoError(t, err)
		got, err := l.DeleteTrade(ctx, p.ID, tr.ID)
		require.NoError(t, err)
		// principal returned at close, P/L undone on delete.
		assertAmount(t, before.CurrentCapital.Add(tr.TradeValue), got.CurrentCapital, "close price %d", closePrice)
	}
}

func TestDeleteClosedTradeCannotOverdraw(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	tr := openTrade(t, l, p.ID, 10, 1000)
	_, err := l.CloseTrade(ctx, p.ID, tr.ID, A(20))
	require.NoError(t, err)
	_, err = l.WithdrawToSavings(ctx, p.ID, A(1500))
	require.NoError(t, err)

	_, err = l.DeleteTrade(ctx, p.ID, tr.ID)
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	got, _ := l.Portfolio(p.ID)
	assertAmount(t, A(500), got.CurrentCapital)
	assert.Len(t, got.Trades, 1)
}

func TestEditTrade(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	tr := openTrade(t, l, p.ID, 10, 400)

	got, err := l.EditTrade(ctx, p.ID, tr.ID, TradeEdit{TradeValue: ptr(A(300)), Notes: ptr(" breakout ")})
	require.NoError(t, err)
	assertAmount(t, A(700), got.CurrentCapital)
	edited, _ := got.Trade(tr.ID)
	assert.Equal(t, "breakout", edited.Notes)

	got, err = l.EditTrade(ctx, p.ID, tr.ID, TradeEdit{TradeValue: ptr(A(1000))})
	require.NoError(t, err)
	assertAmount(t, A(0), got.CurrentCapital)

	_, err = l.EditTrade(ctx, p.ID, tr.ID, TradeEdit{TradeValue: ptr(A(1001))})
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	_, err = l.EditTrade(ctx, p.ID, tr.ID, TradeEdit{PurchasePrice: ptr(A(0))})
	assert.ErrorIs(t, err, ErrValidation)

	got, _ = l.Portfolio(p.ID)
	assertAmount(t, A(0), got.CurrentCapital)
	edited, _ = got.Trade(tr.ID)
	assertAmount(t, A(10), edited.PurchasePrice)
}

func TestOpenTradeValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)

	tests := []struct {
		name string
		in   NewTrade
		want error
	}{
		{"empty stock", NewTrade{PurchasePrice: A(1), TradeValue: A(1), StopLoss: A(1), TakeProfit: A(1)}, ErrValidation},
		{"zero price", NewTrade{StockName: "x", TradeValue: A(1), StopLoss: A(1), TakeProfit: A(1)}, ErrValidation},
		{"zero stop", NewTrade{StockName: "x", PurchasePrice: A(1), TradeValue: A(1), TakeProfit: A(1)}, ErrValidation},
		{"too large", NewTrade{StockName: "x", PurchasePrice: A(1), TradeValue: A(1001), StopLoss: A(1), TakeProfit: A(1)}, ErrInsufficientCapital},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.OpenTrade(ctx, p.ID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	got, _ := l.Portfolio(p.ID)
	assertAmount(t, A(1000), got.CurrentCapital)
	assert.Empty(t, got.Trades)
}

func TestTradesAreNewestFirst(t *testing.T) {
	l, _ := newTestLedger(t)
	p := newTestPortfolio(t, l, 1000)
	first := openTrade(t, l, p.ID, 10, 100)
	second := openTrade(t, l, p.ID, 10, 100)

	got, _ := l.Portfolio(p.ID)
	require.Len(t, got.Trades, 2)
	assert.Equal(t, second.ID, got.Trades[0].ID)
	assert.Equal(t, first.ID, got.Trades[1].ID)
}

func TestAdjustAndResetCapital(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	openTrade(t, l, p.ID, 10, 600)

	got, err := l.AdjustCapital(ctx, p.ID, A(500))
	require.NoError(t, err)
	assertAmount(t, A(1500), got.InitialCapital)
	assertAmount(t, A(900), got.CurrentCapital)

	_, err = l.AdjustCapital(ctx, p.ID, A(-901))
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	_, err = l.AdjustCapital(ctx, p.ID, A(0))
	assert.ErrorIs(t, err, ErrValidation)

	got, err = l.ResetCapital(ctx, p.ID, A(250))
	require.NoError(t, err)
	assertAmount(t, A(250), got.InitialCapital)
	assertAmount(t, A(250), got.CurrentCapital)
	assert.Len(t, got.Trades, 1)

	_, err = l.ResetCapital(ctx, p.ID, A(-1))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = l.AdjustCapital(ctx, "nope", A(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdrawToSavings(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)

	got, err := l.WithdrawToSavings(ctx, p.ID, A(300))
	require.NoError(t, err)
	assertAmount(t, A(700), got.CurrentCapital)
	assertAmount(t, A(1000), got.InitialCapital)
	assertAmount(t, A(300), l.SavingsBalance())
	require.Len(t, got.Withdrawals, 1)
	assertAmount(t, A(300), got.Withdrawals[0].Amount)

	_, err = l.WithdrawToSavings(ctx, p.ID, A(1000))
	assert.ErrorIs(t, err, ErrInsufficientCapital)
	_, err = l.WithdrawToSavings(ctx, p.ID, A(0))
	assert.ErrorIs(t, err, ErrValidation)
	assertAmount(t, A(300), l.SavingsBalance())
}

func TestExpenses(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	_, err := l.WithdrawToSavings(ctx, p.ID, A(300))
	require.NoError(t, err)

	_, err = l.AddExpense(ctx, NewExpense{Description: "rent", Amount: A(301)})
	assert.ErrorIs(t, err, ErrInsufficientSavings)
	_, err = l.AddExpense(ctx, NewExpense{Description: " ", Amount: A(1)})
	assert.ErrorIs(t, err, ErrValidation)

	food, err := l.AddExpense(ctx, NewExpense{Description: "food", Amount: A(100), Category: Groceries})
	require.NoError(t, err)
	assertAmount(t, A(200), l.SavingsBalance())
	other, err := l.AddExpense(ctx, NewExpense{Description: "misc", Amount: A(50)})
	require.NoError(t, err)
	assert.Equal(t, Other, other.Category)

	expenses := l.Expenses()
	require.Len(t, expenses, 2)
	assert.Equal(t, other.ID, expenses[0].ID, "newest first")
	assertAmount(t, A(150), TotalExpenses(expenses))

	require.NoError(t, l.DeleteExpense(ctx, food.ID))
	assertAmount(t, A(250), l.SavingsBalance())
	assert.ErrorIs(t, l.DeleteExpense(ctx, food.ID), ErrNotFound)
}

func TestExpensePaidFromPortfolio(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)

	_, err := l.AddExpense(ctx, NewExpense{Description: "fees", Amount: A(1001), PortfolioID: p.ID})
	assert.ErrorIs(t, err, ErrInsufficientCapital)

	e, err := l.AddExpense(ctx, NewExpense{Description: "fees", Amount: A(100), PortfolioID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "Main", e.PortfolioName)
	got, _ := l.Portfolio(p.ID)
	assertAmount(t, A(900), got.CurrentCapital)
	assertAmount(t, A(0), l.SavingsBalance())

	_, err = l.RenamePortfolio(ctx, p.ID, "Core")
	require.NoError(t, err)
	assert.Equal(t, "Core", l.Expenses()[0].PortfolioName)

	require.NoError(t, l.DeleteExpense(ctx, e.ID))
	got, _ = l.Portfolio(p.ID)
	assertAmount(t, A(1000), got.CurrentCapital)
}

func TestDeletePortfolioOrphansExpenses(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	e, err := l.AddExpense(ctx, NewExpense{Description: "fees", Amount: A(100), PortfolioID: p.ID})
	require.NoError(t, err)

	require.NoError(t, l.DeletePortfolio(ctx, p.ID))
	assert.Empty(t, l.Portfolios())
	expenses := l.Expenses()
	require.Len(t, expenses, 1)
	assert.Empty(t, expenses[0].PortfolioID)
	assert.Equal(t, "Main (deleted)", expenses[0].PortfolioName)

	// with no live portfolio the refund goes to savings.
	require.NoError(t, l.DeleteExpense(ctx, e.ID))
	assertAmount(t, A(100), l.SavingsBalance())
	assert.ErrorIs(t, l.DeletePortfolio(ctx, p.ID), ErrNotFound)
}

func TestGoalsNotifyOncePerCrossing(t *testing.T) {
	l, rec := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000) // goal at 2000

	tr := openTrade(t, l, p.ID, 10, 1000)
	got, err := l.CloseTrade(ctx, p.ID, tr.ID, A(21))
	require.NoError(t, err)
	assertAmount(t, A(2100), got.CurrentCapital)
	assert.True(t, got.FinancialGoals[0].Achieved)
	assert.True(t, got.FinancialGoals[0].Notified)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, got.FinancialGoals[0].ID, rec.got[0].GoalID)

	// staying above the goal does not notify again.
	_, err = l.AdjustCapital(ctx, p.ID, A(50))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())

	// a regression re-arms the goal.
	got, err = l.WithdrawToSavings(ctx, p.ID, A(500))
	require.NoError(t, err)
	assert.False(t, got.FinancialGoals[0].Achieved)
	assert.False(t, got.FinancialGoals[0].Notified)

	_, err = l.AdjustCapital(ctx, p.ID, A(500))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count())
}

func TestGoalsWithNotificationsDisabled(t *testing.T) {
	l, rec := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	require.NoError(t, l.SetNotifications(ctx, false))

	got, err := l.AdjustCapital(ctx, p.ID, A(1000))
	require.NoError(t, err)
	assert.True(t, got.FinancialGoals[0].Achieved)
	assert.False(t, got.FinancialGoals[0].Notified)
	assert.Zero(t, rec.count())
}

func TestNotifierFailureIsIgnored(t *testing.T) {
	l, rec := newTestLedger(t)
	rec.err = errStoreDown
	p := newTestPortfolio(t, l, 1000)

	got, err := l.AdjustCapital(context.Background(), p.ID, A(1000))
	require.NoError(t, err)
	assert.True(t, got.FinancialGoals[0].Notified)
	assert.Equal(t, 1, rec.count())
}

func TestSetGoals(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	first := p.FinancialGoals[0]

	got, err := l.SetGoals(ctx, p.ID, []GoalInput{
		{Name: "house", Amount: A(5000)},
		{ID: first.ID, Name: "first", Amount: A(2000)},
		{Name: "easy", Amount: A(800)},
	})
	require.NoError(t, err)
	require.Len(t, got.FinancialGoals, 3)
	assert.Equal(t, "easy", got.FinancialGoals[0].Name)
	assert.True(t, got.FinancialGoals[0].Achieved)
	assert.Equal(t, first.ID, got.FinancialGoals[1].ID)
	assert.Equal(t, "house", got.FinancialGoals[2].Name)

	_, err = l.SetGoals(ctx, p.ID, []GoalInput{{Name: "", Amount: A(1)}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = l.SetGoals(ctx, p.ID, []GoalInput{{Name: "x", Amount: A(0)}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = l.SetGoals(ctx, p.ID, []GoalInput{
		{ID: first.ID, Name: "a", Amount: A(2000)},
		{ID: first.ID, Name: "b", Amount: A(3000)},
	})
	assert.ErrorIs(t, err, ErrValidation)
	after, err := l.Portfolio(p.ID)
	require.NoError(t, err)
	assert.Len(t, after.FinancialGoals, 3)
}

// readBack is a notifier that reads the ledger it is notified by.
type readBack struct {
	l   *Ledger
	got []Portfolio
}

func (r *readBack) Notify(_ context.Context, n Notification) error {
	p, err := r.l.Portfolio(n.PortfolioID)
	if err != nil {
		return err
	}
	r.got = append(r.got, p)
	return nil
}

func TestNotifierCanReadLedger(t *testing.T) {
	ctx := context.Background()
	rb := &readBack{}
	l, err := Open(ctx, docstore.NewMemory(), testOptions(rb))
	require.NoError(t, err)
	rb.l = l
	p := newTestPortfolio(t, l, 1000)

	done := make(chan error, 1)
	go func() {
		_, err := l.AdjustCapital(ctx, p.ID, A(1000))
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("AdjustCapital blocked while notifying")
	}
	require.Len(t, rb.got, 1)
	assertAmount(t, A(2000), rb.got[0].CurrentCapital)
	assert.True(t, rb.got[0].FinancialGoals[0].Notified)
}

func TestPersistenceFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	store := failingBatch{mem}
	l, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)

	_, err = l.CreatePortfolio(ctx, NewPortfolio{Name: "a", InitialCapital: A(1000), FirstGoal: A(2000)})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, l.Portfolios())
}

func TestSequentialWritesAreRolledBack(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	failing := false
	store := &flakyStore{Store: mem, fail: func(op, collection, id string) bool {
		return failing && collection == collMeta && id == metaSavings
	}}
	l, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)
	p := newTestPortfolio(t, l, 1000)

	failing = true
	_, err = l.WithdrawToSavings(ctx, p.ID, A(300))
	assert.ErrorIs(t, err, ErrPersistence)

	got, _ := l.Portfolio(p.ID)
	assertAmount(t, A(1000), got.CurrentCapital)
	assertAmount(t, A(0), l.SavingsBalance())

	// the portfolio document written before the failure was restored.
	reloaded, err := Open(ctx, mem, testOptions(nil))
	require.NoError(t, err)
	rp, err := reloaded.Portfolio(p.ID)
	require.NoError(t, err)
	assertAmount(t, A(1000), rp.CurrentCapital)
	assert.Empty(t, rp.Withdrawals)
}

func TestLedgerReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	db, err := docstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := docstore.NewSQLite(ctx, db, "alice@example.com", zerolog.Nop())
	require.NoError(t, err)

	l, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)
	p := newTestPortfolio(t, l, 1000)
	tr := openTrade(t, l, p.ID, 10, 500)
	_, err = l.CloseTrade(ctx, p.ID, tr.ID, A(11))
	require.NoError(t, err)
	_, err = l.WithdrawToSavings(ctx, p.ID, A(100))
	require.NoError(t, err)
	_, err = l.AddExpense(ctx, NewExpense{Description: "food", Amount: A(40), Category: Restaurants})
	require.NoError(t, err)
	require.NoError(t, l.SetProfile(ctx, Profile{Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, l.SetNotifications(ctx, false))

	reloaded, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)
	want, got := l.Export(), reloaded.Export()
	require.Len(t, got.Portfolios, 1)
	assertAmount(t, want.Portfolios[0].CurrentCapital, got.Portfolios[0].CurrentCapital)
	assert.Equal(t, want.Portfolios[0].Trades[0].Outcome, got.Portfolios[0].Trades[0].Outcome)
	assertAmount(t, A(60), got.SavingsBalance)
	assert.Equal(t, want.Expenses[0].Category, got.Expenses[0].Category)
	assert.Equal(t, "Alice", reloaded.Profile().Name)
	assert.False(t, reloaded.Settings().NotificationsEnabled)
}

func TestReloadedPortfoliosAreSortedByName(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	l, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)
	for _, name := range []string{"beta", "Alpha", "gamma"} {
		_, err := l.CreatePortfolio(ctx, NewPortfolio{Name: name, InitialCapital: A(100), FirstGoal: A(200), Currency: "EGP"})
		require.NoError(t, err)
	}

	reloaded, err := Open(ctx, store, testOptions(nil))
	require.NoError(t, err)
	var names []string
	for _, p := range reloaded.Portfolios() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names)
}

func TestResetAll(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	_, err := l.WithdrawToSavings(ctx, p.ID, A(300))
	require.NoError(t, err)
	_, err = l.AddExpense(ctx, NewExpense{Description: "food", Amount: A(10)})
	require.NoError(t, err)
	require.NoError(t, l.SetProfile(ctx, Profile{Name: "Alice"}))
	require.NoError(t, l.SetNotifications(ctx, false))

	require.NoError(t, l.ResetAll(ctx))
	assert.Empty(t, l.Portfolios())
	assert.Empty(t, l.Expenses())
	assertAmount(t, A(0), l.SavingsBalance())
	assert.Equal(t, Profile{}, l.Profile())
	assert.False(t, l.Settings().NotificationsEnabled)
}

func TestReadsReturnCopies(t *testing.T) {
	l, _ := newTestLedger(t)
	p := newTestPortfolio(t, l, 1000)
	openTrade(t, l, p.ID, 10, 100)

	got, _ := l.Portfolio(p.ID)
	got.Trades[0].StockName = "CHANGED"
	got.FinancialGoals[0].Name = "CHANGED"
	again, _ := l.Portfolio(p.ID)
	assert.Equal(t, "COMI", again.Trades[0].StockName)
	assert.Equal(t, FirstGoalName, again.FinancialGoals[0].Name)
}

// TestCapitalNeverNegative runs a pseudo random sequence of operations and
// checks the capital invariants after each of them.
func TestCapitalNeverNegative(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	p := newTestPortfolio(t, l, 1000)
	r := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 500; i++ {
		cur, _ := l.Portfolio(p.ID)
		amount := A(r.IntN(600) + 1)
		switch r.IntN(6) {
		case 0:
			l.OpenTrade(ctx, p.ID, NewTrade{StockName: "x", PurchasePrice: A(r.IntN(20) + 1), TradeValue: amount, StopLoss: A(1), TakeProfit: A(30)})
		case 1:
			if open := cur.OpenTrades(); len(open) > 0 {
				l.CloseTrade(ctx, p.ID, open[0].ID, A(r.IntN(40)+1))
			}
		case 2:
			if len(cur.Trades) > 0 {
				l.DeleteTrade(ctx, p.ID, cur.Trades[r.IntN(len(cur.Trades))].ID)
			}
		case 3:
			l.WithdrawToSavings(ctx, p.ID, amount)
		case 4:
			l.AdjustCapital(ctx, p.ID, amount.Sub(A(300)))
		case 5:
			if open := cur.OpenTrades(); len(open) > 0 {
				l.EditTrade(ctx, p.ID, open[0].ID, TradeEdit{TradeValue: &amount})
			}
		}
		got, err := l.Portfolio(p.ID)
		require.NoError(t, err)
		require.False(t, got.CurrentCapital.IsNegative(), "step %d: current capital %s", i, got.CurrentCapital)
		require.False(t, got.InitialCapital.IsNegative(), "step %d: initial capital %s", i, got.InitialCapital)
		require.False(t, l.SavingsBalance().IsNegative(), "step %d", i)
	}
}

func ptr[T any](v T) *T { return &v }
