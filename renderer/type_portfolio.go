package renderer

import (
	"time"

	"github.com/etnz/wallet"
)

// Portfolio is the data of a portfolio report.
// Amounts are kept as wallet.Money so that templates can use their
// String and SignedString renderers.
type Portfolio struct {
	ID                string
	Name              string
	Currency          string
	InitialCapital    wallet.Money
	CurrentCapital    wallet.Money
	ProfitLoss        wallet.Money
	ProfitLossPercent wallet.Percent
	// NextGoal is the first goal not yet achieved, nil when all are.
	NextGoal     *Goal
	Goals        []Goal
	OpenTrades   []Trade
	ClosedTrades []Trade
	Performance  wallet.Performance
	WinRate      wallet.Percent
	AvgProfit    wallet.Money
	AvgLoss      wallet.Money
	History      []HistoryPoint
}

// Goal is a financial goal with its progress.
type Goal struct {
	Name     string
	Amount   wallet.Money
	Achieved bool
	Progress wallet.Percent
}

// Trade is one trade line.
type Trade struct {
	ID            string
	Stock         string
	PurchasePrice wallet.Money
	TradeValue    wallet.Money
	Quantity      wallet.Quantity
	StopLoss      wallet.Money
	TakeProfit    wallet.Money
	RiskReward    wallet.Quantity
	OpenDate      string
	ClosePrice    wallet.Money
	CloseDate     string
	PnL           wallet.Money
	PnLPercent    wallet.Percent
	Outcome       string
	Notes         string
}

// HistoryPoint is one line of the capital history.
type HistoryPoint struct {
	Date    string
	Label   string
	Capital wallet.Money
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

// NewPortfolio builds the report data of p.
func NewPortfolio(p wallet.Portfolio) *Portfolio {
	m := p.Money
	r := &Portfolio{
		ID:                p.ID,
		Name:              p.Name,
		Currency:          p.Currency,
		InitialCapital:    m(p.InitialCapital),
		CurrentCapital:    m(p.CurrentCapital),
		ProfitLoss:        m(p.ProfitLoss()),
		ProfitLossPercent: wallet.PnLPercent(p.ProfitLoss(), p.InitialCapital),
	}
	for _, g := range p.FinancialGoals {
		goal := Goal{
			Name:     g.Name,
			Amount:   m(g.Amount),
			Achieved: g.Achieved,
			Progress: min(wallet.PnLPercent(p.CurrentCapital, g.Amount), 100),
		}
		r.Goals = append(r.Goals, goal)
	}
	for i := range r.Goals {
		if !r.Goals[i].Achieved {
			r.NextGoal = &r.Goals[i]
			break
		}
	}
	for _, t := range p.Trades {
		tr := newTrade(p, t)
		if t.Status == wallet.StatusOpen {
			r.OpenTrades = append(r.OpenTrades, tr)
		} else {
			r.ClosedTrades = append(r.ClosedTrades, tr)
		}
	}
	r.Performance = wallet.NewPerformance(p)
	r.WinRate = r.Performance.WinRate
	r.AvgProfit = m(r.Performance.AvgProfit)
	r.AvgLoss = m(r.Performance.AvgLoss)
	for _, h := range wallet.CapitalHistory(p) {
		r.History = append(r.History, HistoryPoint{Date: formatDate(h.Date), Label: h.Label, Capital: m(h.Capital)})
	}
	return r
}

func newTrade(p wallet.Portfolio, t wallet.Trade) Trade {
	m := p.Money
	pnl := wallet.TradePnL(t)
	return Trade{
		ID:            t.ID,
		Stock:         t.StockName,
		PurchasePrice: m(t.PurchasePrice),
		TradeValue:    m(t.TradeValue),
		Quantity:      t.Quantity(),
		StopLoss:      m(t.StopLoss),
		TakeProfit:    m(t.TakeProfit),
		RiskReward:    wallet.RiskReward(t),
		OpenDate:      formatDate(t.OpenDate),
		ClosePrice:    m(t.ClosePrice),
		CloseDate:     formatDate(t.CloseDate),
		PnL:           m(pnl),
		PnLPercent:    wallet.PnLPercent(pnl, t.TradeValue),
		Outcome:       string(t.Outcome),
		Notes:         t.Notes,
	}
}
