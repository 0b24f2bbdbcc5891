package wallet

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"
)

// Comparison holds the side by side metrics of one portfolio.
type Comparison struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Currency          string  `json:"currency"`
	InitialCapital    Amount  `json:"initialCapital"`
	CurrentCapital    Amount  `json:"currentCapital"`
	TotalProfitLoss   Amount  `json:"totalProfitLoss"`
	WinRate           Percent `json:"winRate"`
	TotalClosedTrades int     `json:"totalClosedTrades"`
	AvgTradeValue     Amount  `json:"avgTradeValue"`
	ROI               Percent `json:"roi"`
	SharpeRatio       float64 `json:"sharpeRatio"`
}

// Compare computes the comparison metrics of p.
//
// The Sharpe ratio is simplified: the portfolio return divided by the
// population standard deviation of closed trade returns, with a zero risk
// free rate. It needs at least two closed trades and is zero otherwise.
func Compare(p Portfolio) Comparison {
	closed := p.ClosedTrades()
	c := Comparison{
		ID:                p.ID,
		Name:              p.Name,
		Currency:          p.Currency,
		InitialCapital:    p.InitialCapital,
		CurrentCapital:    p.CurrentCapital,
		TotalProfitLoss:   p.ProfitLoss(),
		TotalClosedTrades: len(closed),
	}
	wins := 0
	for _, t := range closed {
		if t.Outcome == OutcomeProfit {
			wins++
		}
	}
	if len(closed) > 0 {
		c.WinRate = Percent(100 * float64(wins) / float64(len(closed)))
	}
	total := A(0)
	for _, t := range p.Trades {
		total = total.Add(t.TradeValue)
	}
	c.AvgTradeValue = total.DivN(len(p.Trades))
	c.ROI = c.TotalProfitLoss.Ratio(p.InitialCapital).Percent()

	if len(closed) > 1 {
		returns := make([]float64, len(closed))
		mean := 0.0
		for i, t := range closed {
			returns[i] = TradePnL(t).Ratio(t.TradeValue).Decimal().InexactFloat64()
			mean += returns[i]
		}
		mean /= float64(len(returns))
		variance := 0.0
		for _, r := range returns {
			variance += (r - mean) * (r - mean)
		}
		stdDev := math.Sqrt(variance / float64(len(returns)))
		if stdDev > 0 {
			c.SharpeRatio = float64(c.ROI) / 100 / stdDev
		}
	}
	return c
}

// Performance holds the statistics of the closed trades of a portfolio.
type Performance struct {
	NetProfitLoss     Amount  `json:"netProfitLoss"`
	WinRate           Percent `json:"winRate"`
	TotalClosedTrades int     `json:"totalClosedTrades"`
	AvgProfit         Amount  `json:"avgProfit"`
	AvgLoss           Amount  `json:"avgLoss"`
}

// NewPerformance computes the closed trade statistics of p. A trade counts as
// winning when its P/L is strictly positive.
func NewPerformance(p Portfolio) Performance {
	closed := p.ClosedTrades()
	perf := Performance{TotalClosedTrades: len(closed), NetProfitLoss: A(0), AvgProfit: A(0), AvgLoss: A(0)}
	if len(closed) == 0 {
		return perf
	}
	profit, loss := A(0), A(0)
	wins := 0
	for _, t := range closed {
		pnl := TradePnL(t)
		if pnl.IsPositive() {
			profit = profit.Add(pnl)
			wins++
		} else {
			loss = loss.Add(pnl)
		}
	}
	perf.NetProfitLoss = profit.Add(loss)
	perf.WinRate = Percent(100 * float64(wins) / float64(len(closed)))
	perf.AvgProfit = profit.DivN(wins)
	perf.AvgLoss = loss.DivN(len(closed) - wins)
	return perf
}

// HistoryPoint is one step of the capital history of a portfolio.
type HistoryPoint struct {
	Date    time.Time `json:"date"` // zero for the starting point
	Label   string    `json:"label"`
	Capital Amount    `json:"capital"`
}

// CapitalHistory replays the closed trades and withdrawals of p in date
// order, starting from the initial capital. Capital committed to open trades
// is ignored: the curve shows the capital as if it were all liquid.
func CapitalHistory(p Portfolio) []HistoryPoint {
	type event struct {
		date  time.Time
		label string
		delta Amount
	}
	closed := p.ClosedTrades()
	slices.SortStableFunc(closed, func(a, b Trade) int { return a.CloseDate.Compare(b.CloseDate) })

	events := make([]event, 0, len(closed)+len(p.Withdrawals))
	for i, t := range closed {
		events = append(events, event{t.CloseDate, tradeLabel(i+1, t.StockName), TradePnL(t)})
	}
	for _, w := range p.Withdrawals {
		events = append(events, event{w.Date, "withdrawal", w.Amount.Neg()})
	}
	slices.SortStableFunc(events, func(a, b event) int { return a.date.Compare(b.date) })

	capital := p.InitialCapital
	history := []HistoryPoint{{Label: "initial capital", Capital: capital}}
	for _, e := range events {
		capital = capital.Add(e.delta)
		history = append(history, HistoryPoint{Date: e.date, Label: e.label, Capital: capital})
	}
	return history
}

func tradeLabel(n int, stock string) string {
	return fmt.Sprintf("trade #%d: %s", n, stock)
}

// StockProfit is the closed trade record of one stock.
type StockProfit struct {
	StockName     string  `json:"stockName"`
	Trades        int     `json:"trades"`
	ProfitLoss    Amount  `json:"profitLoss"`
	WinRate       Percent `json:"winRate"`
	AvgTradeValue Amount  `json:"avgTradeValue"`
	AvgProfit     Amount  `json:"avgProfit"`
	AvgLoss       Amount  `json:"avgLoss"`
	// History is the cumulative P/L after each trade, in close date order,
	// starting from zero.
	History []HistoryPoint `json:"history"`
}

// ProfitByStock groups the closed trades of p by stock, best first.
func ProfitByStock(p Portfolio) []StockProfit {
	closed := p.ClosedTrades()
	slices.SortStableFunc(closed, func(a, b Trade) int { return a.CloseDate.Compare(b.CloseDate) })
	byStock := make(map[string][]Trade)
	for _, t := range closed {
		byStock[t.StockName] = append(byStock[t.StockName], t)
	}

	res := make([]StockProfit, 0, len(byStock))
	for stock, trades := range byStock {
		perf := NewPerformance(Portfolio{Trades: trades})
		sp := StockProfit{
			StockName:  stock,
			Trades:     len(trades),
			ProfitLoss: perf.NetProfitLoss,
			WinRate:    perf.WinRate,
			AvgProfit:  perf.AvgProfit,
			AvgLoss:    perf.AvgLoss,
			History:    []HistoryPoint{{Label: "start", Capital: A(0)}},
		}
		total, cumulative := A(0), A(0)
		for i, t := range trades {
			total = total.Add(t.TradeValue)
			cumulative = cumulative.Add(TradePnL(t))
			sp.History = append(sp.History, HistoryPoint{Date: t.CloseDate, Label: tradeLabel(i+1, stock), Capital: cumulative})
		}
		sp.AvgTradeValue = total.DivN(len(trades))
		res = append(res, sp)
	}
	slices.SortFunc(res, func(a, b StockProfit) int {
		if c := b.ProfitLoss.Decimal().Cmp(a.ProfitLoss.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.StockName, b.StockName)
	})
	return res
}
