package renderer

import (
	"github.com/etnz/wallet"
)

// Overview is the data of the portfolio list report.
type Overview struct {
	Portfolios []OverviewLine
	Totals     []Total
	Savings    wallet.Money
}

// OverviewLine is one portfolio in the list.
type OverviewLine struct {
	ID             string
	Name           string
	CurrentCapital wallet.Money
	ProfitLoss     wallet.Money
	Percent        wallet.Percent
	OpenTrades     int
	WinRate        wallet.Percent
}

// Total is the roll-up of one currency.
type Total struct {
	Currency     string
	Initial      wallet.Money
	Current      wallet.Money
	ProfitLoss   wallet.Money
	Percent      wallet.Percent
	ClosedTrades int
}

// NewOverview builds the list report of portfolios.
func NewOverview(portfolios []wallet.Portfolio, savings wallet.Amount) *Overview {
	o := &Overview{Savings: wallet.M(savings, wallet.DefaultCurrency)}
	for _, p := range portfolios {
		o.Portfolios = append(o.Portfolios, OverviewLine{
			ID:             p.ID,
			Name:           p.Name,
			CurrentCapital: p.Money(p.CurrentCapital),
			ProfitLoss:     p.Money(p.ProfitLoss()),
			Percent:        wallet.PnLPercent(p.ProfitLoss(), p.InitialCapital),
			OpenTrades:     len(p.OpenTrades()),
			WinRate:        wallet.NewPerformance(p).WinRate,
		})
	}
	s := wallet.Summarize(portfolios)
	for _, cur := range s.Currencies() {
		cs := s[cur]
		o.Totals = append(o.Totals, Total{
			Currency:     cur,
			Initial:      wallet.M(cs.TotalInitialCapital, cur),
			Current:      wallet.M(cs.TotalCurrentCapital, cur),
			ProfitLoss:   wallet.M(cs.TotalProfitLoss, cur),
			Percent:      cs.TotalProfitLossPercent,
			ClosedTrades: cs.TotalClosedTrades,
		})
	}
	return o
}

// Comparison is the data of the comparison report.
type Comparison struct {
	Lines []ComparisonLine
}

// ComparisonLine holds the metrics of one portfolio.
type ComparisonLine struct {
	Name          string
	Initial       wallet.Money
	Current       wallet.Money
	ProfitLoss    wallet.Money
	WinRate       wallet.Percent
	ClosedTrades  int
	AvgTradeValue wallet.Money
	ROI           wallet.Percent
	Sharpe        float64
}

// NewComparison builds the comparison report of portfolios.
func NewComparison(portfolios []wallet.Portfolio) *Comparison {
	c := &Comparison{}
	for _, p := range portfolios {
		cmp := wallet.Compare(p)
		c.Lines = append(c.Lines, ComparisonLine{
			Name:          cmp.Name,
			Initial:       p.Money(cmp.InitialCapital),
			Current:       p.Money(cmp.CurrentCapital),
			ProfitLoss:    p.Money(cmp.TotalProfitLoss),
			WinRate:       cmp.WinRate,
			ClosedTrades:  cmp.TotalClosedTrades,
			AvgTradeValue: p.Money(cmp.AvgTradeValue),
			ROI:           cmp.ROI,
			Sharpe:        cmp.SharpeRatio,
		})
	}
	return c
}

// Expenses is the data of the savings report.
type Expenses struct {
	Savings    wallet.Money
	Total      wallet.Money
	Lines      []ExpenseLine
	ByCategory []CategoryTotal
}

// ExpenseLine is one expense.
type ExpenseLine struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      wallet.Money
	Portfolio   string
}

// CategoryTotal is the amount spent in a category.
type CategoryTotal struct {
	Category string
	Amount   wallet.Money
}

// NewExpenses builds the savings report.
func NewExpenses(expenses []wallet.Expense, savings wallet.Amount) *Expenses {
	m := func(a wallet.Amount) wallet.Money { return wallet.M(a, wallet.DefaultCurrency) }
	e := &Expenses{Savings: m(savings), Total: m(wallet.TotalExpenses(expenses))}
	byCategory := make(map[wallet.Category]wallet.Amount)
	for _, x := range expenses {
		e.Lines = append(e.Lines, ExpenseLine{
			ID:          x.ID,
			Date:        formatDate(x.Date),
			Description: x.Description,
			Category:    x.Category.Label(),
			Amount:      m(x.Amount),
			Portfolio:   x.PortfolioName,
		})
		byCategory[x.Category] = byCategory[x.Category].Add(x.Amount)
	}
	for _, c := range wallet.Categories {
		if a, ok := byCategory[c]; ok {
			e.ByCategory = append(e.ByCategory, CategoryTotal{Category: c.Label(), Amount: m(a)})
		}
	}
	return e
}

// Unrealized is the data of the mark-to-market report.
type Unrealized struct {
	Name  string
	Lines []UnrealizedLine
	Total wallet.Money
}

// UnrealizedLine is the estimate of one open trade.
type UnrealizedLine struct {
	Stock      string
	TradeValue wallet.Money
	LastPrice  wallet.Money
	PnL        wallet.Money
	PnLPercent wallet.Percent
	Error      string
}

// NewUnrealized builds the mark-to-market report of p.
func NewUnrealized(p wallet.Portfolio, vals []wallet.Valuation) *Unrealized {
	u := &Unrealized{Name: p.Name}
	total := wallet.A(0)
	for _, v := range vals {
		line := UnrealizedLine{Stock: v.Trade.StockName, TradeValue: p.Money(v.Trade.TradeValue)}
		if v.Err != nil {
			line.Error = v.Err.Error()
		} else {
			line.LastPrice = p.Money(v.LastPrice)
			line.PnL = p.Money(v.PnL)
			line.PnLPercent = v.PnLPercent
			total = total.Add(v.PnL)
		}
		u.Lines = append(u.Lines, line)
	}
	u.Total = p.Money(total)
	return u
}
