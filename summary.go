package wallet

import (
	"maps"
	"slices"
)

// CurrencySummary rolls up the portfolios sharing one currency.
type CurrencySummary struct {
	Currency               string  `json:"currency"`
	TotalInitialCapital    Amount  `json:"totalInitialCapital"`
	TotalCurrentCapital    Amount  `json:"totalCurrentCapital"`
	TotalProfitLoss        Amount  `json:"totalProfitLoss"`
	TotalProfitLossPercent Percent `json:"totalProfitLossPercent"`
	TotalClosedTrades      int     `json:"totalClosedTrades"`
}

// Summary maps a currency code to its roll-up.
type Summary map[string]CurrencySummary

// Summarize groups portfolios by currency. Amounts of different currencies
// are never added together.
func Summarize(portfolios []Portfolio) Summary {
	s := make(Summary)
	for _, p := range portfolios {
		cur := normalizeCurrency(p.Currency)
		cs, ok := s[cur]
		if !ok {
			cs = CurrencySummary{Currency: cur, TotalInitialCapital: A(0), TotalCurrentCapital: A(0)}
		}
		cs.TotalInitialCapital = cs.TotalInitialCapital.Add(p.InitialCapital)
		cs.TotalCurrentCapital = cs.TotalCurrentCapital.Add(p.CurrentCapital)
		cs.TotalClosedTrades += len(p.ClosedTrades())
		s[cur] = cs
	}
	for cur, cs := range s {
		cs.TotalProfitLoss = cs.TotalCurrentCapital.Sub(cs.TotalInitialCapital)
		cs.TotalProfitLossPercent = cs.TotalProfitLoss.Ratio(cs.TotalInitialCapital).Percent()
		s[cur] = cs
	}
	return s
}

// Currencies returns the currencies of s in alphabetical order.
func (s Summary) Currencies() []string {
	return slices.Sorted(maps.Keys(s))
}

// Flatten returns the single roll-up of a one currency summary. With several
// currencies it returns the first one in alphabetical order; ok is false when
// s is empty.
func (s Summary) Flatten() (cs CurrencySummary, ok bool) {
	curs := s.Currencies()
	if len(curs) == 0 {
		return CurrencySummary{Currency: DefaultCurrency, TotalInitialCapital: A(0), TotalCurrentCapital: A(0), TotalProfitLoss: A(0)}, false
	}
	return s[curs[0]], true
}
