package wallet

import (
	"context"
	"fmt"
)

// Quote is the last known market data of a symbol.
type Quote struct {
	Symbol        string
	CurrentPrice  Amount
	Change        Amount
	PercentChange float64
	High          Amount
	Low           Amount
	Open          Amount
	PreviousClose Amount
}

// Quoter fetches quotes. It is best effort and read only.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// Valuation is the mark-to-market estimate of one open trade.
type Valuation struct {
	Trade      Trade
	LastPrice  Amount
	PnL        Amount
	PnLPercent Percent
	Err        error // set when no quote could be fetched
}

// Unrealized estimates the P/L of every open trade of portfolio id using the
// configured Quoter. It never changes the ledger; quote failures are reported
// per trade.
func (l *Ledger) Unrealized(ctx context.Context, id string) ([]Valuation, error) {
	p, err := l.Portfolio(id)
	if err != nil {
		return nil, err
	}
	if l.quoter == nil {
		return nil, fmt.Errorf("%w: no quote provider configured", ErrValidation)
	}
	var res []Valuation
	for _, t := range p.OpenTrades() {
		v := Valuation{Trade: t}
		q, err := l.quoter.Quote(ctx, t.StockName)
		if err != nil {
			l.log.Warn().Err(err).Str("symbol", t.StockName).Msg("quote unavailable")
			v.Err = err
			res = append(res, v)
			continue
		}
		v.LastPrice = q.CurrentPrice
		v.PnL = UnrealizedPnL(t, q.CurrentPrice)
		v.PnLPercent = PnLPercent(v.PnL, t.TradeValue)
		res = append(res, v)
	}
	return res, nil
}
