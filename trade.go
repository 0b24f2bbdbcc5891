package wallet

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a trade.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Outcome tells whether a closed trade made a profit or a loss.
type Outcome string

const (
	OutcomeProfit Outcome = "profit"
	OutcomeLoss   Outcome = "loss"
)

// Trade is a single buy position sized by the capital committed to it
// (TradeValue) rather than by a share count.
//
// A trade is created open, may be edited while open, and closes exactly once.
type Trade struct {
	ID            string    `json:"id"`
	PortfolioID   string    `json:"portfolioId"`
	StockName     string    `json:"stockName"`
	PurchasePrice Amount    `json:"purchasePrice"`
	TradeValue    Amount    `json:"tradeValue"`
	StopLoss      Amount    `json:"stopLoss"`
	TakeProfit    Amount    `json:"takeProfit"`
	Notes         string    `json:"notes,omitempty"`
	Status        Status    `json:"status"`
	OpenDate      time.Time `json:"openDate"`
	ClosePrice    Amount    `json:"closePrice"`
	CloseDate     time.Time `json:"closeDate"`
	Outcome       Outcome   `json:"outcome,omitempty"`
}

// MarshalJSON writes close fields only for closed trades.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID).
		Append("portfolioId", t.PortfolioID).
		Append("stockName", t.StockName).
		Append("purchasePrice", t.PurchasePrice).
		Append("tradeValue", t.TradeValue).
		Append("stopLoss", t.StopLoss).
		Append("takeProfit", t.TakeProfit).
		Optional("notes", t.Notes).
		Append("status", t.Status).
		Append("openDate", t.OpenDate).
		If(t.Status == StatusClosed, func(w *jsonObjectWriter) {
			w.Append("closePrice", t.ClosePrice).
				Append("closeDate", t.CloseDate).
				Append("outcome", t.Outcome)
		})
	return w.MarshalJSON()
}

// Quantity returns the implied number of shares.
func (t Trade) Quantity() Quantity { return TradeQuantity(t) }

// NewTrade holds the caller supplied fields of a trade to open.
type NewTrade struct {
	StockName     string
	PurchasePrice Amount
	TradeValue    Amount
	StopLoss      Amount
	TakeProfit    Amount
	Notes         string
}

// TradeEdit is a partial update of an open trade, nil fields are left untouched.
type TradeEdit struct {
	StockName     *string
	PurchasePrice *Amount
	TradeValue    *Amount
	StopLoss      *Amount
	TakeProfit    *Amount
	Notes         *string
}

// positive returns a validation error unless v is strictly positive.
func positive(field string, v Amount) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrValidation, field, v)
	}
	return nil
}

func normalizeStockName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: stock name is missing", ErrValidation)
	}
	return name, nil
}

// validate checks the trade fields that are always required.
func (t Trade) validate() error {
	if t.StockName == "" {
		return fmt.Errorf("%w: stock name is missing", ErrValidation)
	}
	for _, f := range []struct {
		name string
		v    Amount
	}{
		{"purchase price", t.PurchasePrice},
		{"trade value", t.TradeValue},
		{"stop loss", t.StopLoss},
		{"take profit", t.TakeProfit},
	} {
		if err := positive(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

// validateState checks that the lifecycle fields of t are consistent with
// its status.
func (t Trade) validateState() error {
	switch t.Status {
	case StatusOpen:
		return nil
	case StatusClosed:
		if err := positive("close price", t.ClosePrice); err != nil {
			return err
		}
		if t.Outcome != OutcomeProfit && t.Outcome != OutcomeLoss {
			return fmt.Errorf("%w: closed trade outcome is %q", ErrValidation, t.Outcome)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown trade status %q", ErrValidation, t.Status)
	}
}

// tradeIndex returns the index of trade id in p, or a not found error.
func (p *Portfolio) tradeIndex(id string) (int, error) {
	i := slices.IndexFunc(p.Trades, func(t Trade) bool { return t.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: trade %q in portfolio %q", ErrNotFound, id, p.ID)
	}
	return i, nil
}

// openTrade debits the trade value and records a new open trade. New trades
// are kept first so that the collection reads newest first.
func (p *Portfolio) openTrade(in NewTrade, id string, now time.Time) (Trade, error) {
	name, err := normalizeStockName(in.StockName)
	if err != nil {
		return Trade{}, err
	}
	t := Trade{
		ID:            id,
		PortfolioID:   p.ID,
		StockName:     name,
		PurchasePrice: in.PurchasePrice,
		TradeValue:    in.TradeValue,
		StopLoss:      in.StopLoss,
		TakeProfit:    in.TakeProfit,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        StatusOpen,
		OpenDate:      now,
	}
	if err := t.validate(); err != nil {
		return Trade{}, err
	}
	if p.CurrentCapital.LessThan(t.TradeValue) {
		return Trade{}, fmt.Errorf("%w: cannot open %s for %s, current capital is %s", ErrInsufficientCapital, t.StockName, t.TradeValue, p.CurrentCapital)
	}
	p.CurrentCapital = p.CurrentCapital.Sub(t.TradeValue)
	p.Trades = slices.Insert(p.Trades, 0, t)
	return t, nil
}

// editTrade applies e to an open trade. A change of trade value moves the
// difference between the trade and the portfolio capital.
func (p *Portfolio) editTrade(id string, e TradeEdit) (Trade, error) {
	i, err := p.tradeIndex(id)
	if err != nil {
		return Trade{}, err
	}
	old := p.Trades[i]
	if old.Status != StatusOpen {
		return Trade{}, fmt.Errorf("%w: trade %s is %s and cannot be edited", ErrInvalidState, old.ID, old.Status)
	}
	t := old
	if e.StockName != nil {
		if t.StockName, err = normalizeStockName(*e.StockName); err != nil {
			return Trade{}, err
		}
	}
	if e.PurchasePrice != nil {
		t.PurchasePrice = *e.PurchasePrice
	}
	if e.TradeValue != nil {
		t.TradeValue = *e.TradeValue
	}
	if e.StopLoss != nil {
		t.StopLoss = *e.StopLoss
	}
	if e.TakeProfit != nil {
		t.TakeProfit = *e.TakeProfit
	}
	if e.Notes != nil {
		t.Notes = strings.TrimSpace(*e.Notes)
	}
	if err := t.validate(); err != nil {
		return Trade{}, err
	}

	adjustment := old.TradeValue.Sub(t.TradeValue)
	capital := p.CurrentCapital.Add(adjustment)
	if capital.IsNegative() {
		return Trade{}, fmt.Errorf("%w: raising %s to %s needs %s, current capital is %s", ErrInsufficientCapital, t.StockName, t.TradeValue, adjustment.Neg(), p.CurrentCapital)
	}
	p.CurrentCapital = capital
	p.Trades[i] = t
	return t, nil
}

// closeTrade closes an open trade at closePrice and credits the returned capital.
func (p *Portfolio) closeTrade(id string, closePrice Amount, now time.Time) (Trade, error) {
	if err := positive("close price", closePrice); err != nil {
		return Trade{}, err
	}
	i, err := p.tradeIndex(id)
	if err != nil {
		return Trade{}, err
	}
	t := p.Trades[i]
	if t.Status != StatusOpen {
		return Trade{}, fmt.Errorf("%w: trade %s is already %s", ErrInvalidState, t.ID, t.Status)
	}
	ret, outcome := closeDelta(t, closePrice)
	t.Status = StatusClosed
	t.ClosePrice = closePrice
	t.CloseDate = now
	t.Outcome = outcome
	p.CurrentCapital = p.CurrentCapital.Add(ret)
	p.Trades[i] = t
	return t, nil
}

// deleteTrade removes a trade and reverses its capital effect.
func (p *Portfolio) deleteTrade(id string) (Trade, error) {
	i, err := p.tradeIndex(id)
	if err != nil {
		return Trade{}, err
	}
	t := p.Trades[i]
	capital := p.CurrentCapital.Add(deleteDelta(t))
	if capital.IsNegative() {
		return Trade{}, fmt.Errorf("%w: reversing %s would leave %s", ErrInsufficientCapital, t.StockName, capital)
	}
	p.CurrentCapital = capital
	p.Trades = slices.Delete(p.Trades, i, i+1)
	return t, nil
}
