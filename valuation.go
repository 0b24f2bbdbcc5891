package wallet

import "github.com/shopspring/decimal"

// This file contains the pure valuation functions. They never touch a ledger
// and are deterministic for given inputs.

// TradeQuantity returns the number of shares implied by a trade: the committed
// value divided by the purchase price. It is never stored to avoid drift.
func TradeQuantity(t Trade) Quantity {
	if !t.PurchasePrice.IsPositive() {
		return Q(0)
	}
	return t.TradeValue.DivPrice(t.PurchasePrice)
}

// CapitalToReturn is the amount credited back to the portfolio when t is
// closed at closePrice: TradeValue * closePrice / PurchasePrice.
//
// The product is computed before the division so that closing at the purchase
// price returns exactly the trade value.
func CapitalToReturn(t Trade, closePrice Amount) Amount {
	if !t.PurchasePrice.IsPositive() {
		return A(0)
	}
	return Amount{value: t.TradeValue.value.Mul(closePrice.value).Div(t.PurchasePrice.value)}
}

// RealizedPnL is the profit or loss of t when closed at closePrice.
func RealizedPnL(t Trade, closePrice Amount) Amount {
	return CapitalToReturn(t, closePrice).Sub(t.TradeValue)
}

// UnrealizedPnL is the mark-to-market estimate of an open trade at lastPrice.
// It is display only and never applied to capital.
func UnrealizedPnL(t Trade, lastPrice Amount) Amount {
	return RealizedPnL(t, lastPrice)
}

// PnLPercent returns pnl as a percentage of tradeValue, 0 when tradeValue is zero.
func PnLPercent(pnl, tradeValue Amount) Percent {
	return pnl.Ratio(tradeValue).Percent()
}

// TradePnL returns the realized P/L of a closed trade, zero for an open one.
func TradePnL(t Trade) Amount {
	if t.Status != StatusClosed {
		return A(0)
	}
	return RealizedPnL(t, t.ClosePrice)
}

// PositionSize returns the trade value to commit so that hitting stop loses
// riskPercent of capital. It returns zero when entry is not above stop.
func PositionSize(capital Amount, riskPercent float64, entry, stop Amount) Amount {
	perShare := entry.Sub(stop)
	if !perShare.IsPositive() || !entry.IsPositive() {
		return A(0)
	}
	risk := capital.value.Mul(decimal.NewFromFloat(riskPercent)).Div(decimal.NewFromInt(100))
	shares := risk.Div(perShare.value)
	return Amount{value: shares.Mul(entry.value).Round(2)}
}

// RiskReward returns the reward to risk ratio of t from its take-profit and
// stop-loss levels, zero when the stop is not below the purchase price.
func RiskReward(t Trade) Quantity {
	risk := t.PurchasePrice.Sub(t.StopLoss)
	if !risk.IsPositive() {
		return Q(0)
	}
	return t.TakeProfit.Sub(t.PurchasePrice).Ratio(risk)
}

// closeDelta returns the capital credited when t closes at closePrice and the
// resulting outcome.
func closeDelta(t Trade, closePrice Amount) (Amount, Outcome) {
	ret := CapitalToReturn(t, closePrice)
	outcome := OutcomeProfit
	if ret.Sub(t.TradeValue).IsNegative() {
		outcome = OutcomeLoss
	}
	return ret, outcome
}

// deleteDelta returns the capital adjustment that reverses t: the committed
// principal for an open trade, the net P/L for a closed one (its principal was
// already returned at close).
func deleteDelta(t Trade) Amount {
	if t.Status == StatusOpen {
		return t.TradeValue
	}
	return TradePnL(t).Neg()
}
