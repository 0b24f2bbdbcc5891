package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// number is the set of Go values an Amount or a Quantity can be built from.
type number interface {
	int | int64 | float64 | decimal.Decimal
}

func toDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	default:
		return v.(decimal.Decimal)
	}
}

// Amount is an exact, currency-less monetary amount.
//
// Portfolio fields carry their currency on the Portfolio itself, the savings
// balance is account-wide, so amounts are kept bare and only paired with a
// currency when displayed (see [Money]).
type Amount struct {
	value decimal.Decimal
}

// A returns an Amount for value.
func A[T number](value T) Amount {
	return Amount{value: toDecimal(value)}
}

// ParseAmount parses a decimal string such as "1250.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	return Amount{value: d}, nil
}

func (a Amount) Add(b Amount) Amount              { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount              { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Neg() Amount                      { return Amount{value: a.value.Neg()} }
func (a Amount) Mul(q Quantity) Amount            { return Amount{value: a.value.Mul(q.value)} }
func (a Amount) Equal(b Amount) bool              { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool           { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool        { return a.value.GreaterThan(b.value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.value.GreaterThanOrEqual(b.value) }
func (a Amount) IsZero() bool                     { return a.value.IsZero() }
func (a Amount) IsPositive() bool                 { return a.value.IsPositive() }
func (a Amount) IsNegative() bool                 { return a.value.IsNegative() }
func (a Amount) Decimal() decimal.Decimal         { return a.value }
func (a Amount) String() string                   { return a.value.String() }

// DivPrice returns how many units of price fit in a.
func (a Amount) DivPrice(price Amount) Quantity { return Quantity{value: a.value.Div(price.value)} }

// Ratio returns a/b as a plain quantity, or zero when b is zero.
func (a Amount) Ratio(b Amount) Quantity {
	if b.value.IsZero() {
		return Quantity{value: decimal.Zero}
	}
	return Quantity{value: a.value.Div(b.value)}
}

// DivN divides a by n, rounded to 8 decimal places. It returns zero when n is zero.
func (a Amount) DivN(n int) Amount {
	if n == 0 {
		return Amount{}
	}
	return Amount{value: a.value.DivRound(decimal.NewFromInt(int64(n)), 8)}
}

// Deprecated: AsFloat should only be used for statistics, the purpose is to keep the ledger exact.
func (a Amount) AsFloat() float64 { return a.value.InexactFloat64() }

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.value.UnmarshalJSON(data)
}

// Quantity is a derived, dimensionless number such as a share count or a price ratio.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity for value.
func Q[T number](value T) Quantity {
	return Quantity{value: toDecimal(value)}
}

func (q Quantity) Equal(o Quantity) bool       { return q.value.Equal(o.value) }
func (q Quantity) LessThan(o Quantity) bool    { return q.value.LessThan(o.value) }
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.GreaterThan(o.value) }
func (q Quantity) Mul(o Quantity) Quantity     { return Quantity{value: q.value.Mul(o.value)} }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) IsPositive() bool            { return q.value.IsPositive() }
func (q Quantity) String() string              { return q.value.String() }
func (q Quantity) Decimal() decimal.Decimal    { return q.value }

// MulPrice returns the value of q units at price.
func (q Quantity) MulPrice(price Amount) Amount { return Amount{value: q.value.Mul(price.value)} }

// Percent returns q expressed as a percentage.
func (q Quantity) Percent() Percent { return Percent(q.value.Mul(decimal.NewFromInt(100)).InexactFloat64()) }

// MarshalJSON writes the quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}
