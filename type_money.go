package wallet

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
)

// Money pairs an Amount with a currency for display.
type Money struct {
	Amount
	cur string
}

// M returns an amount in currency cur.
func M(a Amount, cur string) Money {
	return Money{Amount: a, cur: cur}
}

// Currency returns the money's currency code.
func (m Money) Currency() string { return m.cur }

// currency returns the go-money currency, never nil.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, rounded to the
// currency minor unit.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// ValidateCurrency checks that code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if code == "" {
		return fmt.Errorf("%w: currency is missing", ErrValidation)
	}
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: unknown currency %q", ErrValidation, code)
	}
	return nil
}

// DefaultCurrency is used for portfolios created or imported without one.
const DefaultCurrency = "EGP"

// normalizeCurrency upper-cases and trims a currency code.
func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}
