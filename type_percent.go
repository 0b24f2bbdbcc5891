package wallet

import (
	"fmt"
	"math"
	"strconv"
)

// Percent is a percentage value, 12.5 means 12.5%.
//
// Percentages are derived for display and ranking only, they never feed back
// into capital arithmetic, hence a float.
type Percent float64

// percentPrecision is the tolerance of Equal.
const percentPrecision = 0.0001

// Equal reports whether p and q are equal within percentPrecision.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < percentPrecision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString is String with an explicit sign, "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// MarshalJSON writes p as a number rounded to four decimals. NaN and
// infinities, which JSON cannot carry, are written as 0.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 4, 64), 64)
	if err != nil {
		return nil, err
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}
