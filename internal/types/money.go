// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// Money is a fixed-precision amount in minor currency units (kopecks).
type Money struct {
	Amount   int64
	Currency string
}

const DefaultCurrency = "RUB"

// FromFloat converts major currency units to Money, rounding half away
// from zero to two decimal places.
func FromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

// Float returns the amount in major currency units.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	a := m.Amount
	sign := ""
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, a/100, a%100, m.Currency)
}
