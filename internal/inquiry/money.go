package inquiry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents.
type Money int64

func Dollars(n int64) Money {
	return Money(n * 100)
}

func (m Money) Mul(n int) Money {
	return m * Money(n)
}

func (m Money) Cents() int64 {
	return int64(m)
}

// String renders the amount the way the booking summary shows it, e.g. $1,234.00.
func (m Money) String() string {
	sign := ""
	cents := int64(m)
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}

// MarshalJSON encodes major units so 259 dollars is the number 259.
func (m Money) MarshalJSON() ([]byte, error) {
	cents := int64(m)
	if cents%100 == 0 {
		return []byte(strconv.FormatInt(cents/100, 10)), nil
	}
	return []byte(strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(math.Round(v * 100))
	return nil
}
