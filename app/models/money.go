package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in euro cents. It is stored as an integer and encoded in
// JSON as a decimal number with two places (275 → 2.75).
type Money int64

// Cents builds a Money from a whole number of cents.
func Cents(c int64) Money { return Money(c) }

// Float returns the amount in euros.
func (m Money) Float() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: %q is not a number", s)
	}
	if f < 0 {
		*m = Money(f*100 - 0.5)
	} else {
		*m = Money(f*100 + 0.5)
	}
	return nil
}
