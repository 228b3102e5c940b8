package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a currency amount in minor units.  All price arithmetic is
// done on Cents so totals never drift the way float64 amounts do.
type Cents int64

// ErrInvalidAmount is returned by ParseCents for malformed decimals.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxAmount is the largest value a DECIMAL(10,2) column holds.
const MaxAmount Cents = 99_999_999_99

// Mul multiplies the amount by n.
func (c Cents) Mul(n int64) Cents { return c * Cents(n) }

// String renders the amount as a decimal with two fraction digits,
// e.g. 30000 -> "300.00".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseCents parses a DECIMAL(…,2) value such as "100", "100.5" or
// "100.50" into cents.  More than two fraction digits is rejected rather
// than rounded.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		if !hasFrac {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	v := w*100 + f
	if neg {
		v = -v
	}
	return Cents(v), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
