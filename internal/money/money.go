// Package money provides exact decimal money arithmetic on integer cents.
//
// All amounts are held as an int64 count of minor currency units so that
// addition, subtraction and splitting never go through binary floating
// point. Rendering always produces exactly two fractional digits.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a decimal string cannot be parsed
// into a monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount of a single currency in minor units (cents).
type Money int64

// FromCents builds a Money from a raw cent count.
func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse converts a decimal string to Money with half-up rounding on the
// third fractional digit.
//
// It accepts plain digits with an optional dot-separated fraction:
// "12" -> 1200 cents, "12.3" -> 1230, "12.345" -> 1235 (rounds up).
// Signs, decimal commas beyond normalization, and malformed input are
// rejected with ErrInvalidAmount.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Guard the *100 below.
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits are cents; half-up on the third.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	return Money(iv*100 + frac), nil
}

// Cents returns the raw minor-unit count.
func (m Money) Cents() int64 { return int64(m) }

// Add returns m + o.
func (m Money) Add(o Money) Money { return m + o }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return m - o }

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m == 0 }

// String renders the amount with exactly two fractional digits, e.g.
// "33.34" or "-0.05".
func (m Money) String() string {
	c := int64(m)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON emits the amount as a plain JSON number with two decimals.
// The decimal string is already a valid JSON number, so no float64
// round-trip is involved.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON parses a JSON number (or quoted decimal) into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
