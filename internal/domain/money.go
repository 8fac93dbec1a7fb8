package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. Arithmetic on Money is exact.
type Money int64

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTooManyDecimal = errors.New("amount has more than two decimal places")
	ErrOutOfRange     = errors.New("amount out of range")
)

// ParseMoney parses a decimal string such as "12.99" into cents.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Exponent() < -2 && !d.Equal(d.Truncate(2)) {
		return 0, ErrTooManyDecimal
	}
	cents := d.Shift(2)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return Money(cents.IntPart()), nil
}

// MustParseMoney is ParseMoney for constants and tests.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Mul returns m × quantity. Callers keep quantity small enough for the
// product to fit in int64; composer.MaxQuantity does that for order lines.
func (m Money) Mul(quantity int) Money {
	return m * Money(quantity)
}

// String renders the amount with two decimals, e.g. "125.97".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount as US dollars with thousands separators, e.g. "$1,234.56".
func (m Money) Format() string {
	sign := ""
	v := m
	if v < 0 {
		sign = "-"
		v = -v
	}
	units := int64(v) / 100
	cents := int64(v) % 100

	digits := fmt.Sprintf("%d", units)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped, cents)
}
