package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"10", 1000},
		{"10.00", 1000},
		{"99.99", 9999},
		{"0.5", 50},
		{"12.990", 1299},
		{"999999.99", 99999999},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects non numbers", func(t *testing.T) {
		_, err := ParseMoney("abc")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		_, err := ParseMoney("1.999")
		assert.ErrorIs(t, err, ErrTooManyDecimal)
	})

	t.Run("rejects amounts beyond int64 cents", func(t *testing.T) {
		for _, in := range []string{"184467440737095517.16", "92233720368547758.08", "-92233720368547758.09"} {
			_, err := ParseMoney(in)
			assert.ErrorIs(t, err, ErrOutOfRange, in)
		}
	})

	t.Run("largest representable amount", func(t *testing.T) {
		got, err := ParseMoney("92233720368547758.07")
		require.NoError(t, err)
		assert.Equal(t, Money(9223372036854775807), got)
	})
}

func TestMoney_Sum(t *testing.T) {
	var total Money
	for range 3 {
		total += MustParseMoney("0.10")
	}
	assert.Equal(t, MustParseMoney("0.30"), total)

	total = MustParseMoney("99.99") + MustParseMoney("12.99").Mul(2)
	assert.Equal(t, "125.97", total.String())
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0).Format())
	assert.Equal(t, "$125.97", Money(12597).Format())
	assert.Equal(t, "$1,234.56", Money(123456).Format())
	assert.Equal(t, "$999,999.99", Money(99999999).Format())
	assert.Equal(t, "-$5.01", Money(-501).Format())
}

func TestMoney_JSONIsCents(t *testing.T) {
	data, err := json.Marshal(Item{ID: "ITEM-001", Name: "Wireless Headphones", Price: 9999})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":9999`)
}
