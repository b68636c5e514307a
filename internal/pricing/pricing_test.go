package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"jelpapharm/server/internal/pricing"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

var defaultRate = d("0.125")

func TestCompute_SingleLine(t *testing.T) {
	// 2 × 20.00 at 12.5% tax: subtotal 40.00, tax 5.00, total 45.00.
	got := pricing.Compute([]pricing.Line{{UnitPrice: d("20.00"), Quantity: 2}}, decimal.Zero, defaultRate)

	assert.True(t, got.Subtotal.Equal(d("40.00")), "subtotal %s", got.Subtotal)
	assert.True(t, got.Tax.Equal(d("5.00")), "tax %s", got.Tax)
	assert.True(t, got.Total.Equal(d("45.00")), "total %s", got.Total)
}

func TestCompute_TotalIdentity(t *testing.T) {
	cases := []struct {
		name     string
		lines    []pricing.Line
		discount string
	}{
		{"two lines no discount", []pricing.Line{
			{UnitPrice: d("9.99"), Quantity: 3},
			{UnitPrice: d("4.50"), Quantity: 1},
		}, "0"},
		{"discounted", []pricing.Line{
			{UnitPrice: d("12.75"), Quantity: 2},
		}, "5.00"},
		{"odd prices", []pricing.Line{
			{UnitPrice: d("0.33"), Quantity: 7},
			{UnitPrice: d("1.01"), Quantity: 11},
		}, "1.11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Compute(tc.lines, d(tc.discount), defaultRate)

			sum := decimal.Zero
			for _, l := range tc.lines {
				sum = sum.Add(l.Total())
			}
			assert.True(t, got.Subtotal.Equal(sum))
			assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Sub(d(tc.discount))))
		})
	}
}

func TestCompute_OverDiscountNotClamped(t *testing.T) {
	got := pricing.Compute([]pricing.Line{{UnitPrice: d("10.00"), Quantity: 1}}, d("100.00"), defaultRate)
	assert.True(t, got.Total.IsNegative(), "total %s should go negative", got.Total)
	assert.True(t, got.Total.Equal(d("-88.75")))
}

func TestCompute_EmptyCart(t *testing.T) {
	got := pricing.Compute(nil, decimal.Zero, defaultRate)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}
