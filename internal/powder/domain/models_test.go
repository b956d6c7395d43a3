package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusBands(t *testing.T) {
	cases := []struct {
		name   string
		stock  float64
		min    float64
		expect string
	}{
		{"well above minimum", 100, 40, StatusInStock},
		{"just above low band", 48.1, 40, StatusInStock},
		{"top of low band", 48, 40, StatusLowStock},
		{"inside low band", 45, 40, StatusLowStock},
		{"at minimum", 40, 40, StatusCritical},
		{"below minimum", 10, 40, StatusCritical},
		{"empty", 0, 40, StatusCritical},
		{"zero minimum with stock", 5, 0, StatusInStock},
		{"zero minimum empty", 0, 0, StatusCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Powder{CurrentStock: tc.stock, MinLevel: tc.min}
			require.Equal(t, tc.expect, p.Status())
		})
	}
}

func TestStockValue(t *testing.T) {
	p := Powder{CurrentStock: 12.5, PricePerKG: 8}
	require.Equal(t, 100.0, p.StockValue())
}
