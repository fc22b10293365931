package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"1234.5", "₹1,234.50"},
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"123456.789", "₹1,23,456.79"},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.amount)
		if got := FormatINR(d); got != c.want {
			t.Errorf("FormatINR(%s) = %q, want %q", c.amount, got, c.want)
		}
	}
}
