package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount as a rupee string with en-IN digit
// grouping, e.g. "₹1,234.50". Display only; arithmetic stays decimal.
func FormatINR(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return inrPrinter.Sprintf("₹%v", number.Decimal(f, number.Scale(2)))
}
