package expense

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₹"

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders d with two decimals and thousands separators, e.g. "₹1,250.50".
func FormatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole := d.Truncate(0)
	frac := d.Sub(whole).StringFixed(2)[1:] // ".50"

	if d.Round(2).Sub(whole).GreaterThanOrEqual(decimal.NewFromInt(1)) {
		whole = whole.Add(decimal.NewFromInt(1))
		frac = ".00"
	}

	return sign + CurrencySymbol + amountPrinter.Sprintf("%d", whole.IntPart()) + frac
}
