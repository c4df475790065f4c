package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount as US dollars without cents, e.g. 650000 -> "$650,000".
// Halves round away from zero.
func FormatUSD(amount float64) string {
	return FormatUSDDecimal(decimal.NewFromFloat(amount))
}

// FormatUSDDecimal is FormatUSD for decimal amounts
func FormatUSDDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + "$" + groupThousands(rounded.StringFixed(0))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
