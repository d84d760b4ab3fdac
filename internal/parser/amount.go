package parser

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// amountPattern matches a currency sign followed by a number with exactly two
// fractional digits. The trailing group rejects "¥1.234".
var amountPattern = regexp.MustCompile(`[¥￥]\s?(\d+\.\d{2})(?:[^\d]|$)`)

// ExtractAmount returns the first positive two-decimal currency amount in text.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(m[1])
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}
