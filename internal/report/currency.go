// Package report renders aggregation results as plain-text reports. Output
// is deterministic: identical transactions, range, and locale configuration
// produce byte-identical text.
package report

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// currency describes how amounts of one ISO 4217 currency are displayed.
type currency struct {
	Code   string
	Symbol string
	// Decimals is the number of fractional digits shown.
	Decimals int32
}

// Supported display currencies. An unrecognized code falls back to USD so
// report generation never fails on configuration.
var currencies = map[string]currency{
	"USD": {Code: "USD", Symbol: "$", Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", Decimals: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Decimals: 0},
	"CAD": {Code: "CAD", Symbol: "CA$", Decimals: 2},
	"AUD": {Code: "AUD", Symbol: "A$", Decimals: 2},
	"CHF": {Code: "CHF", Symbol: "CHF ", Decimals: 2},
	"PLN": {Code: "PLN", Symbol: "zł", Decimals: 2},
	"SEK": {Code: "SEK", Symbol: "kr", Decimals: 2},
	"INR": {Code: "INR", Symbol: "₹", Decimals: 2},
}

// localeSeparators describes number punctuation for a locale tag. Unknown
// locales fall back to "en".
type localeSeparators struct {
	Decimal  string
	Grouping string
}

var locales = map[string]localeSeparators{
	"en": {Decimal: ".", Grouping: ","},
	"de": {Decimal: ",", Grouping: "."},
	"es": {Decimal: ",", Grouping: "."},
	"it": {Decimal: ",", Grouping: "."},
	"pl": {Decimal: ",", Grouping: " "},
	"fr": {Decimal: ",", Grouping: " "},
}

// moneyFormatter formats decimal amounts for one currency and locale.
type moneyFormatter struct {
	currency currency
	seps     localeSeparators
}

func newMoneyFormatter(currencyCode, locale string) moneyFormatter {
	cur, ok := currencies[strings.ToUpper(currencyCode)]
	if !ok {
		if currencyCode != "" {
			slog.Warn("unrecognized currency code, falling back to USD", "code", currencyCode)
		}
		cur = currencies["USD"]
	}
	seps, ok := locales[strings.ToLower(locale)]
	if !ok {
		seps = locales["en"]
	}
	return moneyFormatter{currency: cur, seps: seps}
}

// Format renders an amount with symbol, grouping, and the currency's
// fractional digits, e.g. "$1,234.56" or "-€12,00".
func (f moneyFormatter) Format(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	fixed := amount.Abs().StringFixed(f.currency.Decimals)

	intPart := fixed
	fracPart := ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(f.currency.Symbol)
	b.WriteString(groupDigits(intPart, f.seps.Grouping))
	if fracPart != "" {
		b.WriteString(f.seps.Decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}

// groupDigits inserts the grouping separator every three digits from the
// right.
func groupDigits(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
