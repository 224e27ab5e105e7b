// Package core holds the dashboard snapshot model, its seed data and the
// display helpers shared by every consumer.
//
// This file contains the formatting helpers used when rendering amounts:
// currency strings, K/M abbreviations, averages and progress clamps.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencySymbol resolves the prefix printed before an amount.
//
// An empty currency yields DefaultCurrencySymbol. An upper-case ISO 4217 code
// known to go-money is replaced by its grapheme ("INR" -> "₹", "USD" -> "$").
// Anything else is assumed to already be a symbol and is returned unchanged.
func CurrencySymbol(currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return DefaultCurrencySymbol
	}
	if isCurrencyCode(currency) {
		if c := money.GetCurrency(currency); c != nil && c.Grapheme != "" {
			return c.Grapheme
		}
	}
	return currency
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// FormatCurrency formats value with en-US digit grouping, prefixed by the
// currency symbol. Integral values get no fraction digits, everything else
// exactly two (rounded half away from zero).
//
// Examples:
//
//	FormatCurrency(1000, "")     -> "₹1,000"
//	FormatCurrency(1000.5, "")   -> "₹1,000.50"
//	FormatCurrency(250.09, "$")  -> "$250.09"
func FormatCurrency(value float64, currency string) string {
	symbol := CurrencySymbol(currency)
	if s, ok := nonFinite(value); ok {
		return symbol + s
	}
	d := decimal.NewFromFloat(value)
	var places int32 = 2
	if d.IsInteger() {
		places = 0
	}
	return symbol + groupThousands(d.StringFixed(places))
}

// FormatNumber abbreviates large values: one decimal and an "M" suffix from a
// million, one decimal and a "K" suffix from a thousand, the plain number below.
// The decimal is rounded from the exact binary value, so 2550 gives "2.5K".
func FormatNumber(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	switch {
	case v >= 1_000_000:
		return oneDecimal(v/1_000_000) + "M"
	case v >= 1_000:
		return oneDecimal(v/1_000) + "K"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func oneDecimal(v float64) string {
	return decimal.NewFromFloatWithExponent(v, -1).StringFixed(1)
}

// Average returns the arithmetic mean of values, or 0 when there are none.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// ClampPercent converts value/max to a percentage bounded to [0,100].
// A non-positive max yields 0.
func ClampPercent(value, max float64) float64 {
	if max <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Min(math.Max(0, value/max*100), 100)
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "∞", true
	case math.IsInf(v, -1):
		return "-∞", true
	}
	return "", false
}

// groupThousands inserts commas into the integer part of a plain decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3 + len(frac) + 2)
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
