// Package format holds the pure formatting and classification helpers shared
// by every facet view.
package format

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// INRRate is the fixed USD to INR rate used for display. It is an
// approximation, not a live exchange rate.
const INRRate = 83.0

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
}

// FormatCurrency rounds amount to the nearest whole unit and groups digits
// the way the currency's home locale does. NaN and Inf format as zero.
func FormatCurrency(amount float64, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		code = "USD"
	}

	rounded := roundWhole(amount)
	negative := rounded.IsNegative()
	digits := rounded.Abs().String()

	var grouped string
	if code == "INR" {
		grouped = groupIndian(digits)
	} else if rounded.Abs().LessThanOrEqual(decimal.NewFromInt(math.MaxInt64)) {
		grouped = humanize.Comma(rounded.Abs().IntPart())
	} else {
		grouped = groupWestern(digits)
	}

	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	if negative {
		return "-" + symbol + grouped
	}
	return symbol + grouped
}

// ConvertUsdToInr converts at the fixed INRRate.
func ConvertUsdToInr(amountUSD float64) float64 {
	return ConvertUsdToInrAt(amountUSD, INRRate)
}

// ConvertUsdToInrAt converts at an explicit rate. A non-positive rate falls
// back to INRRate.
func ConvertUsdToInrAt(amountUSD, rate float64) float64 {
	if rate <= 0 {
		rate = INRRate
	}
	if !finite(amountUSD) {
		return 0
	}
	out, _ := decimal.NewFromFloat(amountUSD).Mul(decimal.NewFromFloat(rate)).Float64()
	return out
}

// FormatPercentage renders a fraction as a percentage with one decimal place.
// Ties round away from zero.
func FormatPercentage(fraction float64) string {
	if !finite(fraction) {
		fraction = 0
	}
	return decimal.NewFromFloat(fraction*100).Round(1).StringFixed(1) + "%"
}

// FormatRatio renders a multiple such as a revenue multiple, e.g. "5.00x".
func FormatRatio(v float64) string {
	if !finite(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).Round(2).StringFixed(2) + "x"
}

func roundWhole(amount float64) decimal.Decimal {
	if !finite(amount) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(amount).Round(0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// groupIndian applies lakh/crore grouping: the last three digits, then pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}

func groupWestern(digits string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
